package testhelpers

import (
	"encoding/json"
	"fmt"
)

const chatCompletionFmt = `{
  "id": "chatcmpl-abc123",
  "object": "chat.completion",
  "created": 1741476542,
  "model": "gpt-4o-mini-2024-07-18",
  "choices": [
    {
      "index": 0,
      "message": {
        "role": "assistant",
        "content": %s,
        "refusal": null
      },
      "logprobs": null,
      "finish_reason": "stop"
    }
  ],
  "usage": {
    "prompt_tokens": 412,
    "completion_tokens": %d,
    "total_tokens": %d
  },
  "system_fingerprint": "fp_test"
}`

// ChatCompletionBody builds a chat-completions response carrying the given
// assistant text. Token counts: prompt is fixed at 412, completion makes up
// the difference to totalTokens.
func ChatCompletionBody(content string, totalTokens int) string {
	quoted, err := json.Marshal(content)
	if err != nil {
		panic(fmt.Sprintf("httpmock: failed to quote content: %v", err))
	}

	completionTokens := totalTokens - 412
	if completionTokens < 0 {
		completionTokens = 0
	}

	return fmt.Sprintf(chatCompletionFmt, quoted, completionTokens, totalTokens)
}
