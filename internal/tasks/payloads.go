package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// This file defines the "types" and "payloads" for our async tasks.

// Task type names
const (
	TypeTaskRecordAnalysis = "task:record_analysis"
)

// RecordAnalysisPayload carries an analysis row whose synchronous insert
// failed; the worker re-attempts it so quota accounting catches up.
type RecordAnalysisPayload struct {
	UserID     string `json:"user_id"`
	InputText  string `json:"input_text"`
	Score      *int   `json:"score"`
	UsedTokens int64  `json:"used_tokens"`
}

// NewRecordAnalysisTask creates a new task for asynq
func NewRecordAnalysisTask(userID, inputText string, score *int, usedTokens int64) (*asynq.Task, error) {
	payload := RecordAnalysisPayload{
		UserID:     userID,
		InputText:  inputText,
		Score:      score,
		UsedTokens: usedTokens,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTaskRecordAnalysis, payloadBytes), nil
}
