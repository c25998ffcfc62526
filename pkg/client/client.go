// Package client is a small front-end for the firstline API. It carries the
// behaviors the browser UI enforces, the 280-character counter and the single
// outstanding analysis request, so any front-end gets them for free.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// MaxHookLength mirrors the server-side input limit.
const MaxHookLength = 280

// ErrRequestInFlight is returned when Analyze is called while a previous
// analysis is still outstanding.
var ErrRequestInFlight = errors.New("an analysis request is already in flight")

type Client struct {
	baseURL string
	token   string
	client  *http.Client

	analyzing atomic.Bool
}

// Usage is the remaining-quota view returned by the usage endpoint.
type Usage struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

func New(baseURL, accessToken string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   accessToken,
		client: &http.Client{
			Timeout: 60 * time.Second, // the model call dominates
		},
	}
}

// UseDefaultClient routes requests through http.DefaultClient so tests can
// install a mock transport.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// RemainingChars is the character-counter value for an input field.
func RemainingChars(hook string) int {
	return MaxHookLength - utf8.RuneCountInString(hook)
}

// Analyze submits one hook and returns the analysis block. Only one call may
// be outstanding per Client; concurrent calls fail with ErrRequestInFlight.
func (c *Client) Analyze(ctx context.Context, hook string) (string, error) {
	if RemainingChars(hook) < 0 {
		return "", fmt.Errorf("hook must be %d characters or less", MaxHookLength)
	}

	if !c.analyzing.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer c.analyzing.Store(false)

	payload, err := json.Marshal(map[string]string{"hook": hook})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	var out struct {
		Analysis string `json:"analysis"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}

	return out.Analysis, nil
}

// GetUsage fetches today's usage count and the daily limit.
func (c *Client) GetUsage(ctx context.Context) (*Usage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/usage", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var out Usage
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		buf, _ := io.ReadAll(resp.Body)

		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(buf, &apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}

		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(buf))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
