// Package validate checks a deployed inference stack from the outside: the
// services' health surfaces and the OpenAI-compatible chat-completion
// contract of the core service.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatMessage is one turn of a chat-completion conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the synthetic inference request body.
type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// ChatRequest builds the synthetic probe request for modelID. One short
// completion is enough to prove the contract end to end.
func ChatRequest(modelID string) any {
	return chatCompletionRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "user", Content: "Reply with the single word: ready"},
		},
		MaxTokens: 8,
	}
}

// ReadEnvelope drains a probe response, bounding the body read.
func ReadEnvelope(resp *http.Response) (raw []byte, status int, err error) {
	raw, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

// CheckChatEnvelope verifies the response shape of a chat completion: a 200
// status, an "object" discriminator of chat.completion, and a choices array
// whose first element carries a message.
func CheckChatEnvelope(status int, raw []byte) error {
	if status != http.StatusOK {
		return fmt.Errorf("status %d (body: %.200s)", status, raw)
	}

	var envelope struct {
		Object  string `json:"object"`
		Choices []struct {
			Message *struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("response is not valid JSON: %w (body: %.200s)", err, raw)
	}

	if envelope.Object != "chat.completion" {
		return fmt.Errorf("object is %q, want chat.completion", envelope.Object)
	}
	if len(envelope.Choices) == 0 {
		return fmt.Errorf("choices array is empty")
	}
	if envelope.Choices[0].Message == nil {
		return fmt.Errorf("first choice has no message")
	}
	return nil
}
