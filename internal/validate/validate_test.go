package validate

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(t *testing.T, object string, choices []map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"object":  object,
		"choices": choices,
	})
	require.NoError(t, err)
	return body
}

func TestCheckChatEnvelope(t *testing.T) {
	t.Parallel()
	validChoices := []map[string]any{
		{"message": map[string]any{"role": "assistant", "content": "ready"}},
	}

	tests := []struct {
		name    string
		status  int
		body    []byte
		wantErr string
	}{
		{
			name:   "valid envelope",
			status: http.StatusOK,
			body:   completionBody(t, "chat.completion", validChoices),
		},
		{
			name:    "non-200 status",
			status:  http.StatusServiceUnavailable,
			body:    []byte(`{"error":"loading"}`),
			wantErr: "status 503",
		},
		{
			name:    "wrong object discriminator",
			status:  http.StatusOK,
			body:    completionBody(t, "text_completion", validChoices),
			wantErr: "want chat.completion",
		},
		{
			name:    "empty choices",
			status:  http.StatusOK,
			body:    completionBody(t, "chat.completion", []map[string]any{}),
			wantErr: "choices array is empty",
		},
		{
			name:    "choice without message",
			status:  http.StatusOK,
			body:    completionBody(t, "chat.completion", []map[string]any{{"index": 0}}),
			wantErr: "no message",
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    []byte("<html>gateway error</html>"),
			wantErr: "not valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckChatEnvelope(tt.status, tt.body)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChatRequest_Shape(t *testing.T) {
	t.Parallel()
	body, err := json.Marshal(ChatRequest("mistralai/Mistral-7B-Instruct-v0.3"))
	require.NoError(t, err)

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	require.NoError(t, json.Unmarshal(body, &req))

	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Positive(t, req.MaxTokens)
}
