package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/linode/ai-quickstart-minstral/internal/poll"
	"github.com/linode/ai-quickstart-minstral/internal/validate"
)

// healthChecks polls both services' HTTP health surfaces. Outcomes are
// advisory: the services keep initializing after the agent exits, so a
// timeout here is a caveat, not a failure.
func (e *Executor) healthChecks(ctx context.Context) error {
	depRes := poll.Poll(ctx, e.cfg.ChatBaseURL+"/", poll.HTTPGet(e.client, http.StatusOK),
		poll.WithInterval(e.cfg.PollInterval),
		poll.WithMaxAttempts(e.cfg.HealthAttempts),
		poll.WithProbeTimeout(e.cfg.PollInterval/2),
		poll.WithLogf(e.logf))
	if depRes.Outcome != poll.Ready {
		e.state.caveat(fmt.Sprintf("chat front-end not healthy after %d attempts", depRes.Attempts))
	}

	coreRes := poll.Poll(ctx, e.cfg.CoreBaseURL+"/health", poll.HTTPGet(e.client, http.StatusOK),
		poll.WithInterval(e.cfg.CoreHealthInterval),
		poll.WithMaxAttempts(e.cfg.CoreHealthAttempts),
		poll.WithProbeTimeout(e.cfg.CoreHealthInterval/2),
		poll.WithLogf(e.logf))
	if coreRes.Outcome == poll.Ready {
		e.state.CoreHealthy = true
		return nil
	}

	e.state.caveat(fmt.Sprintf("core service not healthy after %d attempts; the model may still be loading", coreRes.Attempts))
	return nil
}

func (e *Executor) coreNeverHealthy() bool {
	return !e.state.CoreHealthy
}

// validateAPIContract issues one synthetic chat-completion request and
// checks the response envelope shape. Failures are advisory and logged with
// the raw response for diagnosis; a 503 means the model is still loading.
func (e *Executor) validateAPIContract(ctx context.Context) error {
	body, err := json.Marshal(validate.ChatRequest(e.cfg.ModelID))
	if err != nil {
		return err
	}

	url := e.cfg.CoreBaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("API contract probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, status, err := validate.ReadEnvelope(resp)
	if err != nil {
		return err
	}

	if status == http.StatusServiceUnavailable {
		return fmt.Errorf("API contract probe got 503, model still loading")
	}
	if verr := validate.CheckChatEnvelope(status, raw); verr != nil {
		e.log.Warn().Str("response", string(raw)).Msg("unexpected chat-completion envelope")
		return fmt.Errorf("API contract mismatch: %w", verr)
	}
	return nil
}
