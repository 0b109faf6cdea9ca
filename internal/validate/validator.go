package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/linode/ai-quickstart-minstral/internal/poll"
)

// Report aggregates the operator-side validation of one deployment.
type Report struct {
	CoreReady      bool
	DependentReady bool
	ContractOK     bool
	Caveats        []string
}

// Validator probes a deployed node's public endpoints from the operator's
// machine. Timings default to the same generous bounds the on-node agent
// uses for the core service; tests shrink them.
type Validator struct {
	Client            *http.Client
	Logf              func(format string, v ...any)
	CoreBase          string // e.g. http://203.0.113.10:8000
	ChatBase          string // e.g. http://203.0.113.10:3000
	PollInterval      time.Duration
	CoreInterval      time.Duration
	CoreAttempts      int
	DependentAttempts int
	ContractTimeout   time.Duration
	ModelID           string
}

// NewValidator returns a validator for the stack exposed at addr.
func NewValidator(addr, modelID string) *Validator {
	return &Validator{
		Client:            &http.Client{Timeout: 30 * time.Second},
		CoreBase:          fmt.Sprintf("http://%s:8000", addr),
		ChatBase:          fmt.Sprintf("http://%s:3000", addr),
		PollInterval:      5 * time.Second,
		CoreInterval:      10 * time.Second,
		CoreAttempts:      60,
		DependentAttempts: 30,
		ContractTimeout:   60 * time.Second,
		ModelID:           modelID,
	}
}

func (v *Validator) logf(format string, args ...any) {
	if v.Logf != nil {
		v.Logf(format, args...)
	}
}

// Validate polls the model listing endpoint, the chat front-end, and then
// issues the synthetic completion probe. Nothing here is fatal: every miss
// becomes a caveat in the report.
func (v *Validator) Validate(ctx context.Context) Report {
	var report Report

	coreRes := poll.Poll(ctx, v.CoreBase+"/v1/models", poll.HTTPGet(v.Client, http.StatusOK),
		poll.WithInterval(v.CoreInterval),
		poll.WithMaxAttempts(v.CoreAttempts),
		poll.WithProbeTimeout(v.CoreInterval/2),
		poll.WithLogf(v.logf))
	report.CoreReady = coreRes.Outcome == poll.Ready
	if !report.CoreReady {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("core API not ready after %d attempts over %s; the model may still be loading",
				coreRes.Attempts, coreRes.Elapsed.Round(time.Second)))
	}

	depRes := poll.Poll(ctx, v.ChatBase+"/", poll.HTTPGet(v.Client, http.StatusOK),
		poll.WithInterval(v.PollInterval),
		poll.WithMaxAttempts(v.DependentAttempts),
		poll.WithProbeTimeout(v.PollInterval/2),
		poll.WithLogf(v.logf))
	report.DependentReady = depRes.Outcome == poll.Ready
	if !report.DependentReady {
		report.Caveats = append(report.Caveats,
			fmt.Sprintf("chat front-end not ready after %d attempts", depRes.Attempts))
	}

	if err := v.checkContract(ctx); err != nil {
		report.Caveats = append(report.Caveats, err.Error())
	} else {
		report.ContractOK = true
	}

	return report
}

func (v *Validator) checkContract(ctx context.Context) error {
	body, err := json.Marshal(ChatRequest(v.ModelID))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, v.ContractTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.CoreBase+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("chat-completion probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, status, err := ReadEnvelope(resp)
	if err != nil {
		return err
	}
	if status == http.StatusServiceUnavailable {
		return fmt.Errorf("chat-completion probe got 503; the model is still loading")
	}
	if err := CheckChatEnvelope(status, raw); err != nil {
		return fmt.Errorf("chat-completion contract mismatch: %w", err)
	}
	return nil
}
