package poll

import (
	"context"
	"time"
)

// Outcome classifies the result of one polling run.
type Outcome string

const (
	// Ready means the probe succeeded within the attempt cap.
	Ready Outcome = "ready"
	// TimedOut means every attempt failed and the cap was exhausted.
	TimedOut Outcome = "timed_out"
	// Unreachable means polling stopped early (context cancelled).
	Unreachable Outcome = "unreachable"
)

// Result describes a completed polling run against one target.
type Result struct {
	Target   string
	Attempts int
	Elapsed  time.Duration
	Outcome  Outcome
}

// Probe performs a single readiness check against target. It must honor the
// per-attempt timeout baked into its dialer or request and return a non-nil
// error for an unready target. A probe error counts as a failed attempt.
type Probe func(ctx context.Context, target string) error

// Config holds polling configuration.
type Config struct {
	Interval     time.Duration
	MaxAttempts  int
	ProbeTimeout time.Duration
	LogEvery     int
	Logf         func(format string, v ...any)
}

// Option is a functional option for polling configuration.
type Option func(*Config)

// WithInterval sets the fixed delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

// WithMaxAttempts sets the attempt cap.
func WithMaxAttempts(n int) Option {
	return func(c *Config) { c.MaxAttempts = n }
}

// WithProbeTimeout sets the per-attempt probe timeout. It should stay
// strictly below the interval so attempts never overlap.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Config) { c.ProbeTimeout = d }
}

// WithLogf sets the progress logger. Progress is reported at a coarse
// cadence (every LogEvery attempts), not per attempt.
func WithLogf(logf func(format string, v ...any)) Option {
	return func(c *Config) { c.Logf = logf }
}

// Poll runs probe against target until it succeeds or the attempt cap is
// exhausted. Attempts are strictly sequential with a fixed interval between
// them; there is no backoff. Poll never returns an error: exhaustion is the
// TimedOut outcome and context cancellation is Unreachable.
func Poll(ctx context.Context, target string, probe Probe, opts ...Option) Result {
	cfg := &Config{
		Interval:     5 * time.Second,
		MaxAttempts:  30,
		ProbeTimeout: 2 * time.Second,
		LogEvery:     10,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	start := time.Now()
	res := Result{Target: target}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt

		probeCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		err := probe(probeCtx, target)
		cancel()

		if err == nil {
			res.Outcome = Ready
			res.Elapsed = time.Since(start)
			return res
		}

		if cfg.Logf != nil && cfg.LogEvery > 0 && attempt%cfg.LogEvery == 0 {
			cfg.Logf("still waiting for %s (attempt %d/%d): %v", target, attempt, cfg.MaxAttempts, err)
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			res.Outcome = Unreachable
			res.Elapsed = time.Since(start)
			return res
		case <-time.After(cfg.Interval):
		}
	}

	res.Outcome = TimedOut
	res.Elapsed = time.Since(start)
	return res
}
