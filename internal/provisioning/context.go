package provisioning

import (
	"context"

	"github.com/linode/ai-quickstart-minstral/internal/config"
	"github.com/linode/ai-quickstart-minstral/internal/platform/linode"
	"github.com/linode/ai-quickstart-minstral/internal/record"
	"github.com/linode/ai-quickstart-minstral/internal/validate"
)

// Context wraps all dependencies needed by the provisioning operations.
type Context struct {
	context.Context
	Config   *config.Config
	Provider linode.InstanceProvisioner
	Records  *record.Store
	Observer Observer
	Timeouts *config.Timeouts

	// Settle overrides the post-boot settle wait when non-nil; tests use
	// it to skip the sleep.
	Settle func(ctx context.Context)

	// NewValidator overrides construction of the stack validator when
	// non-nil; tests install one with short poll budgets.
	NewValidator func(addr, modelID string) *validate.Validator
}

// NewContext creates a provisioning context with console observability
// and environment-derived timeouts.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	provider linode.InstanceProvisioner,
	records *record.Store,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Provider: provider,
		Records:  records,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}
