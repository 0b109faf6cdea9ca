// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/linode/ai-quickstart-minstral/internal/config"
	"github.com/linode/ai-quickstart-minstral/internal/platform/linode"
	"github.com/linode/ai-quickstart-minstral/internal/provisioning"
	"github.com/linode/ai-quickstart-minstral/internal/record"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newProviderClient creates the provider client from an API token.
	newProviderClient = func(token string) linode.InstanceProvisioner {
		return linode.NewRealClient(token)
	}

	// newRecordStore opens the local deployment record store.
	newRecordStore = func() *record.Store {
		return record.NewStore(record.DefaultDir())
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// provisionFn runs the provisioning orchestrator.
	provisionFn = provisioning.Provision

	// loadConfigFile loads config from file.
	loadConfigFile = config.Load

	// stdout is the destination for the access summary.
	stdout io.Writer = os.Stdout
)

// DeployOptions carries the deploy command's flag values. Non-empty
// fields override the corresponding config file fields.
type DeployOptions struct {
	ConfigPath string
	Model      string
	Region     string
	Type       string
	Image      string
	Label      string
}

// Deploy provisions a GPU instance and reports how to reach the
// inference stack once it is up.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	token := os.Getenv("LINODE_TOKEN")
	if token == "" {
		return fmt.Errorf("LINODE_TOKEN environment variable is required")
	}

	pCtx := newProvisioningContext(ctx, cfg, newProviderClient(token), newRecordStore())

	res, err := provisionFn(pCtx, provisioning.Request{
		Model:    cfg.Model,
		Region:   cfg.Region,
		Type:     cfg.Type,
		Image:    cfg.Image,
		Label:    cfg.Label,
		RootPass: cfg.RootPass,
	})
	if err != nil {
		return err
	}

	printAccessSummary(res)
	return nil
}

func applyOverrides(cfg *config.Config, opts DeployOptions) {
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.Region != "" {
		cfg.Region = opts.Region
	}
	if opts.Type != "" {
		cfg.Type = opts.Type
	}
	if opts.Image != "" {
		cfg.Image = opts.Image
	}
	if opts.Label != "" {
		cfg.Label = opts.Label
	}
}

// printAccessSummary writes the endpoints and credentials to stdout.
// The root password is shown here exactly once; afterwards it lives only
// in the deployment record file.
func printAccessSummary(res *provisioning.Result) {
	fmt.Fprintf(stdout, "\nDeployment complete: %s (instance %d)\n\n", res.Record.Label, res.Record.InstanceID)
	fmt.Fprintf(stdout, "  Chat UI:     %s\n", res.ChatURL)
	fmt.Fprintf(stdout, "  API:         %s\n", res.CoreURL)
	fmt.Fprintf(stdout, "  Model:       %s\n", res.Record.ModelID)
	fmt.Fprintf(stdout, "  Root login:  ssh root@%s\n", res.Record.InstanceIP)
	if res.GeneratedPassword {
		fmt.Fprintf(stdout, "  Root password (generated, shown once): %s\n", res.RootPassword)
	}
	fmt.Fprintf(stdout, "\n  WARNING: both endpoints are UNAUTHENTICATED. Anyone who can reach\n")
	fmt.Fprintf(stdout, "  this instance can use the model and read conversations.\n")
	if len(res.Caveats) > 0 {
		fmt.Fprintf(stdout, "\nCaveats:\n")
		for _, c := range res.Caveats {
			fmt.Fprintf(stdout, "  - %s\n", c)
		}
		fmt.Fprintf(stdout, "\nThe model download can take several minutes; check again with 'quickstart status'.\n")
	}
}
