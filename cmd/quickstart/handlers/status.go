package handlers

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/linode/ai-quickstart-minstral/internal/provisioning"
)

// statusFn runs the status operation - can be replaced in tests.
var statusFn = provisioning.Status

// Status handles the status command.
//
// It lists locally recorded deployments and probes each endpoint once.
// The status command works without a provider token: it reads the local
// record store and talks only to the deployed instances.
func Status(ctx context.Context) error {
	pCtx := newProvisioningContext(ctx, nil, nil, newRecordStore())

	deployments, err := statusFn(pCtx)
	if err != nil {
		return err
	}
	if len(deployments) == 0 {
		fmt.Fprintln(stdout, "No deployments found. Run 'quickstart deploy' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE\tLABEL\tMODEL\tADDRESS\tAPI\tCHAT")
	for _, d := range deployments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.Record.InstanceID,
			d.Record.Label,
			d.Record.ModelID,
			d.Record.InstanceIP,
			reachability(d.CoreReachable),
			reachability(d.ChatReachable),
		)
	}
	return w.Flush()
}

func reachability(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
