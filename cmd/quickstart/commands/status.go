package commands

import (
	"github.com/spf13/cobra"

	"github.com/linode/ai-quickstart-minstral/cmd/quickstart/handlers"
)

// Status returns the status command, which lists known deployments and
// probes their endpoints once.
func Status() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List deployments and probe their endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context())
		},
	}
}
