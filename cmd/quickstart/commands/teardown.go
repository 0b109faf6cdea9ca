package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/linode/ai-quickstart-minstral/cmd/quickstart/handlers"
)

// Teardown returns the teardown command.
//
// The teardown command deletes a deployed instance and removes its local
// deployment record.
func Teardown() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown <instance-id>",
		Short: "Delete a deployed instance and its local record",
		Long: `Teardown deletes the instance at the provider and removes the local
deployment record, including the stored root password.

Example:
  quickstart teardown 12345678

WARNING: This operation is irreversible. Model data on the instance is lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("instance id must be numeric, got %q", args[0])
			}
			return handlers.Teardown(cmd.Context(), id)
		},
	}
}
