package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/linode/ai-quickstart-minstral/internal/provisioning"
)

// teardownFn runs the teardown operation - can be replaced in tests.
var teardownFn = provisioning.Teardown

// Teardown handles the teardown command.
//
// It deletes the instance at the provider and removes the local
// deployment record. An instance already gone at the provider is not
// an error; the record is still removed.
func Teardown(ctx context.Context, instanceID int) error {
	token := os.Getenv("LINODE_TOKEN")
	if token == "" {
		return fmt.Errorf("LINODE_TOKEN environment variable is required")
	}

	log.Printf("Tearing down instance %d", instanceID)

	pCtx := newProvisioningContext(ctx, nil, newProviderClient(token), newRecordStore())
	if err := teardownFn(pCtx, instanceID); err != nil {
		return err
	}

	log.Printf("Instance %d removed", instanceID)
	return nil
}
