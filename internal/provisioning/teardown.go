package provisioning

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/linode/ai-quickstart-minstral/internal/platform/linode"
)

// Teardown deletes the instance and removes the local deployment record.
// An instance already gone at the provider is treated as success so the
// record is still cleaned up.
func Teardown(ctx *Context, instanceID int) error {
	rec, err := ctx.Records.Load(instanceID)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading deployment record: %w", err)
	}

	label := fmt.Sprintf("instance %d", instanceID)
	if err == nil {
		label = rec.Label
	}

	if err := ctx.Provider.DeleteInstance(ctx, instanceID); err != nil {
		if !linode.IsNotFound(err) {
			return fmt.Errorf("deleting instance %d: %w", instanceID, err)
		}
		LogWarning(ctx.Observer, "teardown", fmt.Sprintf("%s already gone at the provider", label))
	} else {
		ctx.Observer.Event(Event{
			Type:     EventResourceDeleted,
			Step:     "teardown",
			Resource: label,
			Message:  "instance deleted",
		})
	}

	if err := ctx.Records.Remove(instanceID); err != nil {
		return fmt.Errorf("removing deployment record: %w", err)
	}
	return nil
}
