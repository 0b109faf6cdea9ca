package linode

import (
	"context"
	"fmt"
	"time"
)

const (
	// RootPassMinLen and RootPassMaxLen are the provider's accepted root
	// password bounds. Requests outside them are rejected before submission.
	RootPassMinLen = 11
	RootPassMaxLen = 128
)

// InstanceCreateOpts holds all parameters for creating a compute instance.
type InstanceCreateOpts struct {
	Label          string
	Region         string
	Type           string
	Image          string
	RootPass       string
	AuthorizedKeys []string
	// UserData is the base64-encoded first-boot payload delivered through
	// the provider's metadata service.
	UserData string
	Tags     []string
}

// Instance is the provider-independent view of a created instance.
// PublicIP may be empty immediately after creation and must then be
// re-resolved via GetInstance.
type Instance struct {
	ID       int
	Label    string
	Region   string
	Type     string
	Status   string
	PublicIP string
	Created  time.Time
}

// InstanceProvisioner defines the provider operations the orchestrator needs.
type InstanceProvisioner interface {
	// CreateInstance creates and boots a new instance.
	CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*Instance, error)

	// GetInstance returns the current state of an instance by id.
	GetInstance(ctx context.Context, id int) (*Instance, error)

	// DeleteInstance destroys an instance. Deleting an absent instance
	// returns a not-found error callers may choose to ignore.
	DeleteInstance(ctx context.Context, id int) error

	// ListInstances returns all instances visible to the account token.
	ListInstances(ctx context.Context) ([]*Instance, error)
}

// ValidateRootPass checks the provider's root password bounds before a
// create request is submitted.
func ValidateRootPass(pass string) error {
	if len(pass) < RootPassMinLen || len(pass) > RootPassMaxLen {
		return fmt.Errorf("root password must be %d-%d characters, got %d",
			RootPassMinLen, RootPassMaxLen, len(pass))
	}
	return nil
}
