package linode

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/linode/linodego"
)

// RealClient implements InstanceProvisioner against the Linode API.
type RealClient struct {
	client linodego.Client
}

// NewRealClient builds a client authenticated with the given personal
// access token.
func NewRealClient(token string) *RealClient {
	c := linodego.NewClient(&http.Client{Timeout: 60 * time.Second})
	c.SetToken(token)
	return &RealClient{client: c}
}

func (c *RealClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*Instance, error) {
	if err := ValidateRootPass(opts.RootPass); err != nil {
		return nil, err
	}
	createOpts := linodego.InstanceCreateOptions{
		Region:         opts.Region,
		Type:           opts.Type,
		Label:          opts.Label,
		RootPass:       opts.RootPass,
		AuthorizedKeys: opts.AuthorizedKeys,
		Image:          opts.Image,
		Tags:           opts.Tags,
		Booted:         boolPtr(true),
	}
	if opts.UserData != "" {
		createOpts.Metadata = &linodego.InstanceMetadataOptions{UserData: opts.UserData}
	}
	inst, err := c.client.CreateInstance(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("creating instance %q: %w", opts.Label, err)
	}
	return fromLinodego(inst), nil
}

func (c *RealClient) GetInstance(ctx context.Context, id int) (*Instance, error) {
	inst, err := c.client.GetInstance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting instance %d: %w", id, err)
	}
	return fromLinodego(inst), nil
}

func (c *RealClient) DeleteInstance(ctx context.Context, id int) error {
	if err := c.client.DeleteInstance(ctx, id); err != nil {
		return fmt.Errorf("deleting instance %d: %w", id, err)
	}
	return nil
}

func (c *RealClient) ListInstances(ctx context.Context) ([]*Instance, error) {
	instances, err := c.client.ListInstances(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	out := make([]*Instance, 0, len(instances))
	for i := range instances {
		out = append(out, fromLinodego(&instances[i]))
	}
	return out, nil
}

func fromLinodego(inst *linodego.Instance) *Instance {
	out := &Instance{
		ID:     inst.ID,
		Label:  inst.Label,
		Region: inst.Region,
		Type:   inst.Type,
		Status: string(inst.Status),
	}
	if len(inst.IPv4) > 0 && inst.IPv4[0] != nil {
		out.PublicIP = inst.IPv4[0].String()
	}
	if inst.Created != nil {
		out.Created = *inst.Created
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
