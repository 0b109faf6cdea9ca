package provisioning

import (
	"fmt"
	"time"

	"github.com/linode/ai-quickstart-minstral/internal/platform/linode"
	"github.com/linode/ai-quickstart-minstral/internal/poll"
	"github.com/linode/ai-quickstart-minstral/internal/record"
	"github.com/linode/ai-quickstart-minstral/internal/userdata"
	"github.com/linode/ai-quickstart-minstral/internal/util/keygen"
	"github.com/linode/ai-quickstart-minstral/internal/validate"
)

// Request describes one deployment to provision.
type Request struct {
	Model    string
	Region   string
	Type     string
	Image    string
	Label    string // generated when empty
	RootPass string // generated when empty
}

// Result aggregates the outcome of a successful provisioning run.
// Caveats carry degraded-but-non-fatal conditions observed along the way.
type Result struct {
	Record            *record.Record
	CoreURL           string
	ChatURL           string
	RootPassword      string
	GeneratedPassword bool
	Caveats           []string
}

// Provision creates the instance, persists its record, waits for the node
// to come up and validates the inference stack. Failures before the
// record is written abort with no state left behind; later failures
// degrade to caveats where the node itself is healthy.
func Provision(ctx *Context, req Request) (*Result, error) {
	if req.Label == "" {
		req.Label = fmt.Sprintf("ai-quickstart-%d", time.Now().Unix())
	}

	generated := false
	if req.RootPass == "" {
		pass, err := keygen.GeneratePassword()
		if err != nil {
			return nil, fmt.Errorf("generating root password: %w", err)
		}
		req.RootPass = pass
		generated = true
	}
	if err := linode.ValidateRootPass(req.RootPass); err != nil {
		return nil, err
	}

	var authorizedKeys []string
	if key := keygen.DiscoverAuthorizedKey(keygen.DefaultSSHDir()); key != "" {
		authorizedKeys = append(authorizedKeys, key)
		ctx.Observer.Printf("using local SSH public key for root login")
	}

	payload := userdata.Render(req.Model)

	LogStepStart(ctx.Observer, "create")
	start := time.Now()
	inst, err := ctx.Provider.CreateInstance(ctx, linode.InstanceCreateOpts{
		Label:          req.Label,
		Region:         req.Region,
		Type:           req.Type,
		Image:          req.Image,
		RootPass:       req.RootPass,
		AuthorizedKeys: authorizedKeys,
		UserData:       userdata.Encode(payload),
		Tags:           []string{"ai-quickstart"},
	})
	if err != nil {
		LogStepFailed(ctx.Observer, "create", err)
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	LogStepComplete(ctx.Observer, "create", time.Since(start))
	ctx.Observer.Event(Event{
		Type:     EventResourceCreated,
		Step:     "create",
		Resource: req.Label,
		Message:  fmt.Sprintf("instance %d in %s", inst.ID, inst.Region),
	})

	rec := &record.Record{
		InstanceID:   inst.ID,
		InstanceIP:   inst.PublicIP,
		InstanceType: req.Type,
		Region:       req.Region,
		Label:        req.Label,
		RootPassword: req.RootPass,
		ModelID:      req.Model,
		CreatedAt:    time.Now().UTC(),
	}

	if err := ctx.Records.Save(rec); err != nil {
		return nil, fmt.Errorf("saving deployment record: %w", err)
	}

	ip, err := resolveAddress(ctx, inst)
	if err != nil {
		return nil, err
	}
	if ip != rec.InstanceIP {
		rec.InstanceIP = ip
		if err := ctx.Records.Save(rec); err != nil {
			return nil, fmt.Errorf("updating deployment record: %w", err)
		}
	}

	res := &Result{
		Record:            rec,
		CoreURL:           fmt.Sprintf("http://%s:8000/v1", ip),
		ChatURL:           fmt.Sprintf("http://%s:3000", ip),
		RootPassword:      req.RootPass,
		GeneratedPassword: generated,
	}

	LogStepStart(ctx.Observer, "ssh-wait")
	sshRes := poll.Poll(ctx, fmt.Sprintf("%s:22", ip), poll.TCP(),
		poll.WithInterval(ctx.Timeouts.SSHPollInterval),
		poll.WithMaxAttempts(ctx.Timeouts.SSHPollAttempts),
		poll.WithLogf(ctx.Observer.Printf),
	)
	if sshRes.Outcome != poll.Ready {
		msg := fmt.Sprintf("SSH on %s not reachable after %d attempts; the node may still be booting", ip, sshRes.Attempts)
		LogWarning(ctx.Observer, "ssh-wait", msg)
		res.Caveats = append(res.Caveats, msg)
	} else {
		LogStepComplete(ctx.Observer, "ssh-wait", sshRes.Elapsed)
	}

	settle(ctx)

	LogStepStart(ctx.Observer, "validate")
	newValidator := ctx.NewValidator
	if newValidator == nil {
		newValidator = validate.NewValidator
	}
	validator := newValidator(ip, req.Model)
	validator.Logf = ctx.Observer.Printf
	report := validator.Validate(ctx)
	res.Caveats = append(res.Caveats, report.Caveats...)
	LogStepComplete(ctx.Observer, "validate", time.Since(start))

	return res, nil
}

// resolveAddress returns the instance's public address, re-querying the
// provider with bounded retry when the create response omitted it.
func resolveAddress(ctx *Context, inst *linode.Instance) (string, error) {
	if inst.PublicIP != "" {
		return inst.PublicIP, nil
	}
	for attempt := 1; attempt <= ctx.Timeouts.IPResolveAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(ctx.Timeouts.IPResolveDelay):
		}
		current, err := ctx.Provider.GetInstance(ctx, inst.ID)
		if err != nil {
			continue
		}
		if current.PublicIP != "" {
			return current.PublicIP, nil
		}
	}
	return "", fmt.Errorf("instance %d has no public address after %d queries", inst.ID, ctx.Timeouts.IPResolveAttempts)
}

// settle waits for cloud-init and the container stack to make progress
// before external validation starts.
func settle(ctx *Context) {
	if ctx.Settle != nil {
		ctx.Settle(ctx)
		return
	}
	if ctx.Timeouts.SettleDelay <= 0 {
		return
	}
	ctx.Observer.Printf("waiting %v for first-boot provisioning to progress", ctx.Timeouts.SettleDelay)
	select {
	case <-ctx.Done():
	case <-time.After(ctx.Timeouts.SettleDelay):
	}
}
