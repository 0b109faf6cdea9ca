package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/linode/ai-quickstart-minstral/internal/poll"
	"github.com/linode/ai-quickstart-minstral/internal/record"
)

// Deployment is one known deployment plus a point-in-time reachability
// snapshot of its two endpoints.
type Deployment struct {
	Record        *record.Record
	CoreReachable bool
	ChatReachable bool
}

// Status lists the locally recorded deployments and probes each endpoint
// once with a short timeout.
func Status(ctx *Context) ([]Deployment, error) {
	records, err := ctx.Records.List()
	if err != nil {
		return nil, fmt.Errorf("listing deployment records: %w", err)
	}

	probe := poll.TCP()
	out := make([]Deployment, 0, len(records))
	for _, rec := range records {
		d := Deployment{Record: rec}
		if rec.InstanceIP != "" {
			d.CoreReachable = probeOnce(ctx, probe, fmt.Sprintf("%s:8000", rec.InstanceIP))
			d.ChatReachable = probeOnce(ctx, probe, fmt.Sprintf("%s:3000", rec.InstanceIP))
		}
		out = append(out, d)
	}
	return out, nil
}

func probeOnce(ctx context.Context, probe poll.Probe, target string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return probe(probeCtx, target) == nil
}
