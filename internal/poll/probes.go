package poll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// TCP returns a probe that succeeds once a TCP connection to the target
// address (host:port) can be established.
func TCP() Probe {
	return func(ctx context.Context, target string) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", target)
		if err != nil {
			return err
		}
		_ = conn.Close()
		return nil
	}
}

// HTTPGet returns a probe that issues a GET against the target URL and
// succeeds when the response status matches wantStatus.
func HTTPGet(client *http.Client, wantStatus int) Probe {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, target string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != wantStatus {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
		}
		return nil
	}
}

// HTTPPost returns a probe that POSTs body as JSON to the target URL and
// delegates readiness judgement to check, which receives the response status
// and the raw response body.
func HTTPPost(client *http.Client, body []byte, check func(status int, body []byte) error) Probe {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, target string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		return check(resp.StatusCode, respBody)
	}
}

// ShortClient returns an HTTP client suitable for probe use: no keep-alive
// pooling and an overall timeout as a second bound beside the probe context.
func ShortClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}
