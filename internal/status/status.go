// Package status renders the terminal deployment state to the node's
// well-known status surface. The file is fully overwritten per terminal
// state so operators (and the provisioning CLI) always see only the latest
// outcome; its content is the system's completion signal.
package status

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultPath is the well-known status surface. Using the message of the
// day means the outcome greets anyone who logs into the node.
const DefaultPath = "/etc/motd"

// securityWarning is appended to every success block. The deployed
// endpoints carry no authentication.
const securityWarning = `WARNING: these endpoints are UNAUTHENTICATED. Anyone who can reach this
instance can run inference and read the chat UI. Restrict access with a
firewall or tear the instance down when finished.`

// remediation is the fixed checklist appended to every error block.
const remediation = `Remediation:
  - inspect the bootstrap log: /var/log/quickstart-bootstrap.log
  - check free disk space: df -h
  - verify outbound connectivity: curl -fsS https://registry-1.docker.io/v2/
  - re-deploy with a fresh instance if the failure persists`

// Access describes a successfully deployed stack.
type Access struct {
	CoreURL string
	ChatURL string
	ModelID string
	Caveats []string
}

// Reporter writes terminal status blocks to a single file.
type Reporter struct {
	path string
}

// NewReporter returns a reporter bound to path, falling back to
// [DefaultPath] when path is empty.
func NewReporter(path string) *Reporter {
	if path == "" {
		path = DefaultPath
	}
	return &Reporter{path: path}
}

// Path returns the status surface location.
func (r *Reporter) Path() string {
	return r.path
}

// Success overwrites the status surface with the access summary.
func (r *Reporter) Success(access Access) error {
	var b strings.Builder
	b.WriteString("=== AI Quickstart: deployment complete ===\n")
	fmt.Fprintf(&b, "Finished:   %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Model:      %s\n", access.ModelID)
	fmt.Fprintf(&b, "Chat UI:    %s\n", access.ChatURL)
	fmt.Fprintf(&b, "API:        %s\n", access.CoreURL)

	if len(access.Caveats) > 0 {
		b.WriteString("\nCaveats:\n")
		for _, c := range access.Caveats {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	b.WriteString("\n")
	b.WriteString(securityWarning)
	b.WriteString("\n")

	return r.write(b.String())
}

// Error overwrites the status surface with the failing phase, the cause,
// and the remediation checklist.
func (r *Reporter) Error(phase, cause string) error {
	var b strings.Builder
	b.WriteString("=== AI Quickstart: deployment FAILED ===\n")
	fmt.Fprintf(&b, "Finished:   %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Phase:      %s\n", phase)
	fmt.Fprintf(&b, "Cause:      %s\n", cause)
	b.WriteString("\n")
	b.WriteString(remediation)
	b.WriteString("\n")

	return r.write(b.String())
}

func (r *Reporter) write(content string) error {
	if err := os.WriteFile(r.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	return nil
}
