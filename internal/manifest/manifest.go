// Package manifest generates the two-service compose manifest for the
// inference stack: the vLLM core service and the Open WebUI front-end that
// depends on it.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder is the token substituted with the requested model identifier
// in manifest and user-data templates.
const Placeholder = "MODEL_ID_PLACEHOLDER"

// FileName is the manifest file name under the deployment data directory.
const FileName = "docker-compose.yml"

const (
	// CoreService is the model-inference service name. The dependent service
	// reaches it by this name on the compose network.
	CoreService = "vllm"
	// DependentService is the chat front-end service name.
	DependentService = "open-webui"

	coreImage      = "vllm/vllm-openai:latest"
	dependentImage = "ghcr.io/open-webui/open-webui:main"
)

// Compose models the subset of the compose file format this system emits.
type Compose struct {
	Services map[string]Service `yaml:"services"`
	Volumes  map[string]any     `yaml:"volumes,omitempty"`
}

// Service is a single compose service definition.
type Service struct {
	Image       string       `yaml:"image"`
	Command     []string     `yaml:"command,omitempty"`
	Ports       []string     `yaml:"ports,omitempty"`
	Environment []string     `yaml:"environment,omitempty"`
	Volumes     []string     `yaml:"volumes,omitempty"`
	Restart     string       `yaml:"restart,omitempty"`
	DependsOn   DependsOn    `yaml:"depends_on,omitempty"`
	Deploy      *Deploy      `yaml:"deploy,omitempty"`
	HealthCheck *HealthCheck `yaml:"healthcheck,omitempty"`
	IPC         string       `yaml:"ipc,omitempty"`
}

// DependsOn maps a service name to its startup condition.
type DependsOn map[string]Condition

// Condition is a compose depends_on condition.
type Condition struct {
	Condition string `yaml:"condition"`
}

// Deploy carries the GPU device reservation.
type Deploy struct {
	Resources Resources `yaml:"resources"`
}

// Resources holds device reservations.
type Resources struct {
	Reservations Reservations `yaml:"reservations"`
}

// Reservations lists reserved devices.
type Reservations struct {
	Devices []Device `yaml:"devices"`
}

// Device is a single device reservation.
type Device struct {
	Driver       string   `yaml:"driver"`
	Count        string   `yaml:"count"`
	Capabilities []string `yaml:"capabilities"`
}

// HealthCheck is a compose healthcheck block.
type HealthCheck struct {
	Test        []string `yaml:"test"`
	Interval    string   `yaml:"interval"`
	Timeout     string   `yaml:"timeout"`
	Retries     int      `yaml:"retries"`
	StartPeriod string   `yaml:"start_period"`
}

// Render substitutes every occurrence of [Placeholder] in template with
// modelID, verbatim. All non-placeholder content is preserved byte-for-byte.
func Render(template, modelID string) string {
	return strings.ReplaceAll(template, Placeholder, modelID)
}

// Synthesize builds the manifest directly when no template is available.
// The core service binds 0.0.0.0:8000 to container port 8000 with an all-GPU
// nvidia reservation; the dependent service binds 0.0.0.0:3000 to container
// port 8080 and starts once the core service process has been started, not
// once it is healthy, since model load can take far longer than any sane
// startup wait.
func Synthesize(modelID string) ([]byte, error) {
	compose := Compose{
		Services: map[string]Service{
			CoreService: {
				Image:   coreImage,
				Command: []string{"--model", modelID, "--host", "0.0.0.0", "--port", "8000"},
				Ports:   []string{"8000:8000"},
				Volumes: []string{"/opt/ai-quickstart/models:/root/.cache/huggingface"},
				Restart: "unless-stopped",
				IPC:     "host",
				Deploy: &Deploy{
					Resources: Resources{
						Reservations: Reservations{
							Devices: []Device{{
								Driver:       "nvidia",
								Count:        "all",
								Capabilities: []string{"gpu"},
							}},
						},
					},
				},
				HealthCheck: &HealthCheck{
					Test:        []string{"CMD", "curl", "-f", "http://localhost:8000/v1/models"},
					Interval:    "30s",
					Timeout:     "10s",
					Retries:     5,
					StartPeriod: "180s",
				},
			},
			DependentService: {
				Image: dependentImage,
				Ports: []string{"3000:8080"},
				Environment: []string{
					fmt.Sprintf("OPENAI_API_BASE_URL=http://%s:8000/v1", CoreService),
					"WEBUI_AUTH=false",
				},
				Volumes: []string{"/opt/ai-quickstart/webui:/app/backend/data"},
				Restart: "unless-stopped",
				DependsOn: DependsOn{
					CoreService: {Condition: "service_started"},
				},
			},
		},
	}

	out, err := yaml.Marshal(compose)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return out, nil
}

// Generate produces the manifest content for modelID: template substitution
// when a template is supplied, direct synthesis otherwise.
func Generate(template, modelID string) ([]byte, error) {
	if template != "" {
		return []byte(Render(template, modelID)), nil
	}
	return Synthesize(modelID)
}

// Write places content at dir/docker-compose.yml, overwriting any previous
// manifest. Re-running with the same model identifier regenerates identical
// content, so the write is idempotent.
func Write(dir string, content []byte) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
