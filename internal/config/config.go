package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file or a field is absent.
const (
	DefaultRegion = "us-ord"
	DefaultType   = "g2-gpu-rtx4000a1-s"
	DefaultImage  = "linode/ubuntu24.04"
	DefaultModel  = "mistralai/Mistral-7B-Instruct-v0.3"
)

// Config describes one deployment request. All fields have defaults
// except the API token, which comes from the environment.
type Config struct {
	// Model is the Hugging Face model id served by the inference engine.
	Model string `yaml:"model"`

	// Region is the datacenter the instance is created in.
	Region string `yaml:"region"`

	// Type is the instance plan; it must be a GPU plan for the inference
	// stack to start.
	Type string `yaml:"type"`

	// Image is the base OS image.
	Image string `yaml:"image"`

	// Label names the instance. When empty a timestamped label is
	// generated at provision time.
	Label string `yaml:"label"`

	// RootPass is the instance root password. When empty a random
	// password satisfying the provider policy is generated.
	RootPass string `yaml:"root_pass"`

	// StrictHealth escalates a never-healthy core service from a caveat
	// to a deployment error.
	StrictHealth bool `yaml:"strict_health"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		Model:  DefaultModel,
		Region: DefaultRegion,
		Type:   DefaultType,
		Image:  DefaultImage,
	}
}

// Load reads a YAML config file and applies defaults to unset fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
}

// Validate checks the fields that would otherwise fail at the API.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Type == "" {
		return fmt.Errorf("type must not be empty")
	}
	if c.Image == "" {
		return fmt.Errorf("image must not be empty")
	}
	if c.RootPass != "" && (len(c.RootPass) < 11 || len(c.RootPass) > 128) {
		return fmt.Errorf("root_pass must be 11-128 characters, got %d", len(c.RootPass))
	}
	return nil
}
