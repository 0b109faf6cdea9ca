// Package userdata renders the cloud-init payload that runs the bootstrap
// agent on first boot.
package userdata

import (
	_ "embed"
	"encoding/base64"

	"github.com/linode/ai-quickstart-minstral/internal/manifest"
)

//go:embed bootstrap.sh.tmpl
var bootstrapTemplate string

// Render produces the bootstrap payload for modelID by substituting the
// model placeholder into the embedded template.
func Render(modelID string) string {
	return manifest.Render(bootstrapTemplate, modelID)
}

// Encode base64-encodes a rendered payload the way the provider's metadata
// service expects user data to be submitted.
func Encode(payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// Template exposes the raw embedded template, mainly for tests.
func Template() string {
	return bootstrapTemplate
}
