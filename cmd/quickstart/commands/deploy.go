package commands

import (
	"github.com/spf13/cobra"

	"github.com/linode/ai-quickstart-minstral/cmd/quickstart/handlers"
)

// Deploy returns the command for provisioning an inference node.
//
// Optional flags:
//
//	--config, -c: Path to deployment configuration YAML file (default: quickstart.yaml)
//	--model, --region, --type, --image, --label: override config fields
//
// Environment variables:
//
//	LINODE_TOKEN: Linode API token (required)
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create a GPU instance and bootstrap the inference stack",
		Long: `Create a GPU instance and bootstrap the inference stack on it.

The instance boots with a first-boot payload that installs Docker and the
NVIDIA container toolkit, then starts a vLLM server (OpenAI-compatible API
on port 8000) and an Open WebUI chat frontend (port 3000).

If no config file is specified, quickstart.yaml in the current directory
is used when present; otherwise built-in defaults apply.

Examples:
  # Deploy with defaults (Mistral 7B Instruct)
  quickstart deploy

  # Deploy a different model
  quickstart deploy --model meta-llama/Llama-3.1-8B-Instruct

  # Deploy from a config file
  quickstart deploy -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "quickstart.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Hugging Face model id to serve")
	cmd.Flags().StringVar(&opts.Region, "region", "", "Datacenter region")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Instance plan (must be a GPU plan)")
	cmd.Flags().StringVar(&opts.Image, "image", "", "Base OS image")
	cmd.Flags().StringVar(&opts.Label, "label", "", "Instance label")

	return cmd
}
