// Package main is the entry point for the quickstart on-node agent.
//
// The agent runs once at first boot, launched by the cloud-init payload.
// It installs the container runtime and GPU tooling, starts the inference
// stack and writes the terminal status to the login banner.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/linode/ai-quickstart-minstral/internal/bootstrap"
)

const defaultLogFile = "/var/log/quickstart-bootstrap.log"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quickstart-agent",
		Short: "First-boot agent that bootstraps the inference stack",
	}
	cmd.AddCommand(runCmd())
	return cmd
}

func runCmd() *cobra.Command {
	var (
		cfg     bootstrap.Config
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install dependencies and start the inference stack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.ModelID == "" {
				return fmt.Errorf("--model is required")
			}

			logger, closeLog := newLogger(logFile)
			defer closeLog()

			exec := bootstrap.NewExecutor(cfg, bootstrap.WithLogger(logger))
			if err := exec.Run(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("bootstrap failed")
				return err
			}
			logger.Info().Msg("bootstrap complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.ModelID, "model", "", "Hugging Face model id to serve")
	cmd.Flags().StringVar(&cfg.DataDir, "data-dir", "", "Deployment data directory (default /opt/ai-quickstart)")
	cmd.Flags().StringVar(&cfg.StatusFile, "status-file", "", "Terminal status file (default /etc/motd)")
	cmd.Flags().BoolVar(&cfg.StrictHealth, "strict-health", false, "Treat a never-healthy model server as a bootstrap failure")
	cmd.Flags().StringVar(&logFile, "log-file", defaultLogFile, "Bootstrap log file")

	return cmd
}

// newLogger writes structured logs to stderr and, when the log file can
// be opened, to the bootstrap log the status banner points at.
func newLogger(path string) (zerolog.Logger, func()) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}
	closeLog := func() {}

	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			writers = append(writers, f)
			closeLog = func() { _ = f.Close() }
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return logger, closeLog
}
