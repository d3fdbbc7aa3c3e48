// Package commands implements the leapdoi subcommands.
package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapdoi/internal/cli/config"
	"github.com/leapstack-labs/leapdoi/internal/cli/output"
	"github.com/leapstack-labs/leapdoi/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	RunID    string
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration
// and the logger stored on the command context. Run ids are attached by the
// engine per build, not here.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		RunID:    config.GetRunID(cmd.Context()),
		Engine:   engine.New(engine.Config{Settings: &cfg.Settings, Logger: logger}),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command having loaded one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
