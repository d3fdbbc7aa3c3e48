package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapdoi/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, leapdoi.yaml, LEAPDOI_*
environment variables and flags. The YAML output is a valid leapdoi.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			data, err := yaml.Marshal(cc.Cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if used := config.GetConfigFileUsed(); used != "" {
				cc.Renderer.Printf("# config file: %s\n", used)
			}
			cc.Renderer.Printf("%s", data)
			return nil
		},
	}
}
