package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synapse-ai/synapse-chat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure synapse-chat: endpoint variant, whether the
client identifier is sent, language, theme and clipboard copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintf(deps.Stderr, "Warning: %v, using defaults\n", err)
			}
			return deps.TUI.RunConfig(cfg)
		},
	}
}
