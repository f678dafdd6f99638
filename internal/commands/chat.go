package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/synapse-ai/synapse-chat/internal/config"
	"github.com/synapse-ai/synapse-chat/internal/console"
	"github.com/synapse-ai/synapse-chat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the Synapse AI assistant.

On a terminal the full-screen interface is used: Enter or Ctrl+S sends,
Alt+Enter inserts a newline and Esc or Ctrl+C quits. With --plain, or when
stdout is not a terminal, a line-based prompt is used instead. Type 'exit' or
'quit' to leave it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useTUI := !plain && deps.IsTerminal()

			env, err := newChatEnv(deps, flags, !useTUI)
			if err != nil {
				return err
			}
			defer env.Close()

			if useTUI {
				if env.cfg.TUITheme != "" {
					tui.SetTheme(env.cfg.TUITheme)
				}
				return deps.TUI.RunChat(env.client, env.options...)
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			reader, err := deps.NewLineReader(filepath.Join(configDir, "history"))
			if err != nil {
				return err
			}

			repl := console.New(reader, env.client, env.logger.Logger, env.options...)
			repl.SetEraseThinking(deps.IsTerminal())
			return repl.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-based prompt instead of the full-screen interface")

	return cmd
}
