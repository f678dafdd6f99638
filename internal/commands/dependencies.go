package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/synapse-ai/synapse-chat/internal/api"
	"github.com/synapse-ai/synapse-chat/internal/config"
	"github.com/synapse-ai/synapse-chat/internal/console"
	"github.com/synapse-ai/synapse-chat/internal/tui"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ChatClientInterface, opts ...widget.Option) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewClient builds the backend client for a resolved configuration.
	NewClient func(cfg config.Config) (api.ChatClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// NewLineReader opens the prompt used by the plain chat REPL.
	NewLineReader func(historyFile string) (console.LineReader, error)

	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ChatClientInterface, opts ...widget.Option) error {
	return tui.RunChat(client, opts...)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewClient: func(cfg config.Config) (api.ChatClientInterface, error) {
			return api.NewClientFromConfig(cfg)
		},
		TUI: &DefaultTUI{},
		NewLineReader: func(historyFile string) (console.LineReader, error) {
			return console.NewReadline(historyFile)
		},
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		CopyToClipboard: clipboard.WriteAll,
	}
}
