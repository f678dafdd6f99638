package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/models"
	"github.com/synapse-ai/synapse-chat/internal/tui"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

// oneShotStyles colors the one-shot output after the configured TUI theme
type oneShotStyles struct {
	bubble      lipgloss.Style
	errorBubble lipgloss.Style
	spinner     lipgloss.Style
	text        lipgloss.Style
}

// stylesFor builds the styles of the named theme, or of the default theme
// when the name is unknown.
func stylesFor(name string) *oneShotStyles {
	theme, ok := tui.ThemeByName(name)
	if !ok {
		theme = tui.SakuraTheme
	}

	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1)

	return &oneShotStyles{
		bubble:      bubble,
		errorBubble: bubble.BorderForeground(theme.Error),
		spinner:     lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		text:        lipgloss.NewStyle().Foreground(theme.Text),
	}
}

// spinner shows the thinking text on stderr while a one-shot exchange runs
type spinner struct {
	out     io.Writer
	message string
	styles  *oneShotStyles
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string, styles *oneShotStyles) *spinner {
	return &spinner{
		out:     out,
		message: message,
		styles:  styles,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				// Clear line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	spinnerChar := s.styles.spinner.Render(chars[s.frame%len(chars)])
	msg := s.styles.text.Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s", spinnerChar, msg)
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// wait stops the spinner and waits for the line to be cleared
func (s *spinner) wait() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single message and prints the assistant's bubble. A failed
// exchange still prints its bubble and then returns the error, so the process
// exits non-zero.
func runQuery(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, opts *rootOptions, message string) error {
	if strings.TrimSpace(message) == "" {
		return apierrors.NewValidationError("message cannot be empty")
	}

	env, err := newChatEnv(deps, flags, true)
	if err != nil {
		return err
	}
	defer env.Close()

	list := widget.NewMemoryList()
	w := widget.New(list, env.client, env.options...)

	ex, err := w.Send(message)
	if err != nil {
		return err
	}

	var styles *oneShotStyles
	if deps.IsTerminal() {
		styles = stylesFor(env.cfg.TUITheme)
	}

	var spin *spinner
	if styles != nil {
		spin = newSpinner(deps.Stderr, w.Texts().Thinking, styles)
		spin.start()
	}
	result := ex.Do(cmd.Context())
	if spin != nil {
		spin.wait()
	}

	reply, sendErr := w.Resolve(ex, result)
	printReply(deps.Stdout, reply, sendErr, styles)

	if sendErr != nil {
		return sendErr
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply.Text), 0o644); err != nil {
			return errors.Wrap(err, "failed to write output file")
		}
		fmt.Fprintf(deps.Stderr, "Reply saved to %s\n", opts.output)
	}

	if env.cfg.CopyToClipboard {
		if err := deps.CopyToClipboard(reply.Text); err != nil {
			env.logger.Warn().Err(err).Msg("failed to copy reply to clipboard")
		}
	}

	return nil
}

// printReply writes the assistant bubble, boxed when styles are given and as
// plain text otherwise.
func printReply(out io.Writer, reply models.Message, err error, styles *oneShotStyles) {
	text := reply.Display()
	if styles == nil {
		fmt.Fprintln(out, text)
		return
	}

	style := styles.bubble
	if err != nil {
		style = styles.errorBubble
	}
	fmt.Fprintln(out, style.Render(text))
}
