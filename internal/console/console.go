// Package console runs the chat widget as a line-oriented REPL for terminals
// where the full-screen interface is unavailable or unwanted.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ergochat/readline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/synapse-ai/synapse-chat/internal/api"
	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/models"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

// LineReader is the prompt the REPL reads from and writes through.
// *readline.Instance satisfies it.
type LineReader interface {
	ReadLine() (string, error)
	Write(p []byte) (int, error)
	Close() error
}

// NewReadline creates the interactive prompt, keeping history in historyFile
// when it is set.
func NewReadline(historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "› ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start prompt")
	}
	return rl, nil
}

// eraseLine moves up one line and clears it
const eraseLine = "\033[1A\r\033[2K"

// printList renders messages as lines written above the prompt. Printed lines
// cannot be taken back in general, so a removed placeholder is erased only
// when it is still the last line and the output is a terminal. Otherwise a
// completion marker is printed.
type printList struct {
	*widget.MemoryList
	out   io.Writer
	erase bool

	thinking map[widget.Handle]string
	// last is the placeholder printed most recently, zero once anything follows it
	last widget.Handle
}

func newPrintList(out io.Writer) *printList {
	return &printList{
		MemoryList: widget.NewMemoryList(),
		out:        out,
		thinking:   make(map[widget.Handle]string),
	}
}

func (l *printList) Append(msg models.Message) widget.Handle {
	switch {
	case msg.Role == models.RoleUser:
		fmt.Fprintf(l.out, "You: %s\n", msg.Text)
	case msg.Thinking:
		fmt.Fprintf(l.out, "  %s\n", msg.Text)
	default:
		fmt.Fprintf(l.out, "%s\n", msg.Display())
	}

	h := l.MemoryList.Append(msg)
	l.last = 0
	if msg.Thinking {
		l.thinking[h] = msg.Text
		l.last = h
	}
	return h
}

func (l *printList) Remove(h widget.Handle) bool {
	if text, ok := l.thinking[h]; ok {
		delete(l.thinking, h)
		if l.erase && h == l.last {
			fmt.Fprint(l.out, eraseLine)
		} else {
			fmt.Fprintf(l.out, "  ✓ %s\n", text)
		}
		l.last = 0
	}
	return l.MemoryList.Remove(h)
}

type lineEvent struct {
	line string
	err  error
}

type resultEvent struct {
	exchange *widget.Exchange
	result   widget.Result
}

// REPL is the console frontend
type REPL struct {
	reader LineReader
	list   *printList
	widget *widget.Widget
	logger zerolog.Logger
}

// New creates a REPL reading from reader and talking to client
func New(reader LineReader, client api.ChatClientInterface, logger zerolog.Logger, opts ...widget.Option) *REPL {
	list := newPrintList(reader)
	opts = append([]widget.Option{widget.WithLogger(logger)}, opts...)
	return &REPL{
		reader: reader,
		list:   list,
		widget: widget.New(list, client, opts...),
		logger: logger,
	}
}

// SetEraseThinking lets the REPL clear a resolved thinking line with terminal
// escape sequences. Leave it off when output is not a terminal.
func (r *REPL) SetEraseThinking(on bool) {
	r.list.erase = on
}

// Widget returns the controller behind the REPL
func (r *REPL) Widget() *widget.Widget {
	return r.widget
}

// Run greets, then serves lines and exchange results from one loop until the
// user leaves or ctx is done. Outstanding exchanges are cancelled and awaited
// before Run returns.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	header := r.widget.Endpoint()
	if r.widget.SendsClientID() {
		header += "  id " + r.widget.ClientID()
	}
	fmt.Fprintf(r.reader, "🌸 Synapse AI  %s  (exit to leave)\n", header)
	r.widget.Init()

	stop := make(chan struct{})
	lines := make(chan lineEvent)
	results := make(chan resultEvent)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			line, err := r.reader.ReadLine()
			select {
			case lines <- lineEvent{line: line, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	defer func() {
		close(stop)
		cancel()
		// unblocks the pending ReadLine
		_ = r.reader.Close()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-lines:
			if ev.err != nil {
				if ev.err == io.EOF || errors.Is(ev.err, readline.ErrInterrupt) {
					return nil
				}
				return errors.Wrap(ev.err, "failed to read input")
			}

			switch strings.TrimSpace(ev.line) {
			case "exit", "quit":
				return nil
			}

			ex, err := r.widget.Send(ev.line)
			if err != nil {
				if !apierrors.IsValidationError(err) {
					r.logger.Warn().Err(err).Msg("message not sent")
				}
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				result := ex.Do(ctx)
				select {
				case results <- resultEvent{exchange: ex, result: result}:
				case <-stop:
				}
			}()

		case ev := <-results:
			_, _ = r.widget.Resolve(ev.exchange, ev.result)
		}
	}
}
