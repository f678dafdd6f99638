// Package commands provides CLI commands for synapse-chat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/synapse-ai/synapse-chat/internal/api"
	"github.com/synapse-ai/synapse-chat/internal/config"
	"github.com/synapse-ai/synapse-chat/internal/logging"
	"github.com/synapse-ai/synapse-chat/internal/storage"
	"github.com/synapse-ai/synapse-chat/internal/widget"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags override the configuration for one run
type globalFlags struct {
	baseURL  string
	endpoint string
	locale   string
	noUserID bool
	verbose  bool
}

// rootOptions are the one-shot flags
type rootOptions struct {
	output string
	file   string
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "synapse-chat [message]",
		Short: "Chat with the Synapse AI assistant",
		Long: `synapse-chat talks to a Synapse AI backend. It posts each message to the
configured endpoint and shows the assistant's reply.

Examples:
  synapse-chat chat                      Start interactive chat
  synapse-chat chat --plain              Line-based chat without the full-screen UI
  synapse-chat config                    Configure settings
  synapse-chat "你好"                     Send a single message
  synapse-chat -f message.txt            Read the message from a file
  echo "hello" | synapse-chat            Read the message from stdin
  synapse-chat "Hello" -o reply.txt      Save the reply to a file
  synapse-chat --endpoint agent "Hi"     Use the agent endpoint`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "synapse-chat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return errors.Wrap(err, "failed to read file")
				}
				return runQuery(cmd, deps, flags, opts, string(data))
			}

			if hasPipedInput(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return errors.Wrap(err, "failed to read stdin")
				}
				return runQuery(cmd, deps, flags, opts, string(data))
			}

			if len(args) > 0 {
				return runQuery(cmd, deps, flags, opts, args[0])
			}

			// No input - show help
			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.baseURL, "base-url", "", "Backend base URL (e.g. http://localhost:8000)")
	pf.StringVarP(&flags.endpoint, "endpoint", "e", "", "Endpoint variant: chat or agent")
	pf.StringVar(&flags.locale, "locale", "", "Interface language: zh-CN or en")
	pf.BoolVar(&flags.noUserID, "no-user-id", false, "Do not send the client identifier")
	pf.BoolVar(&flags.verbose, "verbose", false, "Debug logging")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read message from file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewIDCmd(deps))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command. An interrupt cancels the running exchange.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// hasPipedInput reports whether r carries piped data rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadConfig reads the configuration and applies the command line overrides
func loadConfig(deps *Dependencies, flags *globalFlags) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v, using defaults\n", err)
	}

	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.endpoint != "" {
		cfg.Endpoint = strings.ToLower(flags.endpoint)
		cfg.EndpointPath = ""
	}
	if flags.locale != "" {
		cfg.Locale = flags.locale
	}
	if flags.noUserID {
		include := false
		cfg.IncludeUserID = &include
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// chatEnv is everything a chat frontend needs
type chatEnv struct {
	cfg     config.Config
	client  api.ChatClientInterface
	logger  *logging.Logger
	options []widget.Option
}

func (r *chatEnv) Close() {
	_ = r.logger.Close()
}

// newChatEnv wires config, logging, storage and the backend client. stderrLogs
// mirrors verbose logs to stderr, for frontends that do not own the screen.
func newChatEnv(deps *Dependencies, flags *globalFlags, stderrLogs bool) (*chatEnv, error) {
	cfg, err := loadConfig(deps, flags)
	if err != nil {
		return nil, err
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: flags.verbose,
		File:    logPath,
		Stderr:  flags.verbose && stderrLogs,
	})
	if err != nil {
		return nil, err
	}
	logging.Install(logger)

	client, err := deps.NewClient(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, errors.Wrap(err, "failed to create client")
	}

	options := []widget.Option{
		widget.WithTexts(widget.TextsFor(cfg.Locale)),
		widget.WithLogger(logger.Logger),
	}
	if cfg.SendsUserID() {
		storagePath, err := config.GetStoragePath()
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		options = append(options, widget.WithClientID(storage.NewFileStorage(storagePath)))
	}

	logger.Debug().
		Str("endpoint", client.Endpoint()).
		Bool("user_id", cfg.SendsUserID()).
		Str("locale", cfg.Locale).
		Msg("runtime ready")

	return &chatEnv{cfg: cfg, client: client, logger: logger, options: options}, nil
}
