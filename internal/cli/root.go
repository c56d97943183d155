package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/timekeep/internal/app"
	"github.com/five82/timekeep/internal/config"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath  string
	PrefsPath   string
	Format      string // "text" | "json" | "yaml"
	PollSeconds int

	// connect builds the runtime for one-shot commands.
	connect func(ctx context.Context, cfg config.Config) (*app.Runtime, error)
	now     func() time.Time
	loc     *time.Location
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command. Without a subcommand it starts the
// TUI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{connect: app.Start})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timekeep",
		Short: "Track time against a remote timekeeping service",
		Long: `timekeep is a terminal client for a time-tracking service.

Run it without arguments for the interactive view, or use the subcommands
for one-shot scripting.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.ConfigPath,
				PrefsPath:  opts.PrefsPath,
				PollEvery:  opts.PollSeconds,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file")
	cmd.Flags().IntVar(&opts.PollSeconds, "poll", 0, "refresh interval in seconds (overrides config)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewStopCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// session is one wired runtime plus the log file it writes to.
type session struct {
	*app.Runtime
	closeLog func() error
}

func (s *session) Close() {
	s.Runtime.Close()
	_ = s.closeLog()
}

func (o *RootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := app.SetupLogging(cfg)
	if err != nil {
		return nil, err
	}
	rt, err := o.connect(ctx, cfg)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	return &session{Runtime: rt, closeLog: closeLog}, nil
}

func wait(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
