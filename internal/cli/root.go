// Package cli wires the meetintel cobra commands to the controllers.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/config"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/logging"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/output"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/records"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/version"
)

// Dependencies are shared by every command. Nil fields are built from the
// loaded config before a command runs.
type Dependencies struct {
	Config  *config.Config
	Backend api.Backend
	Logger  *slog.Logger
	Printer *output.Printer

	cfgFile string
	baseURL string
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetintel",
		Short: "Upload meeting recordings and ask questions about them",
		Long: `meetintel talks to the meeting-intelligence backend: it uploads recordings
for transcription, browses processed meetings and answers questions about a
meeting's transcript.

Run without a subcommand to open the interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), deps)
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.PersistentFlags().StringVar(&deps.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/meetintel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&deps.baseURL, "base-url", "", "backend URL (overrides api.base_url)")

	rootCmd.AddCommand(NewRecordsCmd(deps))
	rootCmd.AddCommand(NewUploadCmd(deps))
	rootCmd.AddCommand(NewAskCmd(deps))
	rootCmd.AddCommand(NewJournalCmd(deps))
	rootCmd.AddCommand(NewMCPCmd(deps))

	return rootCmd
}

// init loads config and builds whatever the caller did not supply.
func (d *Dependencies) init(cmd *cobra.Command) error {
	if d.Config == nil {
		cfg, err := config.Load(d.cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		d.Config = cfg
	}
	if d.baseURL != "" {
		d.Config.API.BaseURL = d.baseURL
	}
	if d.Logger == nil {
		d.Logger = logging.New(d.Config.Logging, cmd.ErrOrStderr())
	}
	if d.Printer == nil {
		d.Printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(),
			output.ResolveColors(d.Config.Output.Colors))
	}

	d.Logger.Debug("configuration loaded",
		slog.String("base_url", d.Config.API.BaseURL),
		slog.Duration("timeout", d.Config.API.Timeout),
		slog.Bool("journal", d.Config.Journal.Enabled))
	return nil
}

// backend returns the injected backend or an HTTP client logging to logger.
func (d *Dependencies) backend(logger *slog.Logger) api.Backend {
	if d.Backend != nil {
		return d.Backend
	}
	return api.NewClient(d.Config.API.BaseURL, d.Config.API.Timeout, logger)
}

func (d *Dependencies) loader(backend api.Backend, logger *slog.Logger) *records.Loader {
	return records.NewLoader(backend, d.Config.Records.ShareInflight, logger)
}

// openJournal opens the configured journal. It returns nil when the journal
// is disabled or cannot be opened; the latter is logged.
func (d *Dependencies) openJournal() *journal.Store {
	if !d.Config.Journal.Enabled {
		return nil
	}
	store, err := journal.Open(d.Config.Journal.Path)
	if err != nil {
		d.Logger.Warn("journal_open_failed",
			slog.String("path", d.Config.Journal.Path),
			slog.String("error", err.Error()))
		return nil
	}
	return store
}

// record appends e when a journal is open.
func (d *Dependencies) record(ctx context.Context, store *journal.Store, e journal.Entry) {
	if store == nil {
		return
	}
	if _, err := store.Append(ctx, e); err != nil {
		d.Logger.Warn("journal_append_failed",
			slog.String("kind", string(e.Kind)),
			slog.String("error", err.Error()))
	}
}
