package cli

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/app"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/logging"
)

// runTUI runs the interactive UI until the user quits. In-flight requests
// are cancelled on exit.
func runTUI(ctx context.Context, deps *Dependencies) error {
	// stdout belongs to the UI, so logs go to a file.
	logger, closer, err := logging.OpenFile(deps.Config.Logging)
	if err != nil {
		deps.Printer.Warning("logging disabled: %v", err)
		logger = logging.Discard()
	} else {
		defer closer.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend := deps.backend(logger)
	opts := app.Options{
		Ctx:         ctx,
		Backend:     backend,
		Loader:      deps.loader(backend, logger),
		Logger:      logger,
		RowsPerPage: deps.Config.History.RowsPerPage,
	}
	if store := deps.openJournal(); store != nil {
		defer store.Close()
		opts.Journal = store
	}

	logger.Info("tui_started", slog.String("base_url", deps.Config.API.BaseURL))
	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
