// Package records loads the backend's meeting list and holds per-view
// snapshots of it.
package records

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
)

// Source is the part of the backend the loader reads from.
type Source interface {
	FetchRecords(ctx context.Context) ([]api.MeetingRecord, error)
}

// Loader fetches the full record list. With sharing enabled, fetches that
// overlap in time share one request. Fetches that do not overlap are always
// independent snapshots.
type Loader struct {
	source Source
	group  *singleflight.Group
	logger *slog.Logger
}

// NewLoader wraps source.
func NewLoader(source Source, shareInflight bool, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{source: source, logger: logger}
	if shareInflight {
		l.group = &singleflight.Group{}
	}
	return l
}

// Load fetches every record. Failures are logged here; callers keep
// whatever list they already had.
func (l *Loader) Load(ctx context.Context) ([]api.MeetingRecord, error) {
	var (
		records []api.MeetingRecord
		shared  bool
		err     error
	)

	if l.group != nil {
		var v any
		v, err, shared = l.group.Do("records", func() (any, error) {
			return l.source.FetchRecords(ctx)
		})
		if err == nil {
			// Each caller gets its own copy of a shared result.
			records = slices.Clone(v.([]api.MeetingRecord))
		}
	} else {
		records, err = l.source.FetchRecords(ctx)
	}

	if err != nil {
		l.logger.Warn("records_fetch_failed",
			slog.String("error", err.Error()),
			slog.Bool("shared", shared))
		return nil, err
	}

	l.logger.Debug("records_fetched",
		slog.Int("count", len(records)),
		slog.Bool("shared", shared))
	return records, nil
}
