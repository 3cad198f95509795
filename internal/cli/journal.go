package cli

import (
	"errors"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/output"
)

func NewJournalCmd(deps *Dependencies) *cobra.Command {
	var (
		limit     int
		meetingID int64
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent uploads and questions from the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := deps.Printer
			if !deps.Config.Journal.Enabled {
				return errors.New("journal is disabled (journal.enabled=false)")
			}

			store, err := journal.Open(deps.Config.Journal.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []journal.Entry
			if cmd.Flags().Changed("meeting") {
				entries, err = store.ForMeeting(cmd.Context(), meetingID)
				if len(entries) > limit {
					entries = entries[:limit]
				}
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				p.Info("Journal is empty")
				return nil
			}

			table := output.NewTable(p.Out(), []string{"When", "Kind", "Outcome", "Meeting", "Subject", "Detail"})
			for _, e := range entries {
				meeting := "-"
				if e.MeetingID != nil {
					meeting = strconv.FormatInt(*e.MeetingID, 10)
				}
				table.AddRow(
					humanize.Time(e.CreatedAt),
					string(e.Kind),
					e.Outcome,
					meeting,
					clip(e.Subject, cellWidth),
					clip(e.Detail, cellWidth),
				)
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().Int64VarP(&meetingID, "meeting", "m", 0, "only show questions about this meeting")
	return cmd
}
