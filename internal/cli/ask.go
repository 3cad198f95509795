package cli

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/query"
)

func NewAskCmd(deps *Dependencies) *cobra.Command {
	var meetingID int64

	cmd := &cobra.Command{
		Use:     "ask QUESTION...",
		Short:   "Ask a question about one meeting's transcript",
		Example: "  meetintel ask --meeting 3 What action items were assigned?",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := deps.Printer

			var c query.Controller
			c.Select(meetingID)
			c.SetQuestion(strings.Join(args, " "))
			req, ok := c.Begin()
			if !ok {
				return errors.New("question must not be empty")
			}

			reply, err := deps.backend(deps.Logger).SubmitQuery(cmd.Context(), req)
			c.Complete(reply, err)

			deps.Logger.Info("query_completed",
				slog.Int64("meeting_id", req.MeetingID),
				slog.String("state", c.State().String()),
				slog.Int("status", reply.StatusCode))

			store := deps.openJournal()
			if store != nil {
				defer store.Close()
			}
			deps.record(cmd.Context(), store, journal.QueryEntry(c))

			if c.State() == query.Failed {
				return errors.New(c.Err())
			}

			res := c.Result()
			if res.Answer != "" {
				p.Header("Answer")
				p.Print("%s", res.Answer)
			}
			if res.Matches.HasDocuments() {
				p.Header("Matched Context")
				for i, item := range query.MatchedContext(res.Matches) {
					p.Print("%d. %s", i+1, item.Document)
					if item.Metadata != "" {
						p.Print("   %s", p.Dim(item.Metadata))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&meetingID, "meeting", "m", 0, "meeting id to ask about (see meetintel records)")
	_ = cmd.MarkFlagRequired("meeting")
	return cmd
}
