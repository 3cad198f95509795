package cli

import (
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"
)

func NewUploadCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a recording for transcription and indexing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := deps.Printer

			f, err := upload.StatFile(args[0])
			if err != nil {
				return err
			}

			var c upload.Controller
			c.SelectFile(f)
			f, _ = c.Begin()

			p.Info("Uploading %s (%s)...", f.Name, humanize.Bytes(uint64(f.Size)))
			reply, err := deps.backend(deps.Logger).UploadFile(cmd.Context(), f.Path)
			c.Complete(reply, err)

			deps.Logger.Info("upload_completed",
				slog.String("file", f.Name),
				slog.String("state", c.State().String()),
				slog.Int("status", reply.StatusCode))

			store := deps.openJournal()
			if store != nil {
				defer store.Close()
			}
			deps.record(cmd.Context(), store, journal.UploadEntry(c))

			if c.State() == upload.Failed {
				return errors.New(c.Err())
			}

			p.Header("Upload Summary")
			for _, s := range c.Steps() {
				p.Step(s.Label, s.OK)
			}
			if n := c.FailedSteps(); n > 0 {
				p.Warning("%d of %d processing steps failed", n, len(c.Steps()))
			}
			return nil
		},
	}
}
