package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/output"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/paging"
)

const cellWidth = 48

func NewRecordsCmd(deps *Dependencies) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List processed meetings, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := deps.Printer
			backend := deps.backend(deps.Logger)

			// A failed fetch is logged by the loader and shows as an empty list.
			recs, _ := deps.loader(backend, deps.Logger).Load(cmd.Context())

			pager := paging.New(deps.Config.History.RowsPerPage)
			pager.SetTotal(len(recs))
			for pager.Page() < page && pager.Next() {
			}

			rows := paging.Window(pager, recs)
			if len(rows) == 0 {
				p.Info("No records found")
				return nil
			}

			table := output.NewTable(p.Out(), []string{"ID", "Title", "Transcript", "Insights"})
			for _, r := range rows {
				table.AddRow(
					strconv.FormatInt(r.ID, 10),
					clip(r.Title, cellWidth),
					clip(r.Transcript, cellWidth),
					clip(r.Insights, cellWidth),
				)
			}
			if err := table.Render(); err != nil {
				return err
			}
			p.Print("%s", p.Dim(pageLabel(pager)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show (clamped to the last page)")
	return cmd
}

func pageLabel(p paging.Pager) string {
	return "Page " + strconv.Itoa(p.Page()) + " of " + strconv.Itoa(max(p.TotalPages(), 1))
}

// clip flattens s onto one line and cuts it to width runes.
func clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
