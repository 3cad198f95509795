package cli

import (
	"github.com/spf13/cobra"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/mcpserver"
)

func NewMCPCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve meeting tools to an MCP client over stdio",
		Long: `Serve list_meetings, ask_meeting and upload_recording as MCP tools on
stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := deps.backend(deps.Logger)
			opts := mcpserver.Options{
				Backend:     backend,
				Loader:      deps.loader(backend, deps.Logger),
				Logger:      deps.Logger,
				RowsPerPage: deps.Config.History.RowsPerPage,
			}
			if store := deps.openJournal(); store != nil {
				defer store.Close()
				opts.Journal = store
			}
			return mcpserver.New(opts).ServeStdio()
		},
	}
}
