package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the API server commands.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Waiting-room and staff API server",
	}

	cmd.PersistentFlags().Int("port", 0, "Listen port (overrides server.port)")
	cmd.AddCommand(NewStartCommand())

	return cmd
}
