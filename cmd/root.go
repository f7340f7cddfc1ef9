package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/minou2442/clinic/cmd/http"
	systemcmd "github.com/minou2442/clinic/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dentaldesk",
	Short: "Dental clinic front desk: waiting-room pager and staff access control.",
	Long: `dentaldesk runs the clinic's front-desk backend. Reception calls the next
patient to a cabinet, the waiting-room screens show the call and play a chime,
and every staff route is gated by the role's permissions.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Root exposes the command tree for documentation and tests.
func Root() *cobra.Command { return rootCmd }

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
