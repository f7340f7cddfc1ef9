package system

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/minou2442/clinic/pkg/authorize"
)

func NewPermissionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Print the role × permission matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := authorize.NewDefaultAuthorization(nil)
			if err != nil {
				return fmt.Errorf("failed to load role table: %w", err)
			}

			rows := authorize.Matrix(auth)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			renderMatrix(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func renderMatrix(w io.Writer, rows []authorize.MatrixRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Role", "Libellé", "Permissions"})
	table.SetAutoWrapText(true)
	table.SetColWidth(80)
	table.SetRowLine(true)

	for _, r := range rows {
		perms := "* (toutes)"
		if !r.Wildcard {
			names := make([]string, len(r.Permissions))
			for i, p := range r.Permissions {
				names[i] = string(p)
			}
			perms = strings.Join(names, ", ")
		}
		table.Append([]string{string(r.Role), r.DisplayName, perms})
	}
	table.Render()
}
