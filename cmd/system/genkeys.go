package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
)

func NewGenKeysCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "gen-keys",
		Short: "Generate PASETO keys for the authentication.paseto section",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := pasetotoken.GenerateKeys(pasetotoken.Mode(mode))
			if err != nil {
				return err
			}

			s := keys.Export()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode: %s\n", s.Mode)
			if s.SymmetricHex != "" {
				fmt.Fprintf(out, "local_key_hex: %s\n", s.SymmetricHex)
			}
			if s.SecretHex != "" {
				fmt.Fprintf(out, "secret_key_hex: %s\n", s.SecretHex)
				fmt.Fprintf(out, "public_key_hex: %s\n", s.PublicHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(pasetotoken.ModeLocal), "Token mode: local or public")

	return cmd
}
