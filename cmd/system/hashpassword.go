package system

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minou2442/clinic/config"
	"github.com/minou2442/clinic/pkg/util/password"
)

func NewHashPasswordCommand() *cobra.Command {
	var generate int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a staff password for the staff section of the config",
		Long: `Read a password from stdin (first line) and print its argon2id hash, using
the password parameters of the config file. With --generate N a random
password of N characters is created instead and printed along with its hash.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			var secret string
			if generate > 0 {
				secret, err = password.Generate(generate)
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				secret = strings.TrimRight(line, "\r\n")
			}
			if secret == "" {
				return errors.New("password is empty")
			}

			hash, err := password.NewHasher(password.FromCentralConfig(cfg.Password)).Hash(secret)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			out := cmd.OutOrStdout()
			if generate > 0 {
				fmt.Fprintf(out, "password: %s\n", secret)
			}
			fmt.Fprintln(out, hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&generate, "generate", 0, "Generate a random password of this length")

	return cmd
}
