package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func NewGenDocsCommand() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Write reference docs for every dentaldesk command",
		Long: `Write one page per dentaldesk command, as Markdown (default) or man pages,
into --outdir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", outDir, err)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %q: %w", dir, err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true

			switch format {
			case "md", "markdown":
				err = doc.GenMarkdownTree(root, dir)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{Title: "DENTALDESK", Section: "1"}, dir)
			default:
				return fmt.Errorf("unknown format %q (md or man)", format)
			}
			if err != nil {
				return fmt.Errorf("generate docs: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "docs written to %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "docs/cli", "Output directory")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md or man")

	return cmd
}
