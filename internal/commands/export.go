package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/export"
)

func newExportCommand(a *app) *cobra.Command {
	var outPath string
	var toFile bool

	cmd := &cobra.Command{
		Use:   "export <YYYY-MM>",
		Short: "Write a month's transactions as CSV",
		Long: "Write a month's transactions as CSV to stdout, --out, or with --file to\n" +
			"exports/pumpkin_export_<month>.csv. Exports can be imported again without\n" +
			"creating duplicates.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			if toFile && outPath == "" {
				outPath = filepath.Join(a.root, "exports", export.FileName(month))
			}

			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("creating export dir: %w", err)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			n, err := svc.Export(cmd.Context(), w, month)
			if err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", n, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	cmd.Flags().BoolVar(&toFile, "file", false, "write to the project's exports directory")

	return cmd
}
