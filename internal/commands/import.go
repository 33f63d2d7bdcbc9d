package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/finance"
	"github.com/aadjones/pumpkin-stats/internal/importer"
)

func newImportCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import [file.csv...]",
		Short: "Import bank and card CSV exports",
		Long: "Import the given CSV files, or every CSV in <repo>/import when none are given.\n" +
			"Files from the import directory are moved to import/processed once read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			var res finance.IngestResult
			if len(args) == 0 {
				res, err = svc.IngestDir(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				uploads, closeAll, err := openUploads(args)
				if err != nil {
					return err
				}
				defer closeAll()
				res = svc.Ingest(cmd.Context(), uploads)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else {
				printIngest(out, res)
			}

			if res.Failed() {
				return fmt.Errorf("some files could not be imported")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func openUploads(paths []string) ([]importer.Upload, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	uploads := make([]importer.Upload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening %s: %w", p, err)
		}
		files = append(files, f)
		uploads = append(uploads, importer.Upload{Name: filepath.Base(p), Body: f})
	}
	return uploads, closeAll, nil
}

func printIngest(w io.Writer, res finance.IngestResult) {
	if len(res.Files) == 0 {
		fmt.Fprintln(w, "No CSV files to import.")
		return
	}

	for _, f := range res.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "%s %s: %s\n", negative.Sprint("✗"), f.Name, f.Error)
			continue
		}
		fmt.Fprintf(w, "%s %s [%s] %s: %d imported, %d duplicates, %d skipped\n",
			positive.Sprint("✓"), f.Name, f.Format, strings.Join(f.Accounts, ", "),
			f.Imported, f.Duplicates, f.Skipped)
	}

	for _, p := range res.Errors {
		fmt.Fprintf(w, "  %s %s\n", warning.Sprint("!"), p)
	}

	fmt.Fprintf(w, "\n%s %d imported, %d duplicates, %d skipped (batch %s)\n",
		heading.Sprint("Total:"), res.Imported, res.Duplicates, res.Skipped, muted.Sprint(res.Batch))
}
