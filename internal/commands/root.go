package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/buildinfo"
	"github.com/aadjones/pumpkin-stats/internal/config"
	"github.com/aadjones/pumpkin-stats/internal/finance"
	"github.com/aadjones/pumpkin-stats/internal/logger"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	repoDir string
	root    string
	cfg     *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "pumpkin",
		Short:   "Personal finance summaries from bank and card exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.repoDir, "repo", ".", "project directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(a),
		newSummaryCommand(a),
		newEditCommand(a),
		newReclassifyCommand(a),
		newTrendsCommand(a),
		newExportCommand(a),
		newCategoriesCommand(a),
		newAccountsCommand(a),
	)

	return rootCmd
}

// load reads the project config and puts a configured logger in the
// command context.
func (a *app) load(cmd *cobra.Command) error {
	root, err := filepath.Abs(a.repoDir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.root = root
	a.cfg = cfg
	cmd.SetContext(logger.WithContext(cmd.Context(), logger.New(cfg.Logging)))
	return nil
}

// open opens the project's service. Callers must Close it.
func (a *app) open(cmd *cobra.Command) (*finance.Service, error) {
	return finance.Open(a.root, a.cfg, logger.FromContext(cmd.Context()))
}
