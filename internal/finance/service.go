// Package finance is the boundary between the pipeline and its consumers.
// It wires parsing, normalization, categorization, storage and aggregation.
package finance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aadjones/pumpkin-stats/internal/accounts"
	"github.com/aadjones/pumpkin-stats/internal/categorize"
	"github.com/aadjones/pumpkin-stats/internal/config"
	"github.com/aadjones/pumpkin-stats/internal/export"
	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/importer"
	"github.com/aadjones/pumpkin-stats/internal/model"
	"github.com/aadjones/pumpkin-stats/internal/normalize"
	"github.com/aadjones/pumpkin-stats/internal/store"
	"github.com/aadjones/pumpkin-stats/internal/summary"
)

// Service runs the pipeline for one project directory.
type Service struct {
	root          string
	store         *store.Store
	registry      *importer.Registry
	resolver      *accounts.Resolver
	normalizer    *normalize.Normalizer
	categorizer   *categorize.Categorizer
	importLog     string
	moveProcessed bool
	log           zerolog.Logger
	now           func() time.Time
	newBatch      func() string
}

// New creates a Service over an open store. root anchors the relative paths
// of cfg.
func New(st *store.Store, cfg *config.Config, root string, log zerolog.Logger) *Service {
	resolver := accounts.NewResolver(accounts.FromConfig(cfg.Accounts))

	importLog := ""
	if cfg.Import.LogPath != "" {
		importLog = config.Resolve(root, cfg.Import.LogPath)
	}

	return &Service{
		root:          root,
		store:         st,
		registry:      importer.DefaultRegistry(),
		resolver:      resolver,
		normalizer:    normalize.New(resolver),
		categorizer:   categorize.New(categorize.OptionsFromConfig(cfg.Categorize)),
		importLog:     importLog,
		moveProcessed: cfg.Import.MoveProcessed,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
		newBatch:      uuid.NewString,
	}
}

// Open opens the project's database and creates a Service over it.
func Open(root string, cfg *config.Config, log zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	st, err := store.Open(config.Resolve(root, cfg.Database.Path))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return New(st, cfg, root, log), nil
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// MonthlySummary returns the summary of a "YYYY-MM" month. A malformed key
// returns an error wrapping id.ErrInvalidMonth.
func (s *Service) MonthlySummary(ctx context.Context, monthKey string) (summary.Summary, error) {
	month, err := id.ParseMonth(monthKey)
	if err != nil {
		return summary.Summary{}, err
	}
	txs, err := s.store.Query(ctx, monthFilter(month, month))
	if err != nil {
		return summary.Summary{}, err
	}
	return summary.Monthly(month, txs), nil
}

// Trends returns the months months ending at endKey with the topN spending
// categories.
func (s *Service) Trends(ctx context.Context, endKey string, months, topN int) (summary.Trends, error) {
	end, err := id.ParseMonth(endKey)
	if err != nil {
		return summary.Trends{}, err
	}
	if months < 1 {
		return summary.Trends{}, fmt.Errorf("months must be at least 1, got %d", months)
	}
	txs, err := s.store.Query(ctx, monthFilter(end.Add(-(months-1)), end))
	if err != nil {
		return summary.Trends{}, err
	}
	return summary.Trend(end, months, topN, txs), nil
}

// EditTransaction applies a manual edit. Unknown ids return store.ErrNotFound.
func (s *Service) EditTransaction(ctx context.Context, txID string, e store.Edit) (model.Transaction, error) {
	tx, err := s.store.ApplyManualEdit(ctx, txID, e)
	if err != nil {
		return model.Transaction{}, err
	}
	s.log.Info().Str("id", tx.ID).Str("category", tx.Category).Bool("exclude", tx.Exclude).Msg("transaction edited")
	return tx, nil
}

// Reclassify re-runs the categorizer over every auto-categorized record and
// returns how many changed. Manual records are left alone.
func (s *Service) Reclassify(ctx context.Context) (int, error) {
	n, err := s.store.ReclassifyAuto(ctx, func(tx model.Transaction) string {
		return s.categorizer.Categorize(categorize.InputFrom(tx)).Category
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("updated", n).Msg("reclassified auto categories")
	return n, nil
}

// Export writes the transactions of a month as CSV and returns how many
// were written.
func (s *Service) Export(ctx context.Context, w io.Writer, monthKey string) (int, error) {
	month, err := id.ParseMonth(monthKey)
	if err != nil {
		return 0, err
	}
	txs, err := s.store.Query(ctx, monthFilter(month, month))
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, txs); err != nil {
		return 0, fmt.Errorf("exporting %s: %w", month, err)
	}
	return len(txs), nil
}

// AddCategory registers a category for manual edits.
func (s *Service) AddCategory(ctx context.Context, name string) error {
	return s.store.AddCategory(ctx, name)
}

// Categories lists the known category names.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// Accounts lists the accounts seen during ingestion.
func (s *Service) Accounts(ctx context.Context) ([]model.Account, error) {
	return s.store.Accounts(ctx)
}

// monthFilter covers from's first day through the last day of to.
func monthFilter(from, to id.Month) store.Filter {
	return store.Filter{From: from.Start(), To: to.End().AddDate(0, 0, -1)}
}
