package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Categories returns every known category: the seeded defaults first, then
// user-added names, each group sorted by name.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM categories ORDER BY is_default DESC, name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddCategory registers a category name. Existing names are ignored.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	return s.addCategory(ctx, s.db, name)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) addCategory(ctx context.Context, ex execer, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category must not be blank", ErrInvalidEdit)
	}
	_, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, is_default, created_at) VALUES (?, 0, ?)`,
		name, s.now().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("add category %q: %w", name, err)
	}
	return nil
}

// RecordAccount remembers an account the first time it is seen.
func (s *Store) RecordAccount(ctx context.Context, a model.Account) error {
	typ := a.Type
	if typ == "" {
		typ = model.AccountTypeUnknown
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO accounts (name, type, institution, created_at) VALUES (?, ?, ?, ?)`,
		a.Name, string(typ), a.Institution, s.now().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record account %q: %w", a.Name, err)
	}
	return nil
}

// Accounts returns recorded accounts sorted by name.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, type, institution FROM accounts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accts []model.Account
	for rows.Next() {
		var a model.Account
		var typ string
		if err := rows.Scan(&a.Name, &typ, &a.Institution); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = model.AccountType(typ)
		accts = append(accts, a)
	}
	return accts, rows.Err()
}
