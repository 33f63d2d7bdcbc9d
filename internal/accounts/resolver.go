package accounts

import (
	"strings"
	"unicode"

	"github.com/aadjones/pumpkin-stats/internal/config"
	"github.com/aadjones/pumpkin-stats/internal/importer"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Known is a configured account.
type Known struct {
	Account    model.Account
	LastFour   string
	Match      string
	InvertSign bool
	Format     string
}

// FromConfig converts the accounts section of the config.
func FromConfig(cfgs []config.AccountConfig) []Known {
	known := make([]Known, 0, len(cfgs))
	for _, c := range cfgs {
		typ := model.AccountType(c.Type)
		if typ == "" {
			typ = model.AccountTypeUnknown
		}
		known = append(known, Known{
			Account:    model.Account{Name: c.Name, Type: typ},
			LastFour:   c.LastFour,
			Match:      strings.ToLower(c.Match),
			InvertSign: c.InvertSign,
			Format:     c.Format,
		})
	}
	return known
}

// Resolution is the account attribution for one row.
type Resolution struct {
	Account    model.Account
	Source     model.SourceKind
	InvertSign bool
}

// Resolver attributes rows to accounts. Configured accounts win over embedded
// account columns, which win over the file name.
type Resolver struct {
	known []Known
}

// NewResolver creates a Resolver over the configured accounts.
func NewResolver(known []Known) *Resolver {
	return &Resolver{known: known}
}

// ForFile returns the configured account whose match string or last four
// digits appear in the file name.
func (r *Resolver) ForFile(fileName string) (Known, bool) {
	name := strings.ToLower(fileName)
	for _, k := range r.known {
		if k.Match != "" && strings.Contains(name, k.Match) {
			return k, true
		}
	}
	for _, k := range r.known {
		if k.LastFour != "" && strings.Contains(name, k.LastFour) {
			return k, true
		}
	}
	return Known{}, false
}

func (r *Resolver) byLastFour(number string) (Known, bool) {
	for _, k := range r.known {
		if k.LastFour != "" && k.LastFour == number {
			return k, true
		}
	}
	return Known{}, false
}

// Resolve attributes a row read from fileName with the given parser format.
// The result depends only on its inputs.
func (r *Resolver) Resolve(fileName, format string, row importer.RawRow) Resolution {
	fl := ParseFilename(fileName)
	number := LastFour(row.AccountNumber)

	k, ok := Known{}, false
	if number != "" {
		k, ok = r.byLastFour(number)
	}
	if !ok {
		k, ok = r.ForFile(fileName)
	}

	var res Resolution
	switch {
	case ok:
		res.Account = k.Account
		res.InvertSign = k.InvertSign
	case row.Account != "":
		res.Account = model.Account{Name: row.Account, Type: fl.Type, Institution: fl.Institution}
	default:
		name := fl.Label
		if number != "" {
			name += " (..." + number + ")"
		}
		res.Account = model.Account{Name: name, Type: fl.Type, Institution: fl.Institution}
	}
	res.Source = sourceKind(res.Account.Type, format, number)
	return res
}

func sourceKind(typ model.AccountType, format, number string) model.SourceKind {
	switch {
	case typ != model.AccountTypeUnknown && typ != "":
		return typ.SourceKind()
	case format == "card", number != "":
		return model.SourceCard
	default:
		return model.SourceBank
	}
}

// LastFour returns the last four digits of an account or card number, or ""
// when it has none.
func LastFour(number string) string {
	var digits []rune
	for _, r := range number {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return string(digits)
}
