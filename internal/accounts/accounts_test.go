package accounts

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadjones/pumpkin-stats/internal/config"
	"github.com/aadjones/pumpkin-stats/internal/importer"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		typ         model.AccountType
		institution string
	}{
		{"dara-credit-chase.csv", "Dara Credit (Chase)", model.AccountTypeCredit, "Chase"},
		{"joint-bank-tdjuly.csv", "Joint Bank (Td)", model.AccountTypeChecking, "Td"},
		{"tom-savings-ally-2025.CSV", "Tom Savings (Ally)", model.AccountTypeSavings, "Ally"},
		{"tom-bank-unknown.csv", "Tom Bank", model.AccountTypeChecking, ""},
		{"chase-freedom.csv", "Chase Freedom", model.AccountTypeUnknown, ""},
		{"td-bank.csv", "Td Bank", model.AccountTypeChecking, ""},
		{"wells_checking.csv", "Wells Checking", model.AccountTypeChecking, ""},
		{"import/processed/Amex_Card.csv", "Amex Card", model.AccountTypeCredit, ""},
		{"émile-checking-td.csv", "Émile Checking (Td)", model.AccountTypeChecking, "Td"},
		{"ölfonds_savings.csv", "Ölfonds Savings", model.AccountTypeSavings, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFilename(tt.name)
			assert.Equal(t, tt.label, got.Label)
			assert.True(t, utf8.ValidString(got.Label))
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.institution, got.Institution)
		})
	}
}

func TestLastFour(t *testing.T) {
	assert.Equal(t, "2568", LastFour("2568"))
	assert.Equal(t, "5678", LastFour("XXXX-XXXX-1234-5678"))
	assert.Equal(t, "12", LastFour("12"))
	assert.Equal(t, "", LastFour("n/a"))
}

func TestResolve_FilenameLabel(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve("td-bank.csv", "bank", importer.RawRow{})
	assert.Equal(t, "Td Bank", res.Account.Name)
	assert.Equal(t, model.SourceBank, res.Source)
	assert.False(t, res.InvertSign)
}

func TestResolve_EmbeddedCardNumber(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve("chase-freedom.csv", "card", importer.RawRow{AccountNumber: "2568"})
	assert.Equal(t, "Chase Freedom (...2568)", res.Account.Name)
	assert.Equal(t, model.SourceCard, res.Source)

	// Deterministic per row.
	again := r.Resolve("chase-freedom.csv", "card", importer.RawRow{AccountNumber: "2568"})
	assert.Equal(t, res, again)
}

func TestResolve_EmbeddedNumberImpliesCard(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve("export.csv", "generic", importer.RawRow{AccountNumber: "9911"})
	assert.Equal(t, model.SourceCard, res.Source)
}

func TestResolve_EmbeddedAccountName(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve("export.csv", "generic", importer.RawRow{Account: "Joint Checking"})
	assert.Equal(t, "Joint Checking", res.Account.Name)
	assert.Equal(t, model.SourceBank, res.Source)
}

func TestResolve_FilenameCreditWord(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve("dara-credit-chase.csv", "generic", importer.RawRow{})
	assert.Equal(t, model.SourceCard, res.Source)
}

func TestResolve_ConfiguredAccounts(t *testing.T) {
	r := NewResolver(FromConfig([]config.AccountConfig{
		{Name: "Freedom", Type: "credit", LastFour: "2568"},
		{Name: "Joint Checking", Type: "checking", Match: "WELLS", InvertSign: true},
	}))

	t.Run("by embedded last four", func(t *testing.T) {
		res := r.Resolve("anything.csv", "generic", importer.RawRow{AccountNumber: "4111-2568"})
		assert.Equal(t, "Freedom", res.Account.Name)
		assert.Equal(t, model.SourceCard, res.Source)
	})

	t.Run("by filename match", func(t *testing.T) {
		res := r.Resolve("wells-checking.csv", "headerless", importer.RawRow{})
		assert.Equal(t, "Joint Checking", res.Account.Name)
		assert.Equal(t, model.SourceBank, res.Source)
		assert.True(t, res.InvertSign)
	})

	t.Run("by last four in filename", func(t *testing.T) {
		res := r.Resolve("statement_2568.csv", "card", importer.RawRow{})
		assert.Equal(t, "Freedom", res.Account.Name)
	})

	t.Run("configured wins over embedded name", func(t *testing.T) {
		res := r.Resolve("wells.csv", "generic", importer.RawRow{Account: "Other"})
		assert.Equal(t, "Joint Checking", res.Account.Name)
	})

	t.Run("unknown number falls through", func(t *testing.T) {
		res := r.Resolve("chase-freedom.csv", "card", importer.RawRow{AccountNumber: "0001"})
		assert.Equal(t, "Chase Freedom (...0001)", res.Account.Name)
	})
}

func TestForFile(t *testing.T) {
	r := NewResolver(FromConfig([]config.AccountConfig{
		{Name: "Joint Checking", Type: "checking", Match: "wells", Format: "headerless"},
	}))

	k, ok := r.ForFile("Wells-Checking.CSV")
	require.True(t, ok)
	assert.Equal(t, "headerless", k.Format)

	_, ok = r.ForFile("td-bank.csv")
	assert.False(t, ok)
}

func TestFromConfig_DefaultsType(t *testing.T) {
	known := FromConfig([]config.AccountConfig{{Name: "Mystery"}})
	require.Len(t, known, 1)
	assert.Equal(t, model.AccountTypeUnknown, known[0].Account.Type)
}
