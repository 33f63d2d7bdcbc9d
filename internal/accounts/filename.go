package accounts

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aadjones/pumpkin-stats/internal/model"
)

// FileLabel is the account information carried by an export's file name.
type FileLabel struct {
	Owner       string
	Type        model.AccountType
	Institution string
	Label       string
}

var monthSuffixes = []string{
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

// ParseFilename reads an account label from a file name. Names of the form
// owner-type-institution[-suffix].csv yield "Owner Type (Institution)"; any
// other name is cleaned and title-cased.
func ParseFilename(name string) FileLabel {
	base := strings.ToLower(filepath.Base(name))
	base = strings.TrimSuffix(base, strings.ToLower(filepath.Ext(base)))

	parts := strings.Split(base, "-")
	if len(parts) >= 3 {
		owner, kind := parts[0], parts[1]
		institution := trimMonth(parts[2])
		if institution == "unknown" {
			institution = ""
		}

		label := titleWords(owner) + " " + titleWords(kind)
		if institution != "" {
			label += " (" + titleWords(institution) + ")"
		}
		return FileLabel{
			Owner:       owner,
			Type:        typeFromWord(kind),
			Institution: titleWords(institution),
			Label:       label,
		}
	}

	clean := strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return FileLabel{
		Type:  typeFromWord(clean),
		Label: titleWords(clean),
	}
}

// trimMonth drops a month name glued to the end of an institution, as in
// "chasejuly".
func trimMonth(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range monthSuffixes {
		if strings.HasSuffix(s, m) && len(s) > len(m) {
			return strings.TrimSpace(strings.TrimSuffix(s, m))
		}
	}
	return s
}

func typeFromWord(s string) model.AccountType {
	switch {
	case strings.Contains(s, "credit"), strings.Contains(s, "card"):
		return model.AccountTypeCredit
	case strings.Contains(s, "saving"):
		return model.AccountTypeSavings
	case strings.Contains(s, "checking"), strings.Contains(s, "bank"):
		return model.AccountTypeChecking
	default:
		return model.AccountTypeUnknown
	}
}

// titleWords upper-cases the first letter of every space-separated word and
// lower-cases the rest.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		w = strings.ToLower(w)
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
