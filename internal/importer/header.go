package importer

import "strings"

// header is a lower-cased, trimmed header row.
type header []string

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, c := range row {
		h[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return h
}

// exact returns the index of the first column equal to any of names, or -1.
// Names are tried in priority order.
func (h header) exact(names ...string) int {
	for _, n := range names {
		for i, c := range h {
			if c == n {
				return i
			}
		}
	}
	return -1
}

// containing returns the index of the first column (in header order)
// containing substr, or -1.
func (h header) containing(substr string) int {
	for i, c := range h {
		if strings.Contains(c, substr) {
			return i
		}
	}
	return -1
}

// firstOf tries exact names, then substrings, returning the first match.
func (h header) firstOf(exact []string, substrs ...string) int {
	if i := h.exact(exact...); i >= 0 {
		return i
	}
	for _, s := range substrs {
		if i := h.containing(s); i >= 0 {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at idx, or "" when idx is out of range.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// rawCell returns the value at idx as read, or "" when idx is out of range.
func rawCell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// blankRecord reports whether every cell in rec is empty.
func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Embedded account columns shared by every headed format.
var (
	accountNameColumns   = []string{"account", "account name"}
	accountNumberColumns = []string{"card no.", "card no", "card number", "account number", "acct number", "card"}
)

func accountColumns(h header) (name, number int) {
	return h.exact(accountNameColumns...), h.exact(accountNumberColumns...)
}
