package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	heading  = color.New(color.Bold)
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
	muted    = color.New(color.FgHiBlack)
	warning  = color.New(color.FgYellow)
)

// money formats an amount as "$1,234.56" or "-$1,234.56".
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.Abs().Round(2).InexactFloat64())
}

// signed colors an amount by its sign.
func signed(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return negative.Sprint(money(d))
	case d.IsPositive():
		return positive.Sprint(money(d))
	default:
		return money(d)
	}
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func optionalPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}

// bar renders a proportional bar of at most width cells.
func bar(pct decimal.Decimal, width int) string {
	n := int(pct.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
