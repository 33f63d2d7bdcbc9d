// Package categorize assigns categories to new transactions with ordered,
// first-match-wins rule sets, one per source kind.
package categorize

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Input is what a rule sees of a transaction.
type Input struct {
	Description         string
	Amount              decimal.Decimal
	Source              model.SourceKind
	TxnType             string
	InstitutionCategory string
}

// InputFrom builds an Input from a normalized transaction.
func InputFrom(tx model.Transaction) Input {
	return Input{
		Description:         tx.Description,
		Amount:              tx.Amount,
		Source:              tx.Source,
		TxnType:             tx.TxnType,
		InstitutionCategory: tx.InstitutionCategory,
	}
}

func (in Input) inflow() bool  { return in.Amount.IsPositive() }
func (in Input) outflow() bool { return in.Amount.IsNegative() }

// Rule maps matching inputs to a category. Derive, when set, computes the
// category from the input instead of Category.
type Rule struct {
	Name     string
	Match    func(Input) bool
	Category string
	Derive   func(Input) string
	// Fallback marks catch-all rules whose hit means nothing specific matched.
	Fallback bool
}

func (r Rule) category(in Input) string {
	if r.Derive != nil {
		return r.Derive(in)
	}
	return r.Category
}

// RuleSet is evaluated in order; the first matching rule wins.
type RuleSet []Rule

// First returns the first rule matching in.
func (rs RuleSet) First(in Input) (Rule, bool) {
	for _, r := range rs {
		if r.Match(in) {
			return r, true
		}
	}
	return Rule{}, false
}

// Keywords matches descriptions containing any of the given upper-case
// keywords. Keywords of three characters or fewer must stand as whole words.
type Keywords []string

// In reports whether s contains one of the keywords.
func (k Keywords) In(s string) bool {
	s = strings.ToUpper(s)
	for _, kw := range k {
		if len(kw) <= 3 {
			if containsWord(s, kw) {
				return true
			}
			continue
		}
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(word)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b < unicode.MaxASCII && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}

// Keyword lists shared by the rule sets.
var (
	IncomeMarkers = Keywords{
		"PAYROLL", "DIRECT DEP", "DIRECTDEP", "REIMBURS", "REFUND",
		"CASHBACK", "CASH BACK", "GIFT", "BONUS", "INTEREST",
	}
	CardPaymentKeywords = Keywords{"CARD SERV", "CREDIT CRD", "EPAY", "E-PAYMENT", "ONLINE PMT", "AUTO PMT"}
	TransferKeywords    = Keywords{"ONLINE TRANSFER", "XFER TRANSFER", "RECURRING TRANSFER"}
	// PaymentReceivedKeywords mark a bill payment as seen from the card side.
	PaymentReceivedKeywords = Keywords{"PAYMENT THANK", "PAYMENT - THANK", "AUTOPAY", "AUTOMATIC PAYMENT", "BILL PA"}
	PetKeywords             = Keywords{"PETCO", "PETSMART", "VET", "ANIMAL HOSPITAL"}
)

// DepositTypes are bank transaction types that mark an inflow as income.
var DepositTypes = []string{"DIRECTDEP", "DIRECT DEPOSIT", "CREDIT", "ACH_CREDIT", "DEPOSIT"}

// SpendingKeyword maps description keywords to a spending category.
type SpendingKeyword struct {
	Category string
	Keywords Keywords
}

// SpendingKeywords are tried in order against outflows.
var SpendingKeywords = []SpendingKeyword{
	{model.CategoryGroceries, Keywords{"GROCERY", "GROCERIES", "MARKET", "FOOD", "TRADER JOE", "ALDI"}},
	{model.CategoryGas, Keywords{"GAS", "SHELL", "EXXON", "CHEVRON", "BP", "FUEL", "SUNOCO"}},
	{model.CategoryAutomotive, Keywords{"AUTOMOTIVE", "AUTO REPAIR", "OIL CHANGE", "PARKING", "CAR WASH", "MECHANIC"}},
	{model.CategoryPetCare, PetKeywords},
	{model.CategoryFoodDrink, Keywords{"RESTAURANT", "COFFEE", "STARBUCKS", "CAFE", "PIZZA", "DOORDASH", "GRUBHUB"}},
	{model.CategoryCash, Keywords{"ATM", "WITHDRAWAL"}},
	{model.CategoryBills, Keywords{"ELECTRIC", "UTILITY", "WATER", "INTERNET", "COMCAST", "VERIZON"}},
	{model.CategoryShopping, Keywords{"AMAZON", "TARGET"}},
	{model.CategoryTravel, Keywords{"UBER", "LYFT", "AIRLINE", "AIR LINES", "HOTEL", "DELTA"}},
	{model.CategoryEntertainment, Keywords{"NETFLIX", "SPOTIFY", "HULU"}},
	{model.CategoryHealth, Keywords{"PHARMACY", "CVS", "WALGREENS", "GYM"}},
	{model.CategoryFees, Keywords{"FEE", "OVERDRAFT"}},
}

func isDepositType(t string) bool {
	t = strings.ToUpper(strings.TrimSpace(t))
	for _, d := range DepositTypes {
		if t == d {
			return true
		}
	}
	return false
}
