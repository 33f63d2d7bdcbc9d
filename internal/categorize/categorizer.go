package categorize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/config"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Options tunes a Categorizer.
type Options struct {
	// CardCashbackThreshold is the amount below which an unmarked card
	// inflow is read as cashback or a refund.
	CardCashbackThreshold decimal.Decimal
	// DefaultCategory receives outflows that no rule matched.
	DefaultCategory string
	// Extra keyword rules, tried before the built-in spending keywords.
	Extra []config.KeywordRule
}

// OptionsFromConfig converts the categorize section of the config.
func OptionsFromConfig(c config.CategorizeConfig) Options {
	return Options{
		CardCashbackThreshold: decimal.NewFromFloat(c.CardCashbackThreshold),
		DefaultCategory:       c.DefaultCategory,
		Extra:                 c.Keywords,
	}
}

// Result is the outcome of categorizing one transaction.
type Result struct {
	Category string
	Class    model.Classification
	Rule     string
	// Ambiguous is set when only a catch-all rule matched.
	Ambiguous bool
}

// Categorizer assigns categories to new transactions.
type Categorizer struct {
	bank RuleSet
	card RuleSet
}

// New builds the bank and card rule sets.
func New(opts Options) *Categorizer {
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = model.CategoryUncategorized
	}
	spending := spendingRules(opts)
	return &Categorizer{
		bank: bankRules(spending),
		card: cardRules(opts, spending),
	}
}

// Rules returns the rule set used for source.
func (c *Categorizer) Rules(source model.SourceKind) RuleSet {
	if source == model.SourceCard {
		return c.card
	}
	return c.bank
}

// Categorize evaluates the rule set for in.Source.
func (c *Categorizer) Categorize(in Input) Result {
	r, ok := c.Rules(in.Source).First(in)
	if !ok {
		// Every rule set ends in catch-alls for both signs; only a zero
		// amount gets here and zero amounts never pass normalization.
		return Result{Category: model.CategoryUncategorized, Class: model.ClassOther, Ambiguous: true}
	}
	category := r.category(in)
	tx := model.Transaction{Category: category, Amount: in.Amount}
	return Result{Category: category, Class: tx.Classify(), Rule: r.Name, Ambiguous: r.Fallback}
}

// Apply categorizes tx in place unless its category was set manually.
// It reports whether tx was changed.
func (c *Categorizer) Apply(tx *model.Transaction) (Result, bool) {
	if tx.CategorySource == model.CategorySourceManual {
		return Result{Category: tx.Category, Class: tx.Classify(), Rule: "manual"}, false
	}
	res := c.Categorize(InputFrom(*tx))
	changed := tx.Category != res.Category
	tx.Category = res.Category
	tx.CategorySource = model.CategorySourceAuto
	return res, changed
}

func keywordRule(name, category string, kw Keywords) Rule {
	return Rule{
		Name:     name,
		Category: category,
		Match:    func(in Input) bool { return kw.In(in.Description) },
	}
}

func inflowRule(name, category string, match func(Input) bool) Rule {
	return Rule{
		Name:     name,
		Category: category,
		Match:    func(in Input) bool { return in.inflow() && match(in) },
	}
}

func outflowRule(r Rule) Rule {
	match := r.Match
	r.Match = func(in Input) bool { return in.outflow() && match(in) }
	return r
}

// spendingRules are the keyword rules for outflows shared by both sets,
// ending with the default category.
func spendingRules(opts Options) RuleSet {
	var rs RuleSet
	for _, k := range opts.Extra {
		kw := make(Keywords, len(k.Keywords))
		for i, w := range k.Keywords {
			kw[i] = strings.ToUpper(strings.TrimSpace(w))
		}
		r := outflowRule(keywordRule("custom:"+k.Category, k.Category, kw))
		if k.Source != "" {
			src, match := model.SourceKind(k.Source), r.Match
			r.Match = func(in Input) bool { return in.Source == src && match(in) }
		}
		rs = append(rs, r)
	}
	for _, s := range SpendingKeywords {
		rs = append(rs, outflowRule(keywordRule("keyword:"+s.Category, s.Category, s.Keywords)))
	}
	return append(rs, Rule{
		Name:     "default-spending",
		Category: opts.DefaultCategory,
		Match:    func(in Input) bool { return in.outflow() },
		Fallback: true,
	})
}

// unmatchedInflow treats any inflow that reached it as income.
var unmatchedInflow = Rule{
	Name:     "unmatched-inflow",
	Category: model.CategoryIncome,
	Match:    func(in Input) bool { return in.inflow() },
	Fallback: true,
}

func bankRules(spending RuleSet) RuleSet {
	rs := RuleSet{
		keywordRule("card-payment", model.CategoryCardPayment, CardPaymentKeywords),
		keywordRule("transfer", model.CategoryTransfers, TransferKeywords),
		inflowRule("income-marker", model.CategoryIncome, func(in Input) bool { return IncomeMarkers.In(in.Description) }),
		inflowRule("deposit-type", model.CategoryIncome, func(in Input) bool { return isDepositType(in.TxnType) }),
		unmatchedInflow,
	}
	return append(rs, spending...)
}

func cardRules(opts Options, spending RuleSet) RuleSet {
	threshold := opts.CardCashbackThreshold
	rs := RuleSet{
		{
			Name:     "card-payment",
			Category: model.CategoryCardPayment,
			Match: func(in Input) bool {
				if strings.EqualFold(strings.TrimSpace(in.TxnType), "payment") {
					return true
				}
				return CardPaymentKeywords.In(in.Description) ||
					(in.inflow() && PaymentReceivedKeywords.In(in.Description))
			},
		},
		keywordRule("transfer", model.CategoryTransfers, TransferKeywords),
		inflowRule("income-marker", model.CategoryIncome, func(in Input) bool { return IncomeMarkers.In(in.Description) }),
		inflowRule("card-cashback", model.CategoryIncome, func(in Input) bool { return in.Amount.LessThan(threshold) }),
		unmatchedInflow,
		outflowRule(keywordRule("pet-merchant", model.CategoryPetCare, PetKeywords)),
		outflowRule(Rule{
			Name:   "institution-category",
			Match:  func(in Input) bool { return MapInstitutionCategory(in.InstitutionCategory) != "" },
			Derive: func(in Input) string { return MapInstitutionCategory(in.InstitutionCategory) },
		}),
	}
	return append(rs, spending...)
}
