package categorize

import (
	"strings"

	"github.com/aadjones/pumpkin-stats/internal/model"
)

type mapping struct {
	category string
	keywords []string
}

// institutionMappings translate issuer category names. Checked in order:
// first for an exact keyword, then for a keyword contained in the name.
var institutionMappings = []mapping{
	{model.CategoryFoodDrink, []string{"food", "drink", "restaurant", "bar", "coffee", "dining"}},
	{model.CategoryGroceries, []string{"grocery", "groceries", "supermarket", "market", "food store"}},
	{model.CategoryGas, []string{"gas", "fuel", "gasoline", "gas station"}},
	{model.CategoryAutomotive, []string{"automotive", "auto", "oil change", "repair", "mechanic", "car wash", "parking"}},
	{model.CategoryPetCare, []string{"pet", "vet", "veterinary", "animal"}},
	{model.CategoryShopping, []string{"shopping", "retail", "store", "merchandise"}},
	{model.CategoryBills, []string{"utility", "utilities", "electric", "water", "internet", "phone", "cable"}},
	{model.CategoryTravel, []string{"travel", "hotel", "airline", "flight", "taxi"}},
	{model.CategoryHealth, []string{"health", "medical", "pharmacy", "doctor", "hospital", "fitness", "gym"}},
	{model.CategoryEntertainment, []string{"entertainment", "movie", "streaming", "games"}},
	{model.CategoryFees, []string{"fee", "fees", "adjustment", "overdraft"}},
}

// MapInstitutionCategory maps an issuer-provided category onto the standard
// labels. Unknown names pass through trimmed; blank yields "".
func MapInstitutionCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return ""
	}
	if std := model.CanonicalCategory(c); std != c {
		return std
	}
	for _, m := range institutionMappings {
		for _, kw := range m.keywords {
			if c == kw {
				return m.category
			}
		}
	}
	for _, m := range institutionMappings {
		for _, kw := range m.keywords {
			if strings.Contains(c, kw) {
				return m.category
			}
		}
	}
	return strings.TrimSpace(category)
}
