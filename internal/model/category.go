package model

import "strings"

// Standard category labels. The label set is open: users may assign any other name.
const (
	CategoryFoodDrink     = "Food & drink"
	CategoryGroceries     = "Groceries"
	CategoryBills         = "Bills & utilities"
	CategoryShopping      = "Shopping"
	CategoryGas           = "Gas"
	CategoryAutomotive    = "Automotive"
	CategoryTravel        = "Travel"
	CategoryHealth        = "Health & wellness"
	CategoryEntertainment = "Entertainment"
	CategoryFees          = "Fees & adjustments"
	CategoryPetCare       = "Pet care"
	CategoryCash          = "Cash"
	CategoryIncome        = "Income"
	CategoryTransfers     = "Transfers"
	CategoryCardPayment   = "Credit Card Payment"
	CategoryUncategorized = "Uncategorized"
)

// StandardCategories lists the built-in labels in display order.
var StandardCategories = []string{
	CategoryFoodDrink,
	CategoryGroceries,
	CategoryBills,
	CategoryShopping,
	CategoryGas,
	CategoryAutomotive,
	CategoryTravel,
	CategoryHealth,
	CategoryEntertainment,
	CategoryFees,
	CategoryPetCare,
	CategoryCash,
	CategoryIncome,
	CategoryTransfers,
	CategoryCardPayment,
	CategoryUncategorized,
}

// IsTransferCategory reports whether category marks money movement that is
// excluded from both income and spending.
func IsTransferCategory(category string) bool {
	return category == CategoryTransfers || category == CategoryCardPayment
}

// CanonicalCategory returns the standard spelling of category when it matches
// one case-insensitively, otherwise the trimmed input.
func CanonicalCategory(category string) string {
	c := strings.TrimSpace(category)
	for _, std := range StandardCategories {
		if strings.EqualFold(std, c) {
			return std
		}
	}
	return c
}
