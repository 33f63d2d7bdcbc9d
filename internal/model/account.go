package model

// AccountType classifies where an export came from.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeUnknown  AccountType = "unknown"
)

// Account is a logical account that transactions are attributed to.
type Account struct {
	Name        string
	Type        AccountType
	Institution string
}

// SourceKind maps the account type onto the categorizer's source hint.
func (t AccountType) SourceKind() SourceKind {
	if t == AccountTypeCredit {
		return SourceCard
	}
	return SourceBank
}
