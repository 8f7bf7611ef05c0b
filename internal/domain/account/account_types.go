package account

type AccountType string

const (
	TypeChecking AccountType = "CHECKING"
	TypeSavings  AccountType = "SAVINGS"
	TypeCredit   AccountType = "CREDIT"
	TypeLoan     AccountType = "LOAN"
)

func (t AccountType) IsValid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCredit, TypeLoan:
		return true
	}
	return false
}
