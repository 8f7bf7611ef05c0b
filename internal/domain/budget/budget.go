package budget

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Budget struct {
	Id             ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId         ulid.ULID       `gorm:"type:varchar(26);index:idx_budgets_user_id;not null" json:"userId"`
	CategoryId     ulid.ULID       `gorm:"type:varchar(26);index:idx_budgets_category;not null" json:"categoryId"`
	AmountLimit    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amountLimit"`
	StartDate      time.Time       `gorm:"type:date;not null;index:idx_budgets_window" json:"startDate"`
	EndDate        time.Time       `gorm:"type:date;not null;index:idx_budgets_window" json:"endDate"`
	BudgetType     Type            `gorm:"type:varchar(10);not null;default:'FLEXIBLE'" json:"budgetType"`
	RolloverAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"rolloverAmount"`
	Description    string          `gorm:"type:varchar(255)" json:"description"`
	IsDeleted      bool            `gorm:"not null;default:false;index:idx_budgets_deleted" json:"isDeleted"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;not null" json:"createdAt"`
}

func (Budget) TableName() string {
	return "budgets"
}

type Type string

const (
	TypeStrict   Type = "STRICT"
	TypeFlexible Type = "FLEXIBLE"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeStrict, TypeFlexible:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// PercentageUsed retorna a porcentagem gasta do limite, arredondada half-up.
// Limite zero ou ausente resulta em 0 para evitar divisão por zero.
func (b *Budget) PercentageUsed(spent decimal.Decimal) decimal.Decimal {
	if b.AmountLimit.IsZero() {
		return decimal.Zero
	}
	return spent.Mul(hundred).DivRound(b.AmountLimit, 0)
}

type BudgetReport struct {
	UserId              ulid.ULID       `json:"userId"`
	Budgets             []*BudgetStatus `json:"budgets"`
	TotalBudgetLimit    decimal.Decimal `json:"totalBudgetLimit"`
	TotalRolloverAmount decimal.Decimal `json:"totalRolloverAmount"`
	StartDate           *time.Time      `json:"startDate,omitempty"`
	EndDate             *time.Time      `json:"endDate,omitempty"`
}

type BudgetStatus struct {
	Budget     *Budget         `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}
