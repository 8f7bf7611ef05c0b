package investment

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Investment struct {
	Id             ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId         ulid.ULID       `gorm:"type:varchar(26);index:idx_investments_user_id;not null" json:"userId"`
	Name           string          `gorm:"type:varchar(120);not null" json:"name"`
	Type           Type            `gorm:"type:varchar(20);not null" json:"type"`
	AmountInvested decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amountInvested"`
	CurrentValue   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"currentValue"`
	PurchaseDate   time.Time       `gorm:"type:date;not null" json:"purchaseDate"`
	IsDeleted      bool            `gorm:"not null;default:false;index:idx_investments_deleted" json:"isDeleted"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Investment) TableName() string {
	return "investments"
}

type Type string

const (
	TypeStock       Type = "STOCK"
	TypeBond        Type = "BOND"
	TypeFund        Type = "FUND"
	TypeCrypto      Type = "CRYPTO"
	TypeRealEstate  Type = "REAL_ESTATE"
	TypeFixedIncome Type = "FIXED_INCOME"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeStock, TypeBond, TypeFund, TypeCrypto, TypeRealEstate, TypeFixedIncome:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Performance retorna o retorno percentual sobre o aporte, com a razão
// arredondada half-up em duas casas antes da conversão para percentual.
// Aporte zero resulta em 0.
func (i *Investment) Performance() decimal.Decimal {
	if i.AmountInvested.IsZero() {
		return decimal.Zero
	}
	return i.CurrentValue.Sub(i.AmountInvested).DivRound(i.AmountInvested, 2).Mul(hundred)
}
