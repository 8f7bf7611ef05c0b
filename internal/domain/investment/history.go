package investment

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// History é o registro imutável de uma avaliação: nunca é atualizado nem
// removido, apenas acrescido.
type History struct {
	Id               ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	InvestmentId     ulid.ULID       `gorm:"type:varchar(26);index:idx_investment_history_investment;not null" json:"investmentId"`
	Value            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`
	ReturnsGenerated decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"returnsGenerated"`
	Performance      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"performance"`
	RecordedAt       time.Time       `gorm:"not null;index:idx_investment_history_recorded" json:"recordedAt"`
}

func (History) TableName() string {
	return "investment_histories"
}
