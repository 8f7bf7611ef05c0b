package loan

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Loan struct {
	Id               ulid.ULID        `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId           ulid.ULID        `gorm:"type:varchar(26);index:idx_loans_user_id;not null" json:"userId"`
	Description      string           `gorm:"type:varchar(255);not null" json:"description"`
	PrincipalAmount  decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"principalAmount"`
	RemainingBalance decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"remainingBalance"`
	InterestRate     *decimal.Decimal `gorm:"type:decimal(6,3)" json:"interestRate,omitempty"`
	Status           Status           `gorm:"type:varchar(10);not null;default:'ACTIVE';index:idx_loans_status" json:"status"`
	NextPaymentDue   *time.Time       `gorm:"type:date;index:idx_loans_next_payment" json:"nextPaymentDue,omitempty"`
	IsDeleted        bool             `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt        time.Time        `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Loan) TableName() string {
	return "loans"
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusPaidOff Status = "PAID_OFF"
)

type Payment struct {
	Id     ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	LoanId ulid.ULID       `gorm:"type:varchar(26);index:idx_loan_payments_loan;not null" json:"loanId"`
	Amount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAt time.Time       `gorm:"not null" json:"paidAt"`
}

func (Payment) TableName() string {
	return "loan_payments"
}
