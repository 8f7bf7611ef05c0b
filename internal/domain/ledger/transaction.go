package ledger

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	Id                   ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId               ulid.ULID       `gorm:"type:varchar(26);index:idx_transactions_user_id;not null" json:"userId"`
	AccountId            ulid.ULID       `gorm:"type:varchar(26);index:idx_transactions_account_id;not null" json:"accountId"`
	DestinationAccountId *ulid.ULID      `gorm:"type:varchar(26);index:idx_transactions_dest_account_id" json:"destinationAccountId,omitempty"`
	CategoryId           *ulid.ULID      `gorm:"type:varchar(26);index:idx_transactions_category_id" json:"categoryId,omitempty"`
	Amount               decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type                 Types           `gorm:"type:varchar(10);not null;index:idx_transactions_type" json:"type"`
	Status               Status          `gorm:"type:varchar(10);not null;default:'COMPLETED'" json:"status"`
	PaymentMethod        string          `gorm:"type:varchar(30)" json:"paymentMethod"`
	Description          string          `gorm:"type:varchar(255)" json:"description"`
	IsRecurring          bool            `gorm:"not null;default:false;index:idx_transactions_recurring" json:"isRecurring"`
	RecurrenceInterval   *Interval       `gorm:"type:varchar(10)" json:"recurrenceInterval,omitempty"`
	NextDueDate          *time.Time      `gorm:"index:idx_transactions_next_due" json:"nextDueDate,omitempty"`
	ParentTransactionId  *ulid.ULID      `gorm:"type:varchar(26);index:idx_transactions_parent_id" json:"parentTransactionId,omitempty"`
	IsDeleted            bool            `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt            time.Time       `gorm:"autoCreateTime;not null;index:idx_transactions_created" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type Types string

const (
	Deposit    Types = "DEPOSIT"
	Withdrawal Types = "WITHDRAWAL"
	Transfer   Types = "TRANSFER"
)

func (t Types) IsValid() bool {
	switch t {
	case Deposit, Withdrawal, Transfer:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

type Interval string

const (
	IntervalDaily   Interval = "DAILY"
	IntervalWeekly  Interval = "WEEKLY"
	IntervalMonthly Interval = "MONTHLY"
	IntervalYearly  Interval = "YEARLY"
)

func (i Interval) IsValid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// Next avança uma ocorrência: DAILY +1 dia, WEEKLY +7 dias, MONTHLY +1 mês
// de calendário, YEARLY +1 ano de calendário.
func (i Interval) Next(from time.Time) time.Time {
	switch i {
	case IntervalDaily:
		return from.AddDate(0, 0, 1)
	case IntervalWeekly:
		return from.AddDate(0, 0, 7)
	case IntervalMonthly:
		return from.AddDate(0, 1, 0)
	case IntervalYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}
