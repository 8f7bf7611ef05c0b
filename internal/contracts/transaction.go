package contracts

import (
	"Finledger/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

type TransactionPostRequest struct {
	AccountId     string          `json:"account_id" binding:"required,len=26"`
	CategoryId    *string         `json:"category_id" binding:"omitempty,len=26"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=30"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
}

type TransactionTransferRequest struct {
	FromAccountId string          `json:"from_account_id" binding:"required,len=26"`
	ToAccountId   string          `json:"to_account_id" binding:"required,len=26"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
}

type TransactionRecurringRequest struct {
	AccountId          string          `json:"account_id" binding:"required,len=26"`
	CategoryId         *string         `json:"category_id" binding:"omitempty,len=26"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Type               string          `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	RecurrenceInterval string          `json:"recurrence_interval" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	PaymentMethod      string          `json:"payment_method" binding:"omitempty,max=30"`
	Description        string          `json:"description" binding:"omitempty,max=255"`
}

type TransactionCreateResponse struct {
	Message     string              `json:"message"`
	Transaction *ledger.Transaction `json:"transaction"`
}

type TransactionSingleResponse struct {
	Transaction *ledger.Transaction `json:"transaction"`
}

type RecurringProcessResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}
