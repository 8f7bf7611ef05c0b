package contracts

import (
	"time"

	"Finledger/internal/domain/budget"

	"github.com/shopspring/decimal"
)

type BudgetCreateRequest struct {
	CategoryId     string           `json:"category_id" binding:"required,len=26"`
	AmountLimit    decimal.Decimal  `json:"amount_limit" binding:"required"`
	StartDate      time.Time        `json:"start_date" binding:"required"`
	EndDate        time.Time        `json:"end_date" binding:"required"`
	BudgetType     string           `json:"budget_type" binding:"required,oneof=STRICT FLEXIBLE"`
	RolloverAmount *decimal.Decimal `json:"rollover_amount" binding:"omitempty"`
	Description    string           `json:"description" binding:"omitempty,max=255"`
}

type BudgetUpdateRequest struct {
	AmountLimit    *decimal.Decimal `json:"amount_limit" binding:"omitempty"`
	StartDate      *time.Time       `json:"start_date" binding:"omitempty"`
	EndDate        *time.Time       `json:"end_date" binding:"omitempty"`
	BudgetType     *string          `json:"budget_type" binding:"omitempty,oneof=STRICT FLEXIBLE"`
	RolloverAmount *decimal.Decimal `json:"rollover_amount" binding:"omitempty"`
	Description    *string          `json:"description" binding:"omitempty,max=255"`
}

type BudgetCreateResponse struct {
	Message string         `json:"message"`
	Budget  *budget.Budget `json:"budget"`
}

type BudgetSingleResponse struct {
	Budget *budget.Budget `json:"budget"`
}

type BudgetStatusResponse struct {
	Status *budget.BudgetStatus `json:"status"`
}

type BudgetReportResponse struct {
	Report *budget.BudgetReport `json:"report"`
}
