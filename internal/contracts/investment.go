package contracts

import (
	"time"

	"Finledger/internal/domain/investment"

	"github.com/shopspring/decimal"
)

type InvestmentCreateRequest struct {
	Name           string          `json:"name" binding:"required,max=120"`
	Type           string          `json:"type" binding:"required,oneof=STOCK BOND FUND CRYPTO REAL_ESTATE FIXED_INCOME"`
	AmountInvested decimal.Decimal `json:"amount_invested" binding:"required"`
	PurchaseDate   time.Time       `json:"purchase_date" binding:"required"`
}

type InvestmentUpdateRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=120"`
	Type           *string          `json:"type" binding:"omitempty,oneof=STOCK BOND FUND CRYPTO REAL_ESTATE FIXED_INCOME"`
	AmountInvested *decimal.Decimal `json:"amount_invested" binding:"omitempty"`
	CurrentValue   *decimal.Decimal `json:"current_value" binding:"omitempty"`
}

type InvestmentHistoryRequest struct {
	Value      decimal.Decimal `json:"value" binding:"required"`
	RecordedAt *time.Time      `json:"recorded_at" binding:"omitempty"`
}

type InvestmentCreateResponse struct {
	Message    string                 `json:"message"`
	Investment *investment.Investment `json:"investment"`
}

type InvestmentSingleResponse struct {
	Investment  *investment.Investment `json:"investment"`
	Performance decimal.Decimal        `json:"performance"`
}

type InvestmentHistoryResponse struct {
	History []*investment.History `json:"history"`
}

type InvestmentSimulationResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}
