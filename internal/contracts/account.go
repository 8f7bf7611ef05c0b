package contracts

import (
	"Finledger/internal/domain/account"

	"github.com/shopspring/decimal"
)

type AccountCreateRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	Type         string           `json:"type" binding:"required,oneof=CHECKING SAVINGS CREDIT LOAN"`
	Currency     string           `json:"currency" binding:"omitempty,len=3"`
	InterestRate *decimal.Decimal `json:"interest_rate" binding:"omitempty"`
	IsDefault    *bool            `json:"is_default" binding:"omitempty"`
}

type AccountUpdateRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Type         *string          `json:"type" binding:"omitempty,oneof=CHECKING SAVINGS CREDIT LOAN"`
	Currency     *string          `json:"currency" binding:"omitempty,len=3"`
	InterestRate *decimal.Decimal `json:"interest_rate" binding:"omitempty"`
	IsDefault    *bool            `json:"is_default" binding:"omitempty"`
}

type AccountCreateResponse struct {
	Message string           `json:"message"`
	Account *account.Account `json:"account"`
}

type AccountSingleResponse struct {
	Account *account.Account `json:"account"`
}
