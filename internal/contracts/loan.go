package contracts

import (
	"time"

	"Finledger/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type LoanCreateRequest struct {
	Description     string           `json:"description" binding:"required,max=255"`
	PrincipalAmount decimal.Decimal  `json:"principal_amount" binding:"required"`
	InterestRate    *decimal.Decimal `json:"interest_rate" binding:"omitempty"`
	NextPaymentDue  *time.Time       `json:"next_payment_due" binding:"omitempty"`
}

type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type LoanCreateResponse struct {
	Message string     `json:"message"`
	Loan    *loan.Loan `json:"loan"`
}

type LoanSingleResponse struct {
	Loan *loan.Loan `json:"loan"`
}

type LoanPaymentResponse struct {
	Message string        `json:"message"`
	Payment *loan.Payment `json:"payment"`
}

type LoanPaymentsResponse struct {
	Payments []*loan.Payment `json:"payments"`
}
