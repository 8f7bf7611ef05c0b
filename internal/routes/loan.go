package routes

import (
	"net/http"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/loan"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateLoan(c *gin.Context) {
	var body contracts.LoanCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := &loan.CreateLoanRequest{
		UserId:          userID,
		Description:     body.Description,
		PrincipalAmount: body.PrincipalAmount,
		InterestRate:    body.InterestRate,
		NextPaymentDue:  body.NextPaymentDue,
	}

	ctx := c.Request.Context()
	l, err := h.LoanService.CreateLoan(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.LoanCreateResponse{
		Message: "Empréstimo registrado com sucesso",
		Loan:    l,
	})
}

func (h *Handler) ListLoans(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	loans, total, err := h.LoanService.ListLoans(ctx, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(loans, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetLoan(c *gin.Context) {
	loanID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	l, err := h.LoanService.GetLoanByID(ctx, loanID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.LoanSingleResponse{Loan: l})
}

func (h *Handler) MakeLoanPayment(c *gin.Context) {
	loanID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	var body contracts.LoanPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	payment, err := h.LoanService.MakePayment(ctx, loanID, userID, body.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.LoanPaymentResponse{
		Message: "Pagamento registrado com sucesso",
		Payment: payment,
	})
}

func (h *Handler) GetLoanPayments(c *gin.Context) {
	loanID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	payments, err := h.LoanService.GetPayments(ctx, loanID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.LoanPaymentsResponse{Payments: payments})
}

func (h *Handler) DeleteLoan(c *gin.Context) {
	loanID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.LoanService.DeleteLoan(ctx, loanID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Empréstimo removido com sucesso"})
}
