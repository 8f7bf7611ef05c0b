package routes

import (
	"net/http"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/ledger"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func (h *Handler) buildPostRequest(c *gin.Context, body *contracts.TransactionPostRequest) (*ledger.PostRequest, error) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		return nil, err
	}

	accountID, err := pkg.ParseULID(body.AccountId)
	if err != nil {
		return nil, appErrors.NewValidationError("account_id", "formato inválido")
	}

	var categoryID *ulid.ULID
	if body.CategoryId != nil {
		parsed, err := pkg.ParseULID(*body.CategoryId)
		if err != nil {
			return nil, appErrors.NewValidationError("category_id", "formato inválido")
		}
		categoryID = &parsed
	}

	return &ledger.PostRequest{
		UserId:        userID,
		AccountId:     accountID,
		CategoryId:    categoryID,
		Amount:        body.Amount,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
	}, nil
}

func (h *Handler) CreateDeposit(c *gin.Context) {
	var body contracts.TransactionPostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	req, err := h.buildPostRequest(c, &body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	transaction, err := h.TransactionService.Deposit(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionCreateResponse{
		Message:     "Depósito realizado com sucesso",
		Transaction: transaction,
	})
}

func (h *Handler) CreateWithdrawal(c *gin.Context) {
	var body contracts.TransactionPostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	req, err := h.buildPostRequest(c, &body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	transaction, err := h.TransactionService.Withdraw(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionCreateResponse{
		Message:     "Saque realizado com sucesso",
		Transaction: transaction,
	})
}

func (h *Handler) CreateTransfer(c *gin.Context) {
	var body contracts.TransactionTransferRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fromID, err := pkg.ParseULID(body.FromAccountId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("from_account_id", "formato inválido"))
		return
	}

	toID, err := pkg.ParseULID(body.ToAccountId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("to_account_id", "formato inválido"))
		return
	}

	req := &ledger.TransferRequest{
		UserId:        userID,
		FromAccountId: fromID,
		ToAccountId:   toID,
		Amount:        body.Amount,
		Description:   body.Description,
	}

	ctx := c.Request.Context()
	transaction, err := h.TransactionService.Transfer(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionCreateResponse{
		Message:     "Transferência realizada com sucesso",
		Transaction: transaction,
	})
}

func (h *Handler) CreateRecurring(c *gin.Context) {
	var body contracts.TransactionRecurringRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	post, err := h.buildPostRequest(c, &contracts.TransactionPostRequest{
		AccountId:     body.AccountId,
		CategoryId:    body.CategoryId,
		Amount:        body.Amount,
		PaymentMethod: body.PaymentMethod,
		Description:   body.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := &ledger.CreateRecurringRequest{
		PostRequest: *post,
		Type:        ledger.Types(body.Type),
		Interval:    ledger.Interval(body.RecurrenceInterval),
	}

	ctx := c.Request.Context()
	transaction, err := h.TransactionService.CreateRecurring(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionCreateResponse{
		Message:     "Transação recorrente criada com sucesso",
		Transaction: transaction,
	})
}

func (h *Handler) ProcessRecurring(c *gin.Context) {
	ctx := c.Request.Context()

	processed, err := h.TransactionService.ProcessRecurringTransactions(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RecurringProcessResponse{
		Message:   "Recorrências processadas",
		Processed: processed,
	})
}

func (h *Handler) GetTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	var accountID *ulid.ULID
	if accountStr := c.Query("account_id"); accountStr != "" {
		parsed, err := pkg.ParseULID(accountStr)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("account_id", "formato inválido"))
			return
		}
		accountID = &parsed
	}

	var (
		transactions []*ledger.Transaction
		total        int64
	)
	if typeStr := c.Query("type"); typeStr != "" {
		transactions, total, err = h.TransactionService.ListTransactionsByType(ctx, userID, ledger.Types(typeStr), pagination)
	} else {
		transactions, total, err = h.TransactionService.ListTransactions(ctx, userID, accountID, pagination)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
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
	transaction, err := h.TransactionService.GetTransactionByID(ctx, transactionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.TransactionSingleResponse{Transaction: transaction})
}

func (h *Handler) GetTransactionsByCategory(c *gin.Context) {
	categoryID, err := pkg.ParseULID(c.Param("category_id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("category_id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	transactions, total, err := h.TransactionService.ListTransactionsByCategory(ctx, categoryID, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total))
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.TransactionService.DeleteTransaction(ctx, transactionID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transação removida com sucesso"})
}
