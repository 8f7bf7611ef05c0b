package routes

import (
	"net/http"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/account"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateAccount(c *gin.Context) {
	var body contracts.AccountCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	currency := body.Currency
	if currency == "" {
		currency = "USD"
	}

	isDefault := false
	if body.IsDefault != nil {
		isDefault = *body.IsDefault
	}

	req := &account.CreateAccountRequest{
		UserId:       userID,
		Name:         body.Name,
		Type:         account.AccountType(body.Type),
		Currency:     currency,
		InterestRate: body.InterestRate,
		IsDefault:    isDefault,
	}

	ctx := c.Request.Context()
	acc, err := h.AccountService.CreateAccount(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.AccountCreateResponse{
		Message: "Conta criada com sucesso",
		Account: acc,
	})
}

func (h *Handler) ListAccounts(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	var (
		accounts []*account.Account
		total    int64
	)
	if c.Query("include_deleted") == "true" {
		accounts, total, err = h.AccountService.ListAllAccounts(ctx, userID, pagination)
	} else {
		accounts, total, err = h.AccountService.ListAccounts(ctx, userID, pagination)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(accounts, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetAccount(c *gin.Context) {
	accountID, err := pkg.ParseULID(c.Param("id"))
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
	acc, err := h.AccountService.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AccountSingleResponse{Account: acc})
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	accountID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	var body contracts.AccountUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var accountType *account.AccountType
	if body.Type != nil {
		t := account.AccountType(*body.Type)
		accountType = &t
	}

	req := &account.UpdateAccountRequest{
		Name:         body.Name,
		Type:         accountType,
		Currency:     body.Currency,
		InterestRate: body.InterestRate,
		IsDefault:    body.IsDefault,
	}

	ctx := c.Request.Context()
	if err := h.AccountService.UpdateAccount(ctx, accountID, userID, req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conta atualizada com sucesso"})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	accountID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.AccountService.DeleteAccount(ctx, accountID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conta removida com sucesso"})
}

func (h *Handler) RestoreAccount(c *gin.Context) {
	accountID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.AccountService.RestoreAccount(ctx, accountID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conta restaurada com sucesso"})
}
