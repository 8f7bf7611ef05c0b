package routes

import (
	"net/http"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/budget"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) CreateBudget(c *gin.Context) {
	var body contracts.BudgetCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	categoryID, err := pkg.ParseULID(body.CategoryId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("category_id", "formato inválido"))
		return
	}

	rollover := decimal.Zero
	if body.RolloverAmount != nil {
		rollover = *body.RolloverAmount
	}

	req := &budget.CreateBudgetRequest{
		UserId:         userID,
		CategoryId:     categoryID,
		AmountLimit:    body.AmountLimit,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		BudgetType:     budget.Type(body.BudgetType),
		RolloverAmount: rollover,
		Description:    body.Description,
	}

	ctx := c.Request.Context()
	b, err := h.BudgetService.CreateBudget(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.BudgetCreateResponse{
		Message: "Orçamento criado com sucesso",
		Budget:  b,
	})
}

func (h *Handler) ListBudgets(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	budgets, total, err := h.BudgetService.ListBudgets(ctx, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(budgets, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetBudget(c *gin.Context) {
	budgetID, err := pkg.ParseULID(c.Param("id"))
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
	b, err := h.BudgetService.GetBudgetByID(ctx, budgetID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BudgetSingleResponse{Budget: b})
}

func (h *Handler) GetBudgetStatus(c *gin.Context) {
	budgetID, err := pkg.ParseULID(c.Param("id"))
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
	status, err := h.BudgetService.GetBudgetStatus(ctx, budgetID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BudgetStatusResponse{Status: status})
}

func (h *Handler) GetBudgetReport(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	report, err := h.BudgetService.GetBudgetReport(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BudgetReportResponse{Report: report})
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	budgetID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	var body contracts.BudgetUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var budgetType *budget.Type
	if body.BudgetType != nil {
		t := budget.Type(*body.BudgetType)
		budgetType = &t
	}

	req := &budget.UpdateBudgetRequest{
		AmountLimit:    body.AmountLimit,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		BudgetType:     budgetType,
		RolloverAmount: body.RolloverAmount,
		Description:    body.Description,
	}

	ctx := c.Request.Context()
	if err := h.BudgetService.UpdateBudget(ctx, budgetID, userID, req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Orçamento atualizado com sucesso"})
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	budgetID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.BudgetService.DeleteBudget(ctx, budgetID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Orçamento removido com sucesso"})
}
