package routes

import (
	"net/http"
	"time"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/investment"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateInvestment(c *gin.Context) {
	var body contracts.InvestmentCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := &investment.CreateInvestmentRequest{
		UserId:         userID,
		Name:           body.Name,
		Type:           investment.Type(body.Type),
		AmountInvested: body.AmountInvested,
		PurchaseDate:   body.PurchaseDate,
	}

	ctx := c.Request.Context()
	inv, err := h.InvestmentService.AddInvestment(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.InvestmentCreateResponse{
		Message:    "Investimento registrado com sucesso",
		Investment: inv,
	})
}

func (h *Handler) ListInvestments(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	pagination := h.parsePagination(c)

	investments, total, err := h.InvestmentService.ListInvestments(ctx, userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(investments, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetInvestment(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
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
	inv, err := h.InvestmentService.GetInvestmentByID(ctx, investmentID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.InvestmentSingleResponse{
		Investment:  inv,
		Performance: inv.Performance(),
	})
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	var body contracts.InvestmentUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var investmentType *investment.Type
	if body.Type != nil {
		t := investment.Type(*body.Type)
		investmentType = &t
	}

	req := &investment.UpdateInvestmentRequest{
		Name:           body.Name,
		Type:           investmentType,
		AmountInvested: body.AmountInvested,
		CurrentValue:   body.CurrentValue,
	}

	ctx := c.Request.Context()
	if err := h.InvestmentService.UpdateInvestment(ctx, investmentID, userID, req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Investimento atualizado com sucesso"})
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.InvestmentService.DeleteInvestment(ctx, investmentID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Investimento removido com sucesso"})
}

func (h *Handler) RestoreInvestment(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
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
	if err := h.InvestmentService.RestoreInvestment(ctx, investmentID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Investimento restaurado com sucesso"})
}

func (h *Handler) RecordInvestmentHistory(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	var body contracts.InvestmentHistoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	recordedAt := time.Now()
	if body.RecordedAt != nil {
		recordedAt = *body.RecordedAt
	}

	ctx := c.Request.Context()
	if _, err := h.InvestmentService.RecordHistory(ctx, investmentID, userID, body.Value, recordedAt); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Avaliação registrada com sucesso"})
}

func (h *Handler) GetInvestmentHistory(c *gin.Context) {
	investmentID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato inválido"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("from", "formato inválido, use RFC3339"))
			return
		}
		from = &parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("to", "formato inválido, use RFC3339"))
			return
		}
		to = &parsed
	}

	ctx := c.Request.Context()
	history, err := h.InvestmentService.GetHistory(ctx, investmentID, userID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.InvestmentHistoryResponse{History: history})
}

func (h *Handler) SimulateInvestments(c *gin.Context) {
	ctx := c.Request.Context()

	processed, err := h.InvestmentService.SimulateGrowth(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.InvestmentSimulationResponse{
		Message:   "Simulação concluída",
		Processed: processed,
	})
}
