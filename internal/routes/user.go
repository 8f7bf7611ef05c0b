package routes

import (
	"net/http"

	"Finledger/internal/contracts"
	"Finledger/internal/domain/user"
	appErrors "Finledger/internal/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterUser(c *gin.Context) {
	var body contracts.UserRegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	u := &user.User{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	}

	ctx := c.Request.Context()
	if err := h.UserService.Register(ctx, u); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.UserRegisterResponse{
		Message: "Usuário registrado com sucesso",
		User:    u,
	})
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.UserSingleResponse{User: u})
}
