package contracts

import "Finledger/internal/domain/user"

type UserRegisterRequest struct {
	Name  string `json:"name" binding:"required,max=120"`
	Email string `json:"email" binding:"required,email,max=150"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

type UserRegisterResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}

type UserSingleResponse struct {
	User *user.User `json:"user"`
}
