package contracts

import "Finledger/internal/domain/category"

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Icon string `json:"icon" binding:"omitempty,max=50"`
}

type CategoryCreateResponse struct {
	Message  string             `json:"message"`
	Category *category.Category `json:"category"`
}

type CategorySingleResponse struct {
	Category *category.Category `json:"category"`
}
