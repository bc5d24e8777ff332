package httpdto

import (
	"time"

	"service-catalog/internal/domain/category"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100,catalogname"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100,catalogname"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type ListCategoriesQuery struct {
	TenantID string `form:"tenantId"`
	Offset   *int   `form:"offset"`
	Limit    *int   `form:"limit"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromCategory(c category.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromCategorySlice(items []category.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCategory(c))
	}
	return out
}
