package dto

import "fintrack/internal/models"

// CategoryRequest creates or updates a category. Missing color and icon
// fall back to the defaults.
type CategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon,omitempty" validate:"omitempty,max=16"`
}

// CategoryResponse is one entry of GET /categories.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID.String(), Name: c.Name, Color: c.Color, Icon: c.Icon}
}

func NewCategoryList(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}
