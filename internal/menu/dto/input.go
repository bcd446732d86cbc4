package dto

import "github.com/sahanw/restopos/internal/model"

type CreateMenuItemInput struct {
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Category    model.Category `json:"category"`
	Subcategory string         `json:"subcategory"`
	Description string         `json:"description"`
	ImageURL    *string        `json:"image,omitempty"`
}

type UpdateMenuItemInput struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Category    model.Category `json:"category"`
	Subcategory string         `json:"subcategory"`
	Description string         `json:"description"`
	ImageURL    *string        `json:"image,omitempty"`
	Available   bool           `json:"available"`
}
