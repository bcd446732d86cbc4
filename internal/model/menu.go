package model

import "time"

type Category string

const (
	CategoryFood     Category = "food"
	CategoryBeverage Category = "beverage"
)

type MenuItem struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Price       float64  `db:"price" json:"price"`
	Category    Category `db:"category" json:"category"`
	Subcategory string   `db:"subcategory" json:"subcategory"`
	Description string   `db:"description" json:"description"`
	ImageURL    *string  `db:"image_url" json:"image,omitempty"` // Nullable
	Available   bool     `db:"available" json:"available"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
