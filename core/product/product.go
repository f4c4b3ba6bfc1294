package product

import (
	"time"
)

// Product is the authoritative catalog row. Price and stock are owned by the
// store; client-side copies of them are display-only.
type Product struct {
	ID          string    `json:"id" db:"product_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Price       int       `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductNew holds the fields the catalog owner provides when adding or
// replacing a row. The store assigns the id and timestamps itself.
type ProductNew struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int    `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

// Product builds the authoritative catalog row from the provided fields.
func (np ProductNew) Product(id string, now time.Time) Product {
	return Product{
		ID:          id,
		Name:        np.Name,
		Description: np.Description,
		ImageURL:    np.ImageURL,
		Price:       np.Price,
		Stock:       np.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
