package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the persisted catalog row.
type Product struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	ImageURL    string          `gorm:"column:image_url;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Product) TableName() string {
	return "products"
}

// ProductDTO is the wire shape served to the storefront. Prices cross the
// boundary as plain numbers rounded to 2 decimals.
type ProductDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// DTO maps the row to its wire shape.
func (p Product) DTO() ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.Round(2).InexactFloat64(),
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}
