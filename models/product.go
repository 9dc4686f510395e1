package models

import "time"

type ProductCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	Category    ProductCategory  `gorm:"foreignKey:CategoryID" json:"category"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Price       float64          `gorm:"type:decimal(10,2);not null" json:"price"`
	// No column default: a default:true tag would make GORM drop an
	// explicit false on insert, so unavailable products would reappear.
	Available   bool             `gorm:"not null" json:"available"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
}

// ProductVariant is a size or preparation option (e.g. "Large", "Oat milk").
// PriceAdjustment is added to the product base price.
type ProductVariant struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       uint      `gorm:"not null;index" json:"product_id"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	PriceAdjustment float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price_adjustment"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// UnitPrice returns the effective price of the product with an optional
// variant applied.
func (p *Product) UnitPrice(variant *ProductVariant) float64 {
	if variant == nil {
		return p.Price
	}
	return p.Price + variant.PriceAdjustment
}
