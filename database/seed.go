package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

// Seed inserts a starter menu when the catalog is empty so a fresh
// install has something to order.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	coffee := models.ProductCategory{Name: "Coffee"}
	nonCoffee := models.ProductCategory{Name: "Non-Coffee"}
	pastry := models.ProductCategory{Name: "Pastry"}
	for _, category := range []*models.ProductCategory{&coffee, &nonCoffee, &pastry} {
		if err := db.Create(category).Error; err != nil {
			return err
		}
	}

	sizeVariants := func() []models.ProductVariant {
		return []models.ProductVariant{
			{Name: "Small", PriceAdjustment: 0},
			{Name: "Medium", PriceAdjustment: 0.50},
			{Name: "Large", PriceAdjustment: 1.00},
		}
	}

	products := []models.Product{
		{CategoryID: coffee.ID, Name: "Espresso", Price: 2.25, Available: true, Variants: sizeVariants()},
		{CategoryID: coffee.ID, Name: "Americano", Price: 2.75, Available: true, Variants: sizeVariants()},
		{CategoryID: coffee.ID, Name: "Cappuccino", Price: 3.50, Available: true, Variants: sizeVariants()},
		{CategoryID: coffee.ID, Name: "Caffe Latte", Price: 3.75, Available: true, Variants: sizeVariants()},
		{CategoryID: nonCoffee.ID, Name: "Matcha Latte", Price: 4.00, Available: true, Variants: sizeVariants()},
		{CategoryID: nonCoffee.ID, Name: "Hot Chocolate", Price: 3.25, Available: true, Variants: sizeVariants()},
		{CategoryID: pastry.ID, Name: "Butter Croissant", Price: 2.50, Available: true},
		{CategoryID: pastry.ID, Name: "Banana Bread", Price: 2.75, Available: true},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	utils.InfoLogger.Printf("Seeded %d products", len(products))
	return nil
}
