package services

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

// openTestDB opens a named in-memory database. Each test file uses its
// own name so seeded rows do not leak between tests.
func openTestDB(name string) *gorm.DB {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Account{},
		&models.ProductCategory{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.WalletTransaction{},
		&models.PaymentCode{},
		&models.Reservation{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func seedAccount(db *gorm.DB, balance float64) *models.Account {
	account := models.Account{
		Name:          "Test Customer",
		Email:         "customer@example.com",
		Password:      "hashed",
		Role:          "customer",
		WalletBalance: balance,
		Status:        models.AccountStatusActive,
	}
	if err := db.Create(&account).Error; err != nil {
		panic(err)
	}
	return &account
}

// seedCatalog creates a latte at 3.50 with a Large (+1.00) variant and a
// croissant at 2.25.
func seedCatalog(db *gorm.DB) (latte models.Product, large models.ProductVariant, croissant models.Product) {
	category := models.ProductCategory{Name: "Coffee"}
	if err := db.Create(&category).Error; err != nil {
		panic(err)
	}
	latte = models.Product{CategoryID: category.ID, Name: "Caffe Latte", Price: 3.50, Available: true}
	if err := db.Create(&latte).Error; err != nil {
		panic(err)
	}
	large = models.ProductVariant{ProductID: latte.ID, Name: "Large", PriceAdjustment: 1.00}
	if err := db.Create(&large).Error; err != nil {
		panic(err)
	}
	croissant = models.Product{CategoryID: category.ID, Name: "Butter Croissant", Price: 2.25, Available: true}
	if err := db.Create(&croissant).Error; err != nil {
		panic(err)
	}
	return latte, large, croissant
}

func seedPaymentCode(db *gorm.DB, accountID uint, expiresAt time.Time) *models.PaymentCode {
	code := models.PaymentCode{
		AccountID: accountID,
		Code:      newCode(),
		Status:    models.PaymentCodeStatusActive,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&code).Error; err != nil {
		panic(err)
	}
	return &code
}
