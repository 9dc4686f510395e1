package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/utils"
)

// setupTestDB opens a named in-memory database and migrates every model.
func setupTestDB(name string) *gorm.DB {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:ctrl_"+name+"?mode=memory&cache=shared"), &gorm.Config{
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

// authAs stands in for the JWT middleware in handler tests.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func seedCustomer(db *gorm.DB, balance float64) *models.Account {
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

func seedMenu(db *gorm.DB) (models.Product, models.ProductVariant) {
	category := models.ProductCategory{Name: "Coffee"}
	if err := db.Create(&category).Error; err != nil {
		panic(err)
	}
	latte := models.Product{CategoryID: category.ID, Name: "Caffe Latte", Price: 3.50, Available: true}
	if err := db.Create(&latte).Error; err != nil {
		panic(err)
	}
	large := models.ProductVariant{ProductID: latte.ID, Name: "Large", PriceAdjustment: 1.00}
	if err := db.Create(&large).Error; err != nil {
		panic(err)
	}
	return latte, large
}

// doJSON performs a JSON request against the router and decodes the
// standard response envelope.
func doJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}
