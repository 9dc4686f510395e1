package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/controllers"
	"github.com/yeremiapane/coffee-order-app/services"
)

func setupCartRouter(db *gorm.DB, userID uint) *gin.Engine {
	wallet := services.NewWalletService(db)
	orders := services.NewOrderService(db, wallet)
	carts := services.NewCartService(db)

	router := gin.New()
	router.Use(authAs(userID, "customer"))
	cartCtrl := controllers.NewCartController(carts, orders)
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/cart/items", cartCtrl.AddItem)
	router.DELETE("/cart/items", cartCtrl.RemoveItem)
	router.POST("/cart/checkout", cartCtrl.Checkout)
	return router
}

func TestCartAddMergeAndCheckout(t *testing.T) {
	db := setupTestDB("cart")
	account := seedCustomer(db, 100.00)
	latte, large := seedMenu(db)
	router := setupCartRouter(db, account.ID)

	code, _ := doJSON(t, router, "POST", "/cart/items", map[string]interface{}{
		"product_id": latte.ID,
		"variant_id": large.ID,
		"quantity":   2,
	})
	assert.Equal(t, http.StatusOK, code)

	// Same line again merges instead of duplicating.
	code, resp := doJSON(t, router, "POST", "/cart/items", map[string]interface{}{
		"product_id": latte.ID,
		"variant_id": large.ID,
		"quantity":   3,
	})
	assert.Equal(t, http.StatusOK, code)
	lines := resp["data"].(map[string]interface{})["lines"].([]interface{})
	assert.Len(t, lines, 1)
	assert.Equal(t, float64(5), lines[0].(map[string]interface{})["quantity"].(float64))

	code, resp = doJSON(t, router, "POST", "/cart/checkout", map[string]interface{}{
		"type": "dine_in",
	})
	assert.Equal(t, http.StatusCreated, code)
	order := resp["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.InDelta(t, 22.50, order["total_amount"].(float64), 0.001)

	// The cart is empty after checkout.
	code, resp = doJSON(t, router, "GET", "/cart", nil)
	assert.Equal(t, http.StatusOK, code)
	cart := resp["data"].(map[string]interface{})
	assert.Empty(t, cart["lines"])
}

func TestCartCheckoutEmptyRejected(t *testing.T) {
	db := setupTestDB("cart_empty")
	account := seedCustomer(db, 100.00)
	router := setupCartRouter(db, account.ID)

	code, _ := doJSON(t, router, "POST", "/cart/checkout", map[string]interface{}{
		"type": "dine_in",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCartRemoveItem(t *testing.T) {
	db := setupTestDB("cart_remove")
	account := seedCustomer(db, 100.00)
	latte, _ := seedMenu(db)
	router := setupCartRouter(db, account.ID)

	code, _ := doJSON(t, router, "POST", "/cart/items", map[string]interface{}{
		"product_id": latte.ID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, router, "DELETE", "/cart/items", map[string]interface{}{
		"product_id": latte.ID,
	})
	assert.Equal(t, http.StatusOK, code)
	// Removing the last line leaves an empty slice, which marshals as [].
	assert.Empty(t, resp["data"].(map[string]interface{})["lines"])
}
