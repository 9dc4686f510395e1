package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffee-order-app/realtime"
	"github.com/yeremiapane/coffee-order-app/services"
	"github.com/yeremiapane/coffee-order-app/utils"
)

type CartController struct {
	Carts  *services.CartService
	Orders *services.OrderService
}

func NewCartController(carts *services.CartService, orders *services.OrderService) *CartController {
	return &CartController{Carts: carts, Orders: orders}
}

// GetCart -> the caller's session cart
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cc.Carts.Get(userID))
}

// AddItem -> merge a line into the cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		ProductID uint  `json:"product_id" binding:"required"`
		VariantID *uint `json:"variant_id"`
		Quantity  int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart, err := cc.Carts.AddItem(userID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added", cart)
}

// RemoveItem -> drop a line from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		ProductID uint  `json:"product_id" binding:"required"`
		VariantID *uint `json:"variant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cart := cc.Carts.RemoveItem(userID, req.ProductID, req.VariantID)
	utils.RespondJSON(c, http.StatusOK, "Item removed", cart)
}

// Checkout -> turn the cart into a pending order and clear it
func (cc *CartController) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		Type            string `json:"type" binding:"required"`
		PaymentMethod   string `json:"payment_method"`
		Terminal        string `json:"terminal"`
		TableID         *uint  `json:"table_id"`
		DeliveryAddress string `json:"delivery_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := cc.Carts.CheckoutItems(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	order, err := cc.Orders.CreateOrder(services.CreateOrderInput{
		AccountID:       userID,
		Type:            req.Type,
		PaymentMethod:   req.PaymentMethod,
		Terminal:        req.Terminal,
		TableID:         req.TableID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cc.Carts.Clear(userID)
	realtime.BroadcastOrderUpdate(*order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{"order": order})
}
