package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffee-order-app/realtime"
	"github.com/yeremiapane/coffee-order-app/services"
	"github.com/yeremiapane/coffee-order-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder -> place an order directly from an item list (the cart
// checkout endpoint is the other way in).
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		Type            string                    `json:"type" binding:"required"`
		PaymentMethod   string                    `json:"payment_method"`
		Terminal        string                    `json:"terminal"`
		TableID         *uint                     `json:"table_id"`
		DeliveryAddress string                    `json:"delivery_address"`
		Items           []services.OrderItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(services.CreateOrderInput{
		AccountID:       userID,
		Type:            req.Type,
		PaymentMethod:   req.PaymentMethod,
		Terminal:        req.Terminal,
		TableID:         req.TableID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           req.Items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{"order": order})
}

// GetOrderByRef -> detail of one order; customers only see their own.
func (oc *OrderController) GetOrderByRef(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	order, err := oc.Orders.GetByRef(c.Param("order_ref"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if order.AccountID != userID && !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{"order": order})
}

// GetMyOrders -> the caller's order history
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	orders, err := oc.Orders.ListByAccount(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CancelOrder -> customer cancels an unpaid order
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	order, err := oc.Orders.Cancel(c.Param("order_ref"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{"order": order})
}

// SettleOrder -> barista terminal scans the order QR and enters the
// customer's payment code. Staff only.
func (oc *OrderController) SettleOrder(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		PaymentCode string `json:"payment_code" binding:"required"`
		OrderRef    string `json:"order_ref" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, txn, err := oc.Orders.Settle(req.PaymentCode, req.OrderRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	realtime.BroadcastWalletUpdate(*txn)
	realtime.BroadcastStaffNotification(fmt.Sprintf("Order %s paid, start preparing", order.Ref))

	utils.RespondJSON(c, http.StatusOK, "Order settled", gin.H{
		"order":       order,
		"transaction": txn,
	})
}

// UpdateOrderStatus -> staff move an order along the board
// (preparing -> ready -> out_for_delivery -> delivered/completed).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order_id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.AdvanceStatus(uint(orderID), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order updated", gin.H{"order": order})
}

// RefundOrder -> staff return a paid order's amount to the wallet
func (oc *OrderController) RefundOrder(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order_id"))
		return
	}

	order, txn, err := oc.Orders.Refund(uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	realtime.BroadcastWalletUpdate(*txn)
	utils.RespondJSON(c, http.StatusOK, "Order refunded", gin.H{
		"order":       order,
		"transaction": txn,
	})
}

// FailOrder -> staff close a paid order without returning the amount
// (disputed or otherwise unrecoverable payments).
func (oc *OrderController) FailOrder(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order_id"))
		return
	}

	order, err := oc.Orders.MarkFailed(uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order marked failed", gin.H{"order": order})
}

// GetActiveOrders -> the barista board: paid orders being worked on
func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	if !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	orders, err := oc.Orders.ListActive()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}
