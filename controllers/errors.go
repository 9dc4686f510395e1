package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffee-order-app/services"
	"github.com/yeremiapane/coffee-order-app/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unknown is an internal error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrVariantNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		utils.RespondError(c, http.StatusNotFound, err)

	case errors.Is(err, services.ErrAlreadySettled),
		errors.Is(err, services.ErrAlreadyCanceled),
		errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrOrderNotCancellable),
		errors.Is(err, services.ErrOrderNotPaid),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)

	case errors.Is(err, services.ErrInsufficientFunds):
		utils.RespondError(c, http.StatusPaymentRequired, err)

	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidCode),
		errors.Is(err, services.ErrExpiredCode),
		errors.Is(err, services.ErrCheckInWindow),
		errors.Is(err, services.ErrCannotCancel),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidGuests),
		errors.Is(err, services.ErrPastDate):
		utils.RespondError(c, http.StatusBadRequest, err)

	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// currentUserID reads the account ID the auth middleware stored.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// isStaff reports whether the request comes from a staff or admin token.
func isStaff(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "staff" || role == "admin"
}
