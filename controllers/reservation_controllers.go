package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/coffee-order-app/models"
	"github.com/yeremiapane/coffee-order-app/realtime"
	"github.com/yeremiapane/coffee-order-app/services"
	"github.com/yeremiapane/coffee-order-app/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// CreateReservation -> book a table
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req struct {
		Date            string `json:"date" binding:"required"`
		StartTime       string `json:"start_time" binding:"required"`
		GuestsCount     int    `json:"guests_count" binding:"required"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(services.CreateReservationInput{
		AccountID:       userID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		GuestsCount:     req.GuestsCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastReservationUpdate(*reservation)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetMyReservations -> the caller's bookings
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	reservations, err := rc.Reservations.ListByAccount(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// CheckIn -> guest has arrived, only within the check-in window
func (rc *ReservationController) CheckIn(c *gin.Context) {
	reservation, err := rc.loadOwned(c)
	if err != nil {
		return
	}

	updated, err := rc.Reservations.CheckIn(reservation.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastReservationUpdate(*updated)
	utils.RespondJSON(c, http.StatusOK, "Checked in", updated)
}

// CancelReservation
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, err := rc.loadOwned(c)
	if err != nil {
		return
	}

	updated, err := rc.Reservations.Cancel(reservation.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	realtime.BroadcastReservationUpdate(*updated)
	utils.RespondJSON(c, http.StatusOK, "Reservation canceled", updated)
}

// loadOwned resolves :reservation_id and checks ownership. It writes the
// error response itself and returns a non-nil error to stop the handler.
func (rc *ReservationController) loadOwned(c *gin.Context) (*models.Reservation, error) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return nil, errors.New("unauthorized")
	}

	id, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation_id"))
		return nil, err
	}

	reservation, err := rc.Reservations.Get(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return nil, err
	}
	if reservation.AccountID != userID && !isStaff(c) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return nil, ErrNoPermission
	}
	return reservation, nil
}
