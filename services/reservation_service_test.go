package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/coffee-order-app/models"
)

// reservationAt books a table starting at the given offset from now and
// returns a service whose clock is pinned to now.
func reservationAt(dbName string, offset time.Duration) (*ReservationService, *models.Reservation) {
	db := openTestDB(dbName)
	account := seedAccount(db, 0)

	now := time.Now()
	svc := NewReservationService(db)
	svc.now = func() time.Time { return now }

	start := now.Add(offset)
	reservation, err := svc.Create(CreateReservationInput{
		AccountID:   account.ID,
		Date:        start.Format("2006-01-02"),
		StartTime:   start.Format("15:04"),
		GuestsCount: 2,
	})
	if err != nil {
		panic(err)
	}
	return svc, reservation
}

func TestCheckInWithinWindow(t *testing.T) {
	svc, reservation := reservationAt("resv_in_window", 30*time.Minute)

	updated, err := svc.CheckIn(reservation.ID)
	assert.NoError(t, err)
	assert.True(t, updated.CheckIn)
	assert.Equal(t, models.ReservationStatusCompleted, updated.Status)
}

func TestCheckInEarlyArrivalInsideWindow(t *testing.T) {
	// Guest arrives 90 minutes early; still inside the 120-minute window.
	svc, reservation := reservationAt("resv_early", 90*time.Minute)

	updated, err := svc.CheckIn(reservation.ID)
	assert.NoError(t, err)
	assert.True(t, updated.CheckIn)
}

func TestCheckInOutsideWindowRejected(t *testing.T) {
	svc, reservation := reservationAt("resv_too_early", 150*time.Minute)

	_, err := svc.CheckIn(reservation.ID)
	assert.ErrorIs(t, err, ErrCheckInWindow)

	reloaded, getErr := svc.Get(reservation.ID)
	assert.NoError(t, getErr)
	assert.False(t, reloaded.CheckIn)
	assert.Equal(t, models.ReservationStatusConfirmed, reloaded.Status)
}

func TestCheckInTwiceRejected(t *testing.T) {
	svc, reservation := reservationAt("resv_twice", 10*time.Minute)

	_, err := svc.CheckIn(reservation.ID)
	assert.NoError(t, err)
	_, err = svc.CheckIn(reservation.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckInAfterCancelRejected(t *testing.T) {
	svc, reservation := reservationAt("resv_cancel_checkin", 10*time.Minute)

	_, err := svc.Cancel(reservation.ID)
	assert.NoError(t, err)

	_, err = svc.CheckIn(reservation.ID)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)

	reloaded, getErr := svc.Get(reservation.ID)
	assert.NoError(t, getErr)
	assert.False(t, reloaded.CheckIn)
	assert.Equal(t, models.ReservationStatusCanceled, reloaded.Status)
}

func TestCancelTwiceRejected(t *testing.T) {
	svc, reservation := reservationAt("resv_cancel_twice", 10*time.Minute)

	_, err := svc.Cancel(reservation.ID)
	assert.NoError(t, err)
	_, err = svc.Cancel(reservation.ID)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)
}

func TestCancelPastReservationRejected(t *testing.T) {
	svc, reservation := reservationAt("resv_cancel_past", 10*time.Minute)

	// Move the clock two days forward; the booking date has passed.
	base := svc.now()
	svc.now = func() time.Time { return base.Add(48 * time.Hour) }

	_, err := svc.Cancel(reservation.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCreateReservationValidation(t *testing.T) {
	db := openTestDB("resv_validation")
	account := seedAccount(db, 0)
	svc := NewReservationService(db)

	_, err := svc.Create(CreateReservationInput{AccountID: account.ID, Date: "2026-09-01", StartTime: "18:00", GuestsCount: 0})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = svc.Create(CreateReservationInput{AccountID: account.ID, Date: "01/09/2026", StartTime: "18:00", GuestsCount: 2})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Create(CreateReservationInput{AccountID: account.ID, Date: "2099-09-01", StartTime: "6pm", GuestsCount: 2})
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.Create(CreateReservationInput{AccountID: account.ID, Date: "2020-01-01", StartTime: "18:00", GuestsCount: 2})
	assert.ErrorIs(t, err, ErrPastDate)
}
