package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/coffee-order-app/models"
)

// CheckInWindow is how far on either side of the reservation start time
// a check-in is accepted.
const CheckInWindow = 120 * time.Minute

// ReservationService owns the table booking lifecycle. Check-in and
// cancel on the same reservation are serialized by a row lock so a
// canceled booking can never end up checked in.
type ReservationService struct {
	db *gorm.DB

	// now is swappable in tests.
	now func() time.Time
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, now: time.Now}
}

type CreateReservationInput struct {
	AccountID       uint
	Date            string
	StartTime       string
	GuestsCount     int
	SpecialRequests string
}

var (
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime   = errors.New("start_time must be in HH:MM format")
	ErrInvalidGuests = errors.New("guests_count must be positive")
	ErrPastDate      = errors.New("reservation date must not be in the past")
)

// Create books a table. New reservations start confirmed, not checked in.
func (s *ReservationService) Create(input CreateReservationInput) (*models.Reservation, error) {
	if input.GuestsCount <= 0 {
		return nil, ErrInvalidGuests
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return nil, ErrInvalidTime
	}
	if date.Before(s.today()) {
		return nil, ErrPastDate
	}

	reservation := models.Reservation{
		AccountID:       input.AccountID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		GuestsCount:     input.GuestsCount,
		SpecialRequests: input.SpecialRequests,
		Status:          models.ReservationStatusConfirmed,
		CheckIn:         false,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}
	if err := s.db.Create(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CheckIn marks the guest as arrived. Permitted only within the
// [-120, +120] minute window around the start time, on a booking that is
// neither canceled nor already checked in. On success the reservation is
// completed.
func (s *ReservationService) CheckIn(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&reservation, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}

		if reservation.Status == models.ReservationStatusCanceled {
			return ErrAlreadyCanceled
		}
		if reservation.CheckIn {
			return ErrAlreadyCheckedIn
		}

		startsAt, err := reservation.StartsAt()
		if err != nil {
			return err
		}
		now := s.now()
		if now.Before(startsAt.Add(-CheckInWindow)) || now.After(startsAt.Add(CheckInWindow)) {
			return ErrCheckInWindow
		}

		reservation.CheckIn = true
		reservation.Status = models.ReservationStatusCompleted
		reservation.UpdatedAt = now
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel voids a reservation. Permitted only while it is not yet
// canceled and its date has not passed.
func (s *ReservationService) Cancel(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&reservation, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}

		if reservation.Status == models.ReservationStatusCanceled {
			return ErrAlreadyCanceled
		}
		date, err := time.ParseInLocation("2006-01-02", reservation.Date, time.Local)
		if err != nil {
			return err
		}
		if date.Before(s.today()) {
			return ErrCannotCancel
		}

		reservation.Status = models.ReservationStatusCanceled
		reservation.UpdatedAt = s.now()
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Get returns a reservation by ID.
func (s *ReservationService) Get(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.First(&reservation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListByAccount returns the bookings of one account, newest first.
func (s *ReservationService) ListByAccount(accountID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.Where("account_id = ?", accountID).
		Order("date desc, start_time desc").
		Find(&reservations).Error
	return reservations, err
}

func (s *ReservationService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}
