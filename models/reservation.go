package models

import "time"

// Reservation status
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCompleted = "completed"
	ReservationStatusCanceled  = "canceled"
)

// Reservation is a table booking. Date is stored as "2006-01-02" and
// StartTime as "15:04" local time. CheckIn only ever moves false -> true,
// and never on a canceled reservation.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AccountID       uint      `gorm:"not null;index" json:"account_id"`
	Account         Account   `gorm:"foreignKey:AccountID" json:"-"`
	Date            string    `gorm:"type:varchar(10);not null" json:"date"`
	StartTime       string    `gorm:"type:varchar(5);not null" json:"start_time"`
	GuestsCount     int       `gorm:"not null" json:"guests_count"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CheckIn         bool      `gorm:"not null;default:false" json:"check_in"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// StartsAt combines Date and StartTime into a time.Time in the local zone.
func (r *Reservation) StartsAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.StartTime, time.Local)
}
