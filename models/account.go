package models

import "time"

// Account status
const (
	AccountStatusActive  = "active"
	AccountStatusBlocked = "blocked"
)

// Account is a registered app user together with their wallet and
// loyalty balances. WalletBalance must never go negative; every debit
// goes through services.WalletService which enforces that.
type Account struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Email         string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password      string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone"`
	Role          string    `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	WalletBalance float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"wallet_balance"`
	LoyaltyPoints int       `gorm:"not null;default:0" json:"loyalty_points"`
	Status        string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
