package models

import "time"

// PaymentCode status
const (
	PaymentCodeStatusActive  = "active"
	PaymentCodeStatusUsed    = "used"
	PaymentCodeStatusExpired = "expired"
)

// PaymentCode is a short-lived opaque token that authorizes an in-person
// settlement. The code is shown to the barista (or embedded next to the
// order QR) and expires five minutes after issuance.
type PaymentCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AccountID uint       `gorm:"not null;index" json:"account_id"`
	Account   Account    `gorm:"foreignKey:AccountID" json:"-"`
	Code      string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`
	Status    string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

// IsExpired reports whether the code is past its expiry at the given time.
func (p *PaymentCode) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
