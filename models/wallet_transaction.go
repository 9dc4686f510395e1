package models

import "time"

// WalletTransaction type
const (
	TransactionTypeTopUp   = "topup"
	TransactionTypePayment = "payment"
	TransactionTypeRefund  = "refund"
)

// WalletTransaction status. Settlement and refund records are created
// directly in success; top-ups start pending until the gateway callback
// confirms them.
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
	TransactionStatusExpired = "expired"
)

// WalletTransaction is the ledger record of a single wallet mutation.
// Once a record reaches a terminal status it is never mutated again.
type WalletTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AccountID        uint      `gorm:"not null;index" json:"account_id"`
	Account          Account   `gorm:"foreignKey:AccountID" json:"-"`
	OrderID          *uint     `gorm:"index" json:"order_id,omitempty"`
	Order            *Order    `gorm:"foreignKey:OrderID" json:"-"`
	Type             string    `gorm:"type:varchar(20);not null" json:"type"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Amount           float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	ResultingBalance float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"resulting_balance"`
	Method           string    `gorm:"type:varchar(30)" json:"method,omitempty"`
	Phone            string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	ReferenceID      string    `gorm:"type:varchar(64);uniqueIndex" json:"reference_id"`
	Description      string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}
