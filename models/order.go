package models

import "time"

// Order type (fulfillment channel)
const (
	OrderTypeDelivery  = "delivery"
	OrderTypeDriveThru = "drive_thru"
	OrderTypeDineIn    = "dine_in"
)

// Order status (operational progress)
const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// Order state (settlement progress)
const (
	OrderStateOngoing  = "ongoing"
	OrderStatePaid     = "paid"
	OrderStateClosed   = "closed"
	OrderStateRefunded = "refunded"
	OrderStateFailed   = "failed"
)

// statusTransitions enumerates the legal operational transitions.
// Cancellation is handled separately: it is legal from any non-terminal
// status.
var statusTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusPreparing},
	OrderStatusPreparing:      {OrderStatusReady},
	OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCompleted},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {OrderStatusCompleted},
}

// IsTerminalStatus reports whether no further operational transition is
// allowed from the given status.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// CanTransitionStatus reports whether the operational status may move
// from -> to.
func CanTransitionStatus(from, to string) bool {
	if to == OrderStatusCancelled {
		return !IsTerminalStatus(from)
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a cart-derived purchase. Items are snapshotted at creation
// and never mutated afterwards; TotalAmount equals the recomputed sum of
// the items (plus delivery fee, minus discount) at creation time. The
// settlement transaction is the only writer of State ongoing -> paid.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Ref             string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"ref"`
	AccountID       uint        `gorm:"not null;index" json:"account_id"`
	Account         Account     `gorm:"foreignKey:AccountID" json:"-"`
	Type            string      `gorm:"type:varchar(20);not null" json:"type"`
	PaymentMethod   string      `gorm:"type:varchar(20);not null;default:'wallet'" json:"payment_method"`
	Terminal        string      `gorm:"type:varchar(20);not null;default:'app'" json:"terminal"`
	TableID         *uint       `gorm:"index" json:"table_id,omitempty"`
	DeliveryAddress string      `gorm:"type:text" json:"delivery_address,omitempty"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"delivery_fee"`
	Discount        float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	State           string      `gorm:"type:varchar(20);not null;default:'ongoing'" json:"state"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}
