package services

import "errors"

// Caller-visible errors. Controllers map these onto HTTP status codes;
// anything not listed here is treated as an internal error.
var (
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidOrderType    = errors.New("order type must be delivery, drive_thru or dine_in")
	ErrInvalidAddress      = errors.New("delivery address is required for delivery orders")
	ErrInvalidQuantity     = errors.New("item quantity must be positive")
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("product variant not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAlreadySettled      = errors.New("order has already been settled")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidCode         = errors.New("payment code is not valid")
	ErrExpiredCode         = errors.New("payment code has expired")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account is not active")
	ErrInvalidTransition   = errors.New("illegal order status transition")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderNotPaid        = errors.New("order is not in paid state")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCheckInWindow       = errors.New("check-in is only allowed within 2 hours of the reservation time")
	ErrAlreadyCheckedIn    = errors.New("reservation is already checked in")
	ErrAlreadyCanceled     = errors.New("reservation is already canceled")
	ErrCannotCancel        = errors.New("reservation can no longer be canceled")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
)
