package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount cannot be parsed as a decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount is returned for amounts below zero where prices are expected.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)
