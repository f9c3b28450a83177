package fines

import "errors"

var (
	ErrAlreadyBarred = errors.New("plate already has an outstanding fine")
	ErrInvalidPlate  = errors.New("invalid plate")
	ErrInvalidHours  = errors.New("overstay hours must not be negative")
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrEmptyReason   = errors.New("fine reason required")
)
