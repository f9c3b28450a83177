package gate

import "errors"

var (
	ErrInvalidPlate       = errors.New("invalid plate")
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrVehicleBarred      = errors.New("vehicle barred by outstanding fine")
	ErrLotFull            = errors.New("no compatible spot available")
	ErrNoActiveTicket     = errors.New("no active ticket for plate")
	ErrInsufficientCash   = errors.New("cash tendered does not cover total due")
	ErrRateLimited        = errors.New("rate limited")
)
