package tickets

import "errors"

var (
	ErrNoActiveTicket = errors.New("no active ticket for plate")
	ErrInvalidPlate   = errors.New("invalid plate")
)
