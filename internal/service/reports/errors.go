package reports

import "errors"

var (
	ErrInvalidDateFilter = errors.New("date filter must be YYYY, YYYY-MM or YYYY-MM-DD")
	ErrInvalidPlate      = errors.New("invalid plate")
)
