package repository

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrSpotOccupied   = errors.New("spot already occupied")
	ErrNotEmpty       = errors.New("registry not empty")
	ErrNoActiveTicket = errors.New("no active ticket")
)
