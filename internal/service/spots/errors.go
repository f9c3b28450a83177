package spots

import "errors"

var (
	ErrLotInitialized  = errors.New("lot is already initialized")
	ErrInvalidLayout   = errors.New("invalid lot layout")
	ErrSpotNotFound    = errors.New("spot not found")
	ErrSpotOccupied    = errors.New("spot already occupied")
	ErrNoSpotAvailable = errors.New("no spot of requested type available")
)
