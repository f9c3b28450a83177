package repository

import (
	"context"
	"time"

	"github.com/karpale/parkgate/internal/domain"
)

// SpotFilter narrows List results. Zero value means no filtering.
type SpotFilter struct {
	Type     domain.SpotType
	OnlyFree bool
}

type Spots interface {
	// BulkCreate inserts the full lot layout. ErrNotEmpty when spots already exist.
	BulkCreate(ctx context.Context, spots []domain.ParkingSpot) error
	Get(ctx context.Context, spotID string) (*domain.ParkingSpot, error)
	List(ctx context.Context, filter SpotFilter) ([]domain.ParkingSpot, error)
	// FirstAvailable returns the first free spot of the given type in
	// floor/row/slot order. ErrNotFound when none is free.
	FirstAvailable(ctx context.Context, t domain.SpotType) (*domain.ParkingSpot, error)
	// SetOccupied marks a spot taken by plate. ErrSpotOccupied when taken,
	// ErrNotFound when the ID is unknown.
	SetOccupied(ctx context.Context, spotID, plate string) error
	// SetFree clears occupancy. Freeing a free spot is a no-op.
	SetFree(ctx context.Context, spotID string) error
	CountsByType(ctx context.Context) ([]domain.SpotTypeCount, error)
}

type Tickets interface {
	// Create persists a new active ticket. ErrConflict when the plate
	// already has one.
	Create(ctx context.Context, t *domain.Ticket) error
	// GetActiveByPlate returns ErrNoActiveTicket when the vehicle is not inside.
	GetActiveByPlate(ctx context.Context, plate string) (*domain.Ticket, error)
	// Delete removes the active ticket for plate; false when none existed.
	Delete(ctx context.Context, plate string) (bool, error)
}

type Fines interface {
	Create(ctx context.Context, f *domain.Fine) error
	// GetByPlate returns the most recently issued fine for plate with the
	// given paid status, or ErrNotFound.
	GetByPlate(ctx context.Context, plate string, paid bool) (*domain.Fine, error)
	// MarkPaid flips a fine to paid with method and timestamp.
	MarkPaid(ctx context.Context, fineID string, method domain.PaymentMethod, paidAt time.Time) error
	// Delete permanently removes a fine; false when the ID is unknown.
	Delete(ctx context.Context, fineID string) (bool, error)
	ListUnpaid(ctx context.Context) ([]domain.Fine, error)
	// ListByPlate returns the full fine history, most recent first.
	ListByPlate(ctx context.Context, plate string) ([]domain.Fine, error)
	// RevenueByDatePrefix sums paid fines whose payment date starts with
	// prefix ("2026-02" matches the whole month).
	RevenueByDatePrefix(ctx context.Context, prefix string) (*domain.RevenueSummary, error)
}

type VehicleLogs interface {
	// Append writes the entry-side row for a new episode (ExitAt nil).
	Append(ctx context.Context, l *domain.VehicleLog) error
	// StampExit sets the exit time on the episode's row; false when the
	// ticket ID has no row.
	StampExit(ctx context.Context, ticketID string, exitAt time.Time) (bool, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.VehicleLog, error)
	// ListActive returns rows with no exit time, i.e. vehicles inside.
	ListActive(ctx context.Context) ([]domain.VehicleLog, error)
	List(ctx context.Context) ([]domain.VehicleLog, error)
}

// Store is the storage collaborator the services depend on. RunTx executes
// fn against a transactional view of the store; mutations are atomic.
type Store interface {
	Spots() Spots
	Tickets() Tickets
	Fines() Fines
	VehicleLogs() VehicleLogs
	RunTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
