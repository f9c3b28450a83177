package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
)

type TicketRepo struct {
	db DB
}

// Create persists a new active ticket.
//
// Returns:
//   - error: repository.ErrConflict if the plate already has an active ticket.
func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.Create"

	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets (ticket_id, plate, spot_id, vehicle_type, entry_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.TicketID, t.Plate, t.SpotID, t.VehicleType, t.EntryAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return nil
}

// GetActiveByPlate returns the active ticket for plate.
//
// Returns:
//   - error: repository.ErrNoActiveTicket when the vehicle is not inside.
func (r *TicketRepo) GetActiveByPlate(ctx context.Context, plate string) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.GetActiveByPlate"

	var t domain.Ticket
	err := r.db.QueryRow(ctx,
		`SELECT ticket_id, plate, spot_id, vehicle_type, entry_at
		 FROM tickets WHERE plate = $1`,
		plate,
	).Scan(&t.TicketID, &t.Plate, &t.SpotID, &t.VehicleType, &t.EntryAt)
	if err != nil {
		if errors.Is(translateDBErr(err), repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, repository.ErrNoActiveTicket)
		}
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &t, nil
}

// Delete removes the active ticket for plate; false when none existed.
func (r *TicketRepo) Delete(ctx context.Context, plate string) (bool, error) {
	const op = "postgres.TicketRepo.Delete"

	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE plate = $1`, plate)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return tag.RowsAffected() > 0, nil
}
