package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/karpale/parkgate/internal/domain"
)

type VehicleLogRepo struct {
	db DB
}

func (r *VehicleLogRepo) Append(ctx context.Context, l *domain.VehicleLog) error {
	const op = "postgres.VehicleLogRepo.Append"

	_, err := r.db.Exec(ctx,
		`INSERT INTO vehicle_logs (ticket_id, plate, spot_id, vehicle_type, entry_at, exit_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.TicketID, l.Plate, l.SpotID, l.VehicleType, l.EntryAt, l.ExitAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return nil
}

// StampExit sets the exit time on an episode's row; the entry side is never
// touched again. Returns false when the ticket ID has no row.
func (r *VehicleLogRepo) StampExit(ctx context.Context, ticketID string, exitAt time.Time) (bool, error) {
	const op = "postgres.VehicleLogRepo.StampExit"

	tag, err := r.db.Exec(ctx,
		`UPDATE vehicle_logs SET exit_at = $2 WHERE ticket_id = $1`,
		ticketID, exitAt,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r *VehicleLogRepo) GetByTicketID(ctx context.Context, ticketID string) (*domain.VehicleLog, error) {
	const op = "postgres.VehicleLogRepo.GetByTicketID"

	var l domain.VehicleLog
	err := r.db.QueryRow(ctx,
		`SELECT ticket_id, plate, spot_id, vehicle_type, entry_at, exit_at
		 FROM vehicle_logs WHERE ticket_id = $1`,
		ticketID,
	).Scan(&l.TicketID, &l.Plate, &l.SpotID, &l.VehicleType, &l.EntryAt, &l.ExitAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &l, nil
}

func (r *VehicleLogRepo) ListActive(ctx context.Context) ([]domain.VehicleLog, error) {
	const op = "postgres.VehicleLogRepo.ListActive"

	return r.list(ctx, op,
		`SELECT ticket_id, plate, spot_id, vehicle_type, entry_at, exit_at
		 FROM vehicle_logs WHERE exit_at IS NULL ORDER BY entry_at DESC`,
	)
}

func (r *VehicleLogRepo) List(ctx context.Context) ([]domain.VehicleLog, error) {
	const op = "postgres.VehicleLogRepo.List"

	return r.list(ctx, op,
		`SELECT ticket_id, plate, spot_id, vehicle_type, entry_at, exit_at
		 FROM vehicle_logs ORDER BY entry_at DESC`,
	)
}

func (r *VehicleLogRepo) list(ctx context.Context, op, q string) ([]domain.VehicleLog, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	defer rows.Close()

	var out []domain.VehicleLog
	for rows.Next() {
		var l domain.VehicleLog
		if err := rows.Scan(&l.TicketID, &l.Plate, &l.SpotID, &l.VehicleType, &l.EntryAt, &l.ExitAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return out, nil
}
