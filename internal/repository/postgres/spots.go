package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
)

type SpotRepo struct {
	db DB
}

// BulkCreate inserts the whole lot layout in one batch.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - spots: complete list of spots to register.
//
// Returns:
//   - error: repository.ErrNotEmpty if the registry already holds spots.
func (r *SpotRepo) BulkCreate(ctx context.Context, spots []domain.ParkingSpot) error {
	const op = "postgres.SpotRepo.BulkCreate"

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spots`).Scan(&count); err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	if count > 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotEmpty)
	}

	b := &pgx.Batch{}
	for _, s := range spots {
		b.Queue(
			`INSERT INTO spots (spot_id, floor, row_num, slot_num, type, occupied, plate)
			 VALUES ($1, $2, $3, $4, $5, false, NULL)`,
			s.SpotID, s.Floor, s.Row, s.Slot, s.Type,
		)
	}

	br := r.db.SendBatch(ctx, b)
	defer br.Close()

	for range spots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
	}

	return nil
}

func (r *SpotRepo) Get(ctx context.Context, spotID string) (*domain.ParkingSpot, error) {
	const op = "postgres.SpotRepo.Get"

	var s domain.ParkingSpot
	var plate *string
	err := r.db.QueryRow(ctx,
		`SELECT spot_id, floor, row_num, slot_num, type, occupied, plate
		 FROM spots WHERE spot_id = $1`,
		spotID,
	).Scan(&s.SpotID, &s.Floor, &s.Row, &s.Slot, &s.Type, &s.Occupied, &plate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	if plate != nil {
		s.Plate = *plate
	}

	return &s, nil
}

func (r *SpotRepo) List(ctx context.Context, filter repository.SpotFilter) ([]domain.ParkingSpot, error) {
	const op = "postgres.SpotRepo.List"

	q := `SELECT spot_id, floor, row_num, slot_num, type, occupied, plate
	      FROM spots WHERE ($1 = '' OR type = $1) AND (NOT $2 OR NOT occupied)
	      ORDER BY floor, row_num, slot_num`

	rows, err := r.db.Query(ctx, q, string(filter.Type), filter.OnlyFree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	defer rows.Close()

	var out []domain.ParkingSpot
	for rows.Next() {
		var s domain.ParkingSpot
		var plate *string
		if err := rows.Scan(&s.SpotID, &s.Floor, &s.Row, &s.Slot, &s.Type, &s.Occupied, &plate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		if plate != nil {
			s.Plate = *plate
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return out, nil
}

// FirstAvailable returns the first free spot of type t in registration order.
//
// Returns:
//   - *domain.ParkingSpot: the spot when one is free.
//   - error: repository.ErrNotFound when every spot of that type is taken.
func (r *SpotRepo) FirstAvailable(ctx context.Context, t domain.SpotType) (*domain.ParkingSpot, error) {
	const op = "postgres.SpotRepo.FirstAvailable"

	var s domain.ParkingSpot
	err := r.db.QueryRow(ctx,
		`SELECT spot_id, floor, row_num, slot_num, type, occupied
		 FROM spots WHERE type = $1 AND NOT occupied
		 ORDER BY floor, row_num, slot_num
		 LIMIT 1`,
		t,
	).Scan(&s.SpotID, &s.Floor, &s.Row, &s.Slot, &s.Type, &s.Occupied)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &s, nil
}

// SetOccupied marks a spot taken by plate.
//
// Returns:
//   - error: repository.ErrSpotOccupied if the spot is already taken.
//   - error: repository.ErrNotFound if the spot ID is unknown.
func (r *SpotRepo) SetOccupied(ctx context.Context, spotID, plate string) error {
	const op = "postgres.SpotRepo.SetOccupied"

	tag, err := r.db.Exec(ctx,
		`UPDATE spots SET occupied = true, plate = $2
		 WHERE spot_id = $1 AND NOT occupied`,
		spotID, plate,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		var occupied bool
		err := r.db.QueryRow(ctx, `SELECT occupied FROM spots WHERE spot_id = $1`, spotID).Scan(&occupied)
		if err != nil {
			return fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		return fmt.Errorf("%s: %w", op, repository.ErrSpotOccupied)
	}

	return nil
}

// SetFree clears occupancy. Freeing an already-free spot succeeds.
func (r *SpotRepo) SetFree(ctx context.Context, spotID string) error {
	const op = "postgres.SpotRepo.SetFree"

	tag, err := r.db.Exec(ctx,
		`UPDATE spots SET occupied = false, plate = NULL WHERE spot_id = $1`,
		spotID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *SpotRepo) CountsByType(ctx context.Context) ([]domain.SpotTypeCount, error) {
	const op = "postgres.SpotRepo.CountsByType"

	rows, err := r.db.Query(ctx,
		`SELECT type,
		        COUNT(*) FILTER (WHERE NOT occupied),
		        COUNT(*) FILTER (WHERE occupied),
		        COUNT(*)
		 FROM spots GROUP BY type ORDER BY type`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	defer rows.Close()

	var out []domain.SpotTypeCount
	for rows.Next() {
		var c domain.SpotTypeCount
		if err := rows.Scan(&c.Type, &c.Free, &c.Occupied, &c.Total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return out, nil
}
