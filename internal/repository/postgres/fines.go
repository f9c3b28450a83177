package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/karpale/parkgate/internal/domain"
)

type FineRepo struct {
	db DB
}

func (r *FineRepo) Create(ctx context.Context, f *domain.Fine) error {
	const op = "postgres.FineRepo.Create"

	var method *string
	if f.Method != "" {
		m := string(f.Method)
		method = &m
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO fines (fine_id, plate, scheme, amount_cents, reason, issued_at, paid, method, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.FineID, f.Plate, f.Scheme, f.AmountCents, f.Reason, f.IssuedAt, f.Paid, method, f.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return nil
}

// GetByPlate returns the most recently issued fine for plate with the given
// paid status.
//
// Returns:
//   - *domain.Fine: the fine when found.
//   - error: repository.ErrNotFound when no fine matches.
func (r *FineRepo) GetByPlate(ctx context.Context, plate string, paid bool) (*domain.Fine, error) {
	const op = "postgres.FineRepo.GetByPlate"

	f, err := scanFine(r.db.QueryRow(ctx,
		`SELECT fine_id, plate, scheme, amount_cents, reason, issued_at, paid, method, paid_at
		 FROM fines WHERE plate = $1 AND paid = $2
		 ORDER BY issued_at DESC
		 LIMIT 1`,
		plate, paid,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return f, nil
}

func (r *FineRepo) MarkPaid(ctx context.Context, fineID string, method domain.PaymentMethod, paidAt time.Time) error {
	const op = "postgres.FineRepo.MarkPaid"

	_, err := r.db.Exec(ctx,
		`UPDATE fines SET paid = true, method = $2, paid_at = $3 WHERE fine_id = $1`,
		fineID, method, paidAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return nil
}

// Delete permanently removes a fine record; false when the ID is unknown.
func (r *FineRepo) Delete(ctx context.Context, fineID string) (bool, error) {
	const op = "postgres.FineRepo.Delete"

	tag, err := r.db.Exec(ctx, `DELETE FROM fines WHERE fine_id = $1`, fineID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r *FineRepo) ListUnpaid(ctx context.Context) ([]domain.Fine, error) {
	const op = "postgres.FineRepo.ListUnpaid"

	return r.list(ctx, op,
		`SELECT fine_id, plate, scheme, amount_cents, reason, issued_at, paid, method, paid_at
		 FROM fines WHERE NOT paid ORDER BY issued_at DESC`,
	)
}

func (r *FineRepo) ListByPlate(ctx context.Context, plate string) ([]domain.Fine, error) {
	const op = "postgres.FineRepo.ListByPlate"

	return r.list(ctx, op,
		`SELECT fine_id, plate, scheme, amount_cents, reason, issued_at, paid, method, paid_at
		 FROM fines WHERE plate = $1 ORDER BY issued_at DESC`,
		plate,
	)
}

func (r *FineRepo) RevenueByDatePrefix(ctx context.Context, prefix string) (*domain.RevenueSummary, error) {
	const op = "postgres.FineRepo.RevenueByDatePrefix"

	sum := domain.RevenueSummary{DatePrefix: prefix}
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
		 FROM fines
		 WHERE paid AND to_char(paid_at, 'YYYY-MM-DD') LIKE $1 || '%'`,
		prefix,
	).Scan(&sum.TotalCents, &sum.Count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return &sum, nil
}

func (r *FineRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Fine, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}
	defer rows.Close()

	var out []domain.Fine
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateDBErr(err))
	}

	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFine(row scanner) (*domain.Fine, error) {
	var f domain.Fine
	var method *string
	if err := row.Scan(
		&f.FineID, &f.Plate, &f.Scheme, &f.AmountCents,
		&f.Reason, &f.IssuedAt, &f.Paid, &method, &f.PaidAt,
	); err != nil {
		return nil, err
	}
	if method != nil {
		f.Method = domain.PaymentMethod(*method)
	}
	return &f, nil
}
