package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/karpale/parkgate/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements repository.Store on pgx. Outside a transaction queries go
// through the pool; RunTx rebinds all entity repos to the same tx.
type Store struct {
	pool *pgxpool.Pool
	db   DB
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) handle() DB {
	if s.db != nil {
		return s.db
	}
	return s.pool
}

func (s *Store) Spots() repository.Spots             { return &SpotRepo{db: s.handle()} }
func (s *Store) Tickets() repository.Tickets         { return &TicketRepo{db: s.handle()} }
func (s *Store) Fines() repository.Fines             { return &FineRepo{db: s.handle()} }
func (s *Store) VehicleLogs() repository.VehicleLogs { return &VehicleLogRepo{db: s.handle()} }

func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	const op = "postgres.Store.RunTx"

	// Nested RunTx joins the enclosing transaction.
	if s.db != nil {
		return fn(ctx, s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
