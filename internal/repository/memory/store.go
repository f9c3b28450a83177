// Package memory implements repository.Store in process memory. It backs the
// test suite and the "memory" storage driver; semantics mirror the postgres
// implementation, including error sentinels and ordering guarantees.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
)

type fineRec struct {
	fine domain.Fine
	seq  int64
}

type state struct {
	spots   map[string]domain.ParkingSpot
	tickets map[string]domain.Ticket
	fines   []fineRec
	fineSeq int64
	logs    []domain.VehicleLog
}

func newState() *state {
	return &state{
		spots:   make(map[string]domain.ParkingSpot),
		tickets: make(map[string]domain.Ticket),
	}
}

func (st *state) clone() *state {
	cp := &state{
		spots:   make(map[string]domain.ParkingSpot, len(st.spots)),
		tickets: make(map[string]domain.Ticket, len(st.tickets)),
		fines:   append([]fineRec(nil), st.fines...),
		fineSeq: st.fineSeq,
		logs:    append([]domain.VehicleLog(nil), st.logs...),
	}
	for k, v := range st.spots {
		cp.spots[k] = v
	}
	for k, v := range st.tickets {
		cp.tickets[k] = v
	}
	return cp
}

// Store is a mutex-guarded repository.Store. RunTx snapshots the state and
// restores it when fn fails, so mutations stay atomic.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Spots() repository.Spots             { return spotRepo{s} }
func (s *Store) Tickets() repository.Tickets         { return ticketRepo{s} }
func (s *Store) Fines() repository.Fines             { return fineRepo{s} }
func (s *Store) VehicleLogs() repository.VehicleLogs { return logRepo{s} }

// RunTx holds the store lock for the whole transaction; the lot is small and
// one coordination point per entity family is enough here.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &txStore{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}

	return nil
}

// txStore operates on the live state without re-locking; RunTx already holds
// the store lock and restores the snapshot on error.
type txStore struct {
	st *state
}

func (t *txStore) Spots() repository.Spots             { return spotRepo{t} }
func (t *txStore) Tickets() repository.Tickets         { return ticketRepo{t} }
func (t *txStore) Fines() repository.Fines             { return fineRepo{t} }
func (t *txStore) VehicleLogs() repository.VehicleLogs { return logRepo{t} }

func (t *txStore) RunTx(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	return fn(ctx, t)
}

// holder abstracts Store (locking) and txStore (already inside a tx).
type holder interface {
	access(fn func(st *state) error) error
}

func (s *Store) access(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (t *txStore) access(fn func(st *state) error) error {
	return fn(t.st)
}

// --- spots ---

type spotRepo struct {
	h holder
}

func (r spotRepo) BulkCreate(ctx context.Context, spots []domain.ParkingSpot) error {
	const op = "memory.spotRepo.BulkCreate"

	return r.h.access(func(st *state) error {
		if len(st.spots) > 0 {
			return fmt.Errorf("%s: %w", op, repository.ErrNotEmpty)
		}
		for _, sp := range spots {
			sp.Occupied = false
			sp.Plate = ""
			st.spots[sp.SpotID] = sp
		}
		return nil
	})
}

func (r spotRepo) Get(ctx context.Context, spotID string) (*domain.ParkingSpot, error) {
	const op = "memory.spotRepo.Get"

	var out domain.ParkingSpot
	err := r.h.access(func(st *state) error {
		sp, ok := st.spots[spotID]
		if !ok {
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		out = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func sortSpots(spots []domain.ParkingSpot) {
	sort.Slice(spots, func(i, j int) bool {
		a, b := spots[i], spots[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Slot < b.Slot
	})
}

func (r spotRepo) List(ctx context.Context, filter repository.SpotFilter) ([]domain.ParkingSpot, error) {
	var out []domain.ParkingSpot
	err := r.h.access(func(st *state) error {
		for _, sp := range st.spots {
			if filter.Type != "" && sp.Type != filter.Type {
				continue
			}
			if filter.OnlyFree && sp.Occupied {
				continue
			}
			out = append(out, sp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortSpots(out)
	return out, nil
}

func (r spotRepo) FirstAvailable(ctx context.Context, t domain.SpotType) (*domain.ParkingSpot, error) {
	const op = "memory.spotRepo.FirstAvailable"

	free, err := r.List(ctx, repository.SpotFilter{Type: t, OnlyFree: true})
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return &free[0], nil
}

func (r spotRepo) SetOccupied(ctx context.Context, spotID, plate string) error {
	const op = "memory.spotRepo.SetOccupied"

	return r.h.access(func(st *state) error {
		sp, ok := st.spots[spotID]
		if !ok {
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		if sp.Occupied {
			return fmt.Errorf("%s: %w", op, repository.ErrSpotOccupied)
		}
		sp.Occupied = true
		sp.Plate = plate
		st.spots[spotID] = sp
		return nil
	})
}

func (r spotRepo) SetFree(ctx context.Context, spotID string) error {
	const op = "memory.spotRepo.SetFree"

	return r.h.access(func(st *state) error {
		sp, ok := st.spots[spotID]
		if !ok {
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
		sp.Occupied = false
		sp.Plate = ""
		st.spots[spotID] = sp
		return nil
	})
}

func (r spotRepo) CountsByType(ctx context.Context) ([]domain.SpotTypeCount, error) {
	byType := map[domain.SpotType]*domain.SpotTypeCount{}
	err := r.h.access(func(st *state) error {
		for _, sp := range st.spots {
			c, ok := byType[sp.Type]
			if !ok {
				c = &domain.SpotTypeCount{Type: sp.Type}
				byType[sp.Type] = c
			}
			c.Total++
			if sp.Occupied {
				c.Occupied++
			} else {
				c.Free++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.SpotTypeCount, 0, len(byType))
	for _, c := range byType {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// --- tickets ---

type ticketRepo struct {
	h holder
}

func (r ticketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	const op = "memory.ticketRepo.Create"

	return r.h.access(func(st *state) error {
		if _, ok := st.tickets[t.Plate]; ok {
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		}
		st.tickets[t.Plate] = *t
		return nil
	})
}

func (r ticketRepo) GetActiveByPlate(ctx context.Context, plate string) (*domain.Ticket, error) {
	const op = "memory.ticketRepo.GetActiveByPlate"

	var out domain.Ticket
	err := r.h.access(func(st *state) error {
		t, ok := st.tickets[plate]
		if !ok {
			return fmt.Errorf("%s: %w", op, repository.ErrNoActiveTicket)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r ticketRepo) Delete(ctx context.Context, plate string) (bool, error) {
	var deleted bool
	err := r.h.access(func(st *state) error {
		if _, ok := st.tickets[plate]; ok {
			delete(st.tickets, plate)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

// --- fines ---

type fineRepo struct {
	h holder
}

// byIssueDesc orders most recent first; equal timestamps fall back to
// insertion order, newest first.
func byIssueDesc(fines []fineRec) []domain.Fine {
	cp := append([]fineRec(nil), fines...)
	sort.Slice(cp, func(i, j int) bool {
		a, b := cp[i], cp[j]
		if !a.fine.IssuedAt.Equal(b.fine.IssuedAt) {
			return a.fine.IssuedAt.After(b.fine.IssuedAt)
		}
		return a.seq > b.seq
	})
	out := make([]domain.Fine, len(cp))
	for i, rec := range cp {
		out[i] = rec.fine
	}
	return out
}

func (r fineRepo) Create(ctx context.Context, f *domain.Fine) error {
	const op = "memory.fineRepo.Create"

	return r.h.access(func(st *state) error {
		for _, rec := range st.fines {
			if rec.fine.FineID == f.FineID {
				return fmt.Errorf("%s: %w", op, repository.ErrConflict)
			}
		}
		st.fineSeq++
		st.fines = append(st.fines, fineRec{fine: *f, seq: st.fineSeq})
		return nil
	})
}

func (r fineRepo) GetByPlate(ctx context.Context, plate string, paid bool) (*domain.Fine, error) {
	const op = "memory.fineRepo.GetByPlate"

	var out *domain.Fine
	err := r.h.access(func(st *state) error {
		for _, f := range byIssueDesc(st.fines) {
			if f.Plate == plate && f.Paid == paid {
				cp := f
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r fineRepo) MarkPaid(ctx context.Context, fineID string, method domain.PaymentMethod, paidAt time.Time) error {
	return r.h.access(func(st *state) error {
		for i := range st.fines {
			if st.fines[i].fine.FineID == fineID {
				st.fines[i].fine.Paid = true
				st.fines[i].fine.Method = method
				at := paidAt
				st.fines[i].fine.PaidAt = &at
				return nil
			}
		}
		return nil
	})
}

func (r fineRepo) Delete(ctx context.Context, fineID string) (bool, error) {
	var deleted bool
	err := r.h.access(func(st *state) error {
		for i := range st.fines {
			if st.fines[i].fine.FineID == fineID {
				st.fines = append(st.fines[:i], st.fines[i+1:]...)
				deleted = true
				return nil
			}
		}
		return nil
	})
	return deleted, err
}

func (r fineRepo) ListUnpaid(ctx context.Context) ([]domain.Fine, error) {
	var out []domain.Fine
	err := r.h.access(func(st *state) error {
		for _, f := range byIssueDesc(st.fines) {
			if !f.Paid {
				out = append(out, f)
			}
		}
		return nil
	})
	return out, err
}

func (r fineRepo) ListByPlate(ctx context.Context, plate string) ([]domain.Fine, error) {
	var out []domain.Fine
	err := r.h.access(func(st *state) error {
		for _, f := range byIssueDesc(st.fines) {
			if f.Plate == plate {
				out = append(out, f)
			}
		}
		return nil
	})
	return out, err
}

func (r fineRepo) RevenueByDatePrefix(ctx context.Context, prefix string) (*domain.RevenueSummary, error) {
	sum := domain.RevenueSummary{DatePrefix: prefix}
	err := r.h.access(func(st *state) error {
		for _, rec := range st.fines {
			f := rec.fine
			if !f.Paid || f.PaidAt == nil {
				continue
			}
			day := f.PaidAt.Format("2006-01-02")
			if len(prefix) <= len(day) && day[:len(prefix)] == prefix {
				sum.TotalCents += f.AmountCents
				sum.Count++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// --- vehicle logs ---

type logRepo struct {
	h holder
}

func (r logRepo) Append(ctx context.Context, l *domain.VehicleLog) error {
	return r.h.access(func(st *state) error {
		st.logs = append(st.logs, *l)
		return nil
	})
}

func (r logRepo) StampExit(ctx context.Context, ticketID string, exitAt time.Time) (bool, error) {
	var stamped bool
	err := r.h.access(func(st *state) error {
		for i := range st.logs {
			if st.logs[i].TicketID == ticketID {
				at := exitAt
				st.logs[i].ExitAt = &at
				stamped = true
				return nil
			}
		}
		return nil
	})
	return stamped, err
}

func (r logRepo) GetByTicketID(ctx context.Context, ticketID string) (*domain.VehicleLog, error) {
	const op = "memory.logRepo.GetByTicketID"

	var out *domain.VehicleLog
	err := r.h.access(func(st *state) error {
		for i := range st.logs {
			if st.logs[i].TicketID == ticketID {
				cp := st.logs[i]
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r logRepo) ListActive(ctx context.Context) ([]domain.VehicleLog, error) {
	var out []domain.VehicleLog
	err := r.h.access(func(st *state) error {
		for _, l := range st.logs {
			if l.ExitAt == nil {
				out = append(out, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortLogsDesc(out)
	return out, nil
}

func (r logRepo) List(ctx context.Context) ([]domain.VehicleLog, error) {
	var out []domain.VehicleLog
	err := r.h.access(func(st *state) error {
		out = append(out, st.logs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortLogsDesc(out)
	return out, nil
}

func sortLogsDesc(logs []domain.VehicleLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].EntryAt.After(logs[j].EntryAt)
	})
}
