package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
)

// Service owns active tickets: one per plate, created on entry and removed
// on exit, never updated in between.
type Service struct {
	store repository.Store
	now   func() time.Time
}

func New(store repository.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// NewTicket builds a ticket record for plate at the given entry time. The ID
// embeds the plate and a compact timestamp for readability plus a random
// suffix, so two entries within the same minute cannot collide.
func NewTicket(plate, spotID string, vt domain.VehicleType, entryAt time.Time) domain.Ticket {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return domain.Ticket{
		TicketID:    fmt.Sprintf("T-%s-%s-%s", plate, entryAt.Format("01021504"), suffix),
		Plate:       plate,
		SpotID:      spotID,
		VehicleType: vt,
		EntryAt:     entryAt,
	}
}

// HoursBetween converts an entry/exit pair to billable hours: elapsed minutes
// rounded up to whole hours, minimum one hour.
func HoursBetween(entryAt, exitAt time.Time) int64 {
	minutes := int64(exitAt.Sub(entryAt).Minutes())
	hours := minutes / 60
	if minutes%60 != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours
}

// Issue creates an active ticket for plate, or returns the existing one.
//
// Parameters:
//   - ctx: request-scoped context.
//   - plate: normalized vehicle plate.
//   - spotID: spot the vehicle was assigned.
//   - vt: vehicle class.
//
// Returns:
//   - *domain.Ticket: the active ticket (new or pre-existing).
//   - bool: true when the plate already had an active ticket.
//   - error: tickets.ErrInvalidPlate on a malformed plate.
func (s *Service) Issue(ctx context.Context, plate, spotID string, vt domain.VehicleType) (*domain.Ticket, bool, error) {
	const op = "service.tickets.Issue"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, false, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}

	if existing, err := s.store.Tickets().GetActiveByPlate(ctx, plate); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, repository.ErrNoActiveTicket) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	t := NewTicket(plate, spotID, vt, s.now())
	if err := s.store.Tickets().Create(ctx, &t); err != nil {
		// Lost a race between the existence check and the insert; surface
		// the winner's ticket instead.
		if errors.Is(err, repository.ErrConflict) {
			existing, err2 := s.store.Tickets().GetActiveByPlate(ctx, plate)
			if err2 != nil {
				return nil, false, fmt.Errorf("%s: %w", op, err2)
			}
			return existing, true, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &t, false, nil
}

// GetActive returns the active ticket for plate.
//
// Returns:
//   - error: tickets.ErrNoActiveTicket when the vehicle is not inside.
func (s *Service) GetActive(ctx context.Context, plate string) (*domain.Ticket, error) {
	const op = "service.tickets.GetActive"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}

	t, err := s.store.Tickets().GetActiveByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveTicket) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveTicket)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// Duration returns the billable hours elapsed on the plate's active ticket,
// or 0 when no active ticket exists.
func (s *Service) Duration(ctx context.Context, plate string) (int64, error) {
	const op = "service.tickets.Duration"

	t, err := s.store.Tickets().GetActiveByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveTicket) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return HoursBetween(t.EntryAt, s.now()), nil
}

// Close removes the plate's active ticket. Closing when none exists is a
// recoverable outcome (UI retries), reported as false rather than an error.
func (s *Service) Close(ctx context.Context, plate string) (bool, error) {
	const op = "service.tickets.Close"

	closed, err := s.store.Tickets().Delete(ctx, plate)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return closed, nil
}
