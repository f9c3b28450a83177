package fines

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
)

const (
	fixedFineCents  = 5000
	hourlyRateCents = 2000
)

// CalculateAmount computes a fine in cents for the given scheme and overstay
// hours. Pure. The second return is true when the scheme was unknown and the
// amount fell back to the fixed scheme; callers must surface that.
func CalculateAmount(scheme domain.FineScheme, overstayHours float64) (int64, bool) {
	switch scheme {
	case domain.SchemeFixed:
		return fixedFineCents, false
	case domain.SchemeProgressive:
		// Inclusive upper bounds: exactly 24h still bills the first tier.
		switch {
		case overstayHours <= 24:
			return 5000, false
		case overstayHours <= 48:
			return 15000, false
		case overstayHours <= 72:
			return 30000, false
		default:
			return 50000, false
		}
	case domain.SchemeHourly:
		return int64(math.Ceil(overstayHours)) * hourlyRateCents, false
	}
	return fixedFineCents, true
}

// Service owns fine records and the one-unpaid-fine-per-plate invariant.
type Service struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func New(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return "F-" + uuid.NewString() },
	}
}

// Issue creates a new unpaid fine for plate.
//
// Parameters:
//   - ctx: request-scoped context.
//   - plate: vehicle plate.
//   - reason: human-readable violation description.
//   - scheme: fine calculation scheme; unknown values fall back to Fixed
//     with a logged warning.
//   - overstayHours: caller-supplied duration input (see scheme semantics).
//
// Returns:
//   - *domain.Fine: the new fine, or the existing unpaid fine when issuance
//     is rejected.
//   - error: fines.ErrAlreadyBarred when an unpaid fine already exists; the
//     existing fine is returned alongside, never overwritten.
func (s *Service) Issue(ctx context.Context, plate, reason string, scheme domain.FineScheme, overstayHours float64) (*domain.Fine, error) {
	const op = "service.fines.Issue"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyReason)
	}
	if overstayHours < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidHours)
	}

	existing, err := s.GetUnpaid(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return existing, fmt.Errorf("%s: %w", op, ErrAlreadyBarred)
	}

	amount, fellBack := CalculateAmount(scheme, overstayHours)
	if fellBack {
		s.logger.Warn("unknown fine scheme, defaulting to fixed",
			"scheme", string(scheme), "plate", plate)
		scheme = domain.SchemeFixed
	}

	f := domain.Fine{
		FineID:      s.newID(),
		Plate:       plate,
		Scheme:      scheme,
		AmountCents: amount,
		Reason:      strings.TrimSpace(reason),
		IssuedAt:    s.now(),
	}

	if err := s.store.Fines().Create(ctx, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &f, nil
}

// GetUnpaid returns the plate's outstanding fine, or nil when it has none.
func (s *Service) GetUnpaid(ctx context.Context, plate string) (*domain.Fine, error) {
	const op = "service.fines.GetUnpaid"

	f, err := s.store.Fines().GetByPlate(ctx, plate, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// GetPaid returns the plate's most recently settled fine, or nil.
func (s *Service) GetPaid(ctx context.Context, plate string) (*domain.Fine, error) {
	const op = "service.fines.GetPaid"

	f, err := s.store.Fines().GetByPlate(ctx, plate, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// Settle marks the plate's unpaid fine as paid with the given method.
// Settling when no fine is outstanding is a no-op reported as false.
func (s *Service) Settle(ctx context.Context, plate string, method domain.PaymentMethod) (bool, error) {
	const op = "service.fines.Settle"

	if !method.Valid() {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidMethod)
	}

	f, err := s.GetUnpaid(ctx, plate)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if f == nil {
		return false, nil
	}

	if err := s.store.Fines().MarkPaid(ctx, f.FineID, method, s.now()); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// IsBarred reports whether the plate has an outstanding fine. This is the
// only signal the gate consults.
func (s *Service) IsBarred(ctx context.Context, plate string) (bool, error) {
	const op = "service.fines.IsBarred"

	f, err := s.GetUnpaid(ctx, plate)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return f != nil, nil
}

// Revoke permanently deletes a fine record. Administrative override, not
// reversible. Returns false when the ID is unknown.
func (s *Service) Revoke(ctx context.Context, fineID string) (bool, error) {
	const op = "service.fines.Revoke"

	deleted, err := s.store.Fines().Delete(ctx, fineID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}
