package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
	"github.com/karpale/parkgate/internal/service/fines"
	"github.com/karpale/parkgate/internal/service/spots"
	"github.com/karpale/parkgate/internal/service/tickets"
	"github.com/karpale/parkgate/internal/uow"
)

// BarredPolicy decides what the gate does with a vehicle that owes a fine.
type BarredPolicy string

const (
	// PolicyWarn admits the vehicle and flags the outstanding fine; it is
	// collected at exit.
	PolicyWarn BarredPolicy = "warn"
	// PolicyBlock refuses entry until the fine is settled.
	PolicyBlock BarredPolicy = "block"
)

type Config struct {
	BarredPolicy BarredPolicy
}

// Service is the gate façade: it sequences the fine check, spot allocation,
// ticket issuance and the history log as one critical section per plate.
type Service struct {
	store   repository.Store
	fines   *fines.Service
	tickets *tickets.Service
	cache   *redisrepo.Cache
	pubsub  *redisrepo.SpotsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	logger  *slog.Logger
	uow     *uow.UoW
	plates  *plateLocks
	cfg     Config
	now     func() time.Time
}

func New(
	store repository.Store,
	fineSvc *fines.Service,
	ticketSvc *tickets.Service,
	cache *redisrepo.Cache,
	pubsub *redisrepo.SpotsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.BarredPolicy == "" {
		cfg.BarredPolicy = PolicyWarn
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:   store,
		fines:   fineSvc,
		tickets: ticketSvc,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		logger:  logger,
		uow:     uow.NewUoW(store),
		plates:  newPlateLocks(),
		cfg:     cfg,
	}
}

// EntryResult is what the entry lane displays.
type EntryResult struct {
	Ticket *domain.Ticket `json:"ticket"`
	// Existing is true when the plate already had an active ticket and the
	// original ticket was re-displayed instead of a new one being issued.
	Existing bool `json:"existing"`
	// BarredWarning is set under the warn policy when the vehicle entered
	// with an outstanding fine.
	BarredWarning    bool  `json:"barred_warning"`
	OutstandingCents int64 `json:"outstanding_cents,omitempty"`
}

// candidateSpotTypes lists the spot types a vehicle may use, most preferred
// first. Handicapped vehicles get the accessible spots before falling back
// to anything else.
func candidateSpotTypes(vt domain.VehicleType) []domain.SpotType {
	ordered := map[domain.VehicleType][]domain.SpotType{
		domain.VehicleMotorcycle:  {domain.SpotCompact},
		domain.VehicleCar:         {domain.SpotCompact, domain.SpotRegular},
		domain.VehicleSUV:         {domain.SpotRegular},
		domain.VehicleTruck:       {domain.SpotRegular},
		domain.VehicleHandicapped: {domain.SpotHandicapped, domain.SpotCompact, domain.SpotRegular, domain.SpotReserved},
	}

	var out []domain.SpotType
	for _, t := range ordered[vt] {
		if spots.CanAccommodate(vt, t) {
			out = append(out, t)
		}
	}
	return out
}

// ProcessEntry admits a vehicle: fine check, compatible spot allocation,
// ticket issuance and entry-side history row, atomically.
//
// Parameters:
//   - ctx: request-scoped context.
//   - plate: vehicle plate (normalized internally).
//   - vt: vehicle class.
//   - rlKey: rate-limit bucket key (empty disables limiting).
//
// Returns:
//   - *EntryResult: issued or re-displayed ticket plus advisory flags.
//   - error: gate.ErrVehicleBarred under the block policy.
//   - error: gate.ErrLotFull when no compatible spot is free.
//   - error: gate.ErrInvalidPlate / gate.ErrInvalidVehicleType on bad input.
func (s *Service) ProcessEntry(ctx context.Context, plate string, vt domain.VehicleType, rlKey string) (*EntryResult, error) {
	const op = "service.gate.ProcessEntry"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}
	if !vt.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidVehicleType)
	}

	if s.limiter != nil && rlKey != "" {
		allowed, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w: retry in %s", op, ErrRateLimited, retry)
		}
	}

	unlock := s.plates.lock(plate)
	defer unlock()

	outstanding, err := s.fines.GetUnpaid(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := &EntryResult{}
	if outstanding != nil {
		if s.cfg.BarredPolicy == PolicyBlock {
			return nil, fmt.Errorf("%s: %w", op, ErrVehicleBarred)
		}
		res.BarredWarning = true
		res.OutstandingCents = outstanding.AmountCents
		s.logger.Warn("admitting vehicle with outstanding fine",
			"plate", plate, "fine_id", outstanding.FineID, "amount_cents", outstanding.AmountCents)
	}

	if existing, err := s.store.Tickets().GetActiveByPlate(ctx, plate); err == nil {
		res.Ticket = existing
		res.Existing = true
		return res, nil
	} else if !errors.Is(err, repository.ErrNoActiveTicket) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.uow.Do(ctx, func(ctx context.Context, st repository.Store, after func(uow.AfterCommit)) error {
		var spot *domain.ParkingSpot
		for _, t := range candidateSpotTypes(vt) {
			sp, err := st.Spots().FirstAvailable(ctx, t)
			if err == nil {
				spot = sp
				break
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		if spot == nil {
			return fmt.Errorf("%s: %w", op, ErrLotFull)
		}

		if err := st.Spots().SetOccupied(ctx, spot.SpotID, plate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		t := tickets.NewTicket(plate, spot.SpotID, vt, s.clock())
		if err := st.Tickets().Create(ctx, &t); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := st.VehicleLogs().Append(ctx, &domain.VehicleLog{
			TicketID:    t.TicketID,
			Plate:       plate,
			SpotID:      spot.SpotID,
			VehicleType: vt,
			EntryAt:     t.EntryAt,
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		res.Ticket = &t

		spotID := spot.SpotID
		after(func(ctx context.Context) {
			s.notifySpotChanged(ctx, spotID, true)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// ProcessExit settles a parking episode: computes the parking fee from the
// spot's hourly rate and the ceiling-rounded duration, folds in any
// outstanding fine, settles it, stamps the history row, closes the ticket
// and frees the spot. All mutations commit atomically.
//
// Parameters:
//   - ctx: request-scoped context.
//   - plate: vehicle plate.
//   - method: payment method.
//   - tenderedCents: cash tendered; 0 means exact payment. Ignored for card,
//     which always pays exact.
//
// Returns:
//   - *domain.Receipt: the full fee breakdown.
//   - error: gate.ErrNoActiveTicket when the vehicle is not inside.
//   - error: gate.ErrInsufficientCash when cash does not cover the total.
func (s *Service) ProcessExit(ctx context.Context, plate string, method domain.PaymentMethod, tenderedCents int64) (*domain.Receipt, error) {
	const op = "service.gate.ProcessExit"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidMethod)
	}

	unlock := s.plates.lock(plate)
	defer unlock()

	ticket, err := s.store.Tickets().GetActiveByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveTicket) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveTicket)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	spot, err := s.store.Spots().Get(ctx, ticket.SpotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exitAt := s.clock()
	hours := tickets.HoursBetween(ticket.EntryAt, exitAt)
	parkingFee := hours * spot.Type.HourlyRateCents()

	outstanding, err := s.fines.GetUnpaid(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var fineCents int64
	if outstanding != nil {
		fineCents = outstanding.AmountCents
	}
	total := parkingFee + fineCents

	paid := total
	var change int64
	if method == domain.PayCash && tenderedCents > 0 {
		if tenderedCents < total {
			return nil, fmt.Errorf("%s: %w", op, ErrInsufficientCash)
		}
		paid = tenderedCents
		change = tenderedCents - total
	}

	receipt := &domain.Receipt{
		PaymentID:       paymentID(plate),
		TicketID:        ticket.TicketID,
		Plate:           plate,
		SpotID:          ticket.SpotID,
		DurationHours:   hours,
		ParkingFeeCents: parkingFee,
		FineCents:       fineCents,
		TotalCents:      total,
		Method:          method,
		AmountPaidCents: paid,
		ChangeCents:     change,
		EntryAt:         ticket.EntryAt,
		ExitAt:          exitAt,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, st repository.Store, after func(uow.AfterCommit)) error {
		if outstanding != nil {
			if err := st.Fines().MarkPaid(ctx, outstanding.FineID, method, exitAt); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			receipt.SettledFineID = outstanding.FineID
		}

		if _, err := st.VehicleLogs().StampExit(ctx, ticket.TicketID, exitAt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := st.Tickets().Delete(ctx, plate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := st.Spots().SetFree(ctx, ticket.SpotID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			s.notifySpotChanged(ctx, ticket.SpotID, false)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) notifySpotChanged(ctx context.Context, spotID string, occupied bool) {
	if s.cache != nil {
		_ = s.cache.InvalidateSpots(ctx)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishSpotChanged(ctx, spotID, occupied)
	}
}

func paymentID(plate string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("PAY-%s-%s", plate, suffix)
}
