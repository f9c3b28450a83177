package spots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
)

// TypeRule assigns a spot type to a lot position during initialization.
type TypeRule func(floor, topFloor, row, slot int) domain.SpotType

// DefaultTypeRule mirrors the standard lot layout: floor 1 is accessible
// parking, the top floor is reserved, the first two slots of every row are
// compact, everything else is regular.
func DefaultTypeRule(floor, topFloor, row, slot int) domain.SpotType {
	switch {
	case floor == 1:
		return domain.SpotHandicapped
	case floor == topFloor:
		return domain.SpotReserved
	case slot <= 2:
		return domain.SpotCompact
	default:
		return domain.SpotRegular
	}
}

type Config struct {
	TypeRule TypeRule
}

// Service owns parking spot state: layout, occupancy, allocation.
type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.SpotsPubSub
	cfg    Config
}

func New(store repository.Store, cache *redisrepo.Cache, pubsub *redisrepo.SpotsPubSub, cfg Config) *Service {
	if cfg.TypeRule == nil {
		cfg.TypeRule = DefaultTypeRule
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		cfg:    cfg,
	}
}

// CanAccommodate reports whether a vehicle class fits a spot type. Pure.
// Handicapped vehicles fit any spot; priority arbitration is the caller's
// concern.
func CanAccommodate(v domain.VehicleType, s domain.SpotType) bool {
	switch v {
	case domain.VehicleMotorcycle:
		return s == domain.SpotCompact
	case domain.VehicleCar:
		return s == domain.SpotCompact || s == domain.SpotRegular
	case domain.VehicleSUV, domain.VehicleTruck:
		return s == domain.SpotRegular
	case domain.VehicleHandicapped:
		return true
	}
	return false
}

// InitializeLot populates the registry once with the full layout.
//
// Parameters:
//   - ctx: request-scoped context.
//   - floors, rowsPerFloor, slotsPerRow: lot geometry, all ≥ 1.
//
// Returns:
//   - int: number of spots created.
//   - error: spots.ErrInvalidLayout on non-positive geometry.
//   - error: spots.ErrLotInitialized if the registry already holds spots.
func (s *Service) InitializeLot(ctx context.Context, floors, rowsPerFloor, slotsPerRow int) (int, error) {
	const op = "service.spots.InitializeLot"

	if floors < 1 || rowsPerFloor < 1 || slotsPerRow < 1 {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidLayout)
	}

	layout := make([]domain.ParkingSpot, 0, floors*rowsPerFloor*slotsPerRow)
	for f := 1; f <= floors; f++ {
		for r := 1; r <= rowsPerFloor; r++ {
			for sl := 1; sl <= slotsPerRow; sl++ {
				layout = append(layout, domain.ParkingSpot{
					SpotID: domain.SpotID(f, r, sl),
					Floor:  f,
					Row:    r,
					Slot:   sl,
					Type:   s.cfg.TypeRule(f, floors, r, sl),
				})
			}
		}
	}

	if err := s.store.Spots().BulkCreate(ctx, layout); err != nil {
		if errors.Is(err, repository.ErrNotEmpty) {
			return 0, fmt.Errorf("%s: %w", op, ErrLotInitialized)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)

	return len(layout), nil
}

// FindAvailable returns the ID of the first unoccupied spot of the requested
// type; ties break by registration order (floor, then row, then slot).
//
// Returns:
//   - error: spots.ErrNoSpotAvailable when every spot of that type is taken.
func (s *Service) FindAvailable(ctx context.Context, t domain.SpotType) (string, error) {
	const op = "service.spots.FindAvailable"

	sp, err := s.store.Spots().FirstAvailable(ctx, t)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNoSpotAvailable)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return sp.SpotID, nil
}

// Allocate marks a spot occupied by plate.
//
// Returns:
//   - error: spots.ErrSpotOccupied if the spot is taken.
//   - error: spots.ErrSpotNotFound if the ID is unknown.
func (s *Service) Allocate(ctx context.Context, spotID, plate string) error {
	const op = "service.spots.Allocate"

	if err := s.store.Spots().SetOccupied(ctx, spotID, plate); err != nil {
		switch {
		case errors.Is(err, repository.ErrSpotOccupied):
			return fmt.Errorf("%s: %w", op, ErrSpotOccupied)
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrSpotNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)
	s.publish(ctx, spotID, true)

	return nil
}

// Release frees a spot and clears its plate. Releasing an already-free spot
// is a no-op.
//
// Returns:
//   - error: spots.ErrSpotNotFound if the ID is unknown.
func (s *Service) Release(ctx context.Context, spotID string) error {
	const op = "service.spots.Release"

	if err := s.store.Spots().SetFree(ctx, spotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrSpotNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx)
	s.publish(ctx, spotID, false)

	return nil
}

func (s *Service) Get(ctx context.Context, spotID string) (*domain.ParkingSpot, error) {
	const op = "service.spots.Get"

	sp, err := s.store.Spots().Get(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSpotNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sp, nil
}

func (s *Service) List(ctx context.Context, filter repository.SpotFilter) ([]domain.ParkingSpot, error) {
	const op = "service.spots.List"

	if s.cache != nil {
		key := redisrepo.KeySpotList(string(filter.Type), filter.OnlyFree)
		out, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, 15*time.Second,
			func(ctx context.Context) ([]domain.ParkingSpot, error) {
				return s.store.Spots().List(ctx, filter)
			})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	out, err := s.store.Spots().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Availability returns per-type occupancy counts, cached briefly.
func (s *Service) Availability(ctx context.Context) ([]domain.SpotTypeCount, error) {
	const op = "service.spots.Availability"

	if s.cache != nil {
		out, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeySpotAvailability(), 15*time.Second,
			func(ctx context.Context) ([]domain.SpotTypeCount, error) {
				return s.store.Spots().CountsByType(ctx)
			})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	out, err := s.store.Spots().CountsByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateSpots(ctx)
	}
}

func (s *Service) publish(ctx context.Context, spotID string, occupied bool) {
	if s.pubsub != nil {
		_ = s.pubsub.PublishSpotChanged(ctx, spotID, occupied)
	}
}
