// Package reports exposes the read-only aggregation views: fine revenue by
// date, outstanding fines, per-plate violation history and the vehicle log.
// Formatting is the shell's concern; this package only answers the queries.
package reports

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
)

var dateFilterRe = regexp.MustCompile(`^\d{4}(-\d{2}){0,2}$`)

type Service struct {
	store repository.Store
	cache *redisrepo.Cache
}

func New(store repository.Store, cache *redisrepo.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// Revenue sums settled fines whose payment date matches the prefix filter
// ("2026-02" covers the month, "2026" the year).
//
// Returns:
//   - error: reports.ErrInvalidDateFilter on a malformed filter.
func (s *Service) Revenue(ctx context.Context, datePrefix string) (*domain.RevenueSummary, error) {
	const op = "service.reports.Revenue"

	if !dateFilterRe.MatchString(datePrefix) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDateFilter)
	}

	if s.cache != nil {
		out, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyRevenue(datePrefix), 60*time.Second,
			func(ctx context.Context) (*domain.RevenueSummary, error) {
				return s.store.Fines().RevenueByDatePrefix(ctx, datePrefix)
			})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	out, err := s.store.Fines().RevenueByDatePrefix(ctx, datePrefix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Unpaid lists every outstanding fine, most recent first.
func (s *Service) Unpaid(ctx context.Context) ([]domain.Fine, error) {
	const op = "service.reports.Unpaid"

	out, err := s.store.Fines().ListUnpaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// History returns the full fine history for one plate, paid and unpaid,
// most recent first.
func (s *Service) History(ctx context.Context, plate string) ([]domain.Fine, error) {
	const op = "service.reports.History"

	plate, ok := domain.NormalizePlate(plate)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlate)
	}

	out, err := s.store.Fines().ListByPlate(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ActiveVehicles lists open parking episodes, i.e. vehicles still inside.
func (s *Service) ActiveVehicles(ctx context.Context) ([]domain.VehicleLog, error) {
	const op = "service.reports.ActiveVehicles"

	out, err := s.store.VehicleLogs().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// VehicleLog returns the complete episode history, most recent entry first.
func (s *Service) VehicleLog(ctx context.Context) ([]domain.VehicleLog, error) {
	const op = "service.reports.VehicleLog"

	out, err := s.store.VehicleLogs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
