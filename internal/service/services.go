package service

import (
	"log/slog"

	"github.com/karpale/parkgate/internal/repository"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
	"github.com/karpale/parkgate/internal/service/fines"
	"github.com/karpale/parkgate/internal/service/gate"
	"github.com/karpale/parkgate/internal/service/reports"
	"github.com/karpale/parkgate/internal/service/spots"
	"github.com/karpale/parkgate/internal/service/tickets"
)

type Services struct {
	Spots   *spots.Service
	Tickets *tickets.Service
	Fines   *fines.Service
	Gate    *gate.Service
	Reports *reports.Service
}

type Config struct {
	Spots spots.Config
	Gate  gate.Config
}

func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.SpotsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	cfg Config,
) *Services {
	spotSvc := spots.New(store, cache, pubsub, cfg.Spots)
	ticketSvc := tickets.New(store)
	fineSvc := fines.New(store, logger)

	return &Services{
		Spots:   spotSvc,
		Tickets: ticketSvc,
		Fines:   fineSvc,
		Gate:    gate.New(store, fineSvc, ticketSvc, cache, pubsub, limiter, logger, cfg.Gate),
		Reports: reports.New(store, cache),
	}
}
