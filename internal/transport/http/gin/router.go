package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	redisrepo "github.com/karpale/parkgate/internal/repository/redis"
	"github.com/karpale/parkgate/internal/service"
	"github.com/karpale/parkgate/internal/service/fines"
	"github.com/karpale/parkgate/internal/service/gate"
	"github.com/karpale/parkgate/internal/service/reports"
	"github.com/karpale/parkgate/internal/service/spots"
	"github.com/karpale/parkgate/internal/service/tickets"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Gate lanes
	r.POST("/gate/entry", handleEntry(svcs, idem))
	r.POST("/gate/exit", handleExit(svcs))

	// Public API
	r.GET("/tickets/:plate", handleGetTicket(svcs))
	r.GET("/spots", handleListSpots(svcs))
	r.GET("/spots/availability", handleAvailability(svcs))

	r.POST("/fines", handleIssueFine(svcs))
	r.POST("/fines/pay", handlePayFine(svcs))
	r.GET("/fines/unpaid", handleUnpaidFines(svcs))
	r.GET("/fines/history/:plate", handleFineHistory(svcs))

	r.GET("/reports/revenue", handleRevenue(svcs))
	r.GET("/reports/vehicles/active", handleActiveVehicles(svcs))
	r.GET("/reports/vehicles", handleVehicleLog(svcs))

	// Admin-API
	// TODO: add admin middleware
	admin := r.Group("/admin")
	{
		admin.POST("/lot/init", handleInitLot(svcs))
		admin.DELETE("/fines/:id", handleRevokeFine(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Vehicle entry (idempotent)
// @Param    req body  EntryRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} gate.EntryResult
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "barred / lot full / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /gate/entry [post]
func handleEntry(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemEntry(req.Plate, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		res, err := svcs.Gate.ProcessEntry(
			c.Request.Context(),
			req.Plate,
			domain.VehicleType(strings.ToUpper(req.VehicleType)),
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, gate.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		status := http.StatusCreated
		if res.Existing {
			status = http.StatusOK
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(res)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(status, res)
	}
}

// @Summary  Vehicle exit and payment
// @Param    req body  ExitRequest true "payload"
// @Success  200 {object} domain.Receipt
// @Failure  400 {object} ErrorResponse "insufficient cash / bad input"
// @Failure  404 {object} ErrorResponse "no active ticket"
// @Router   /gate/exit [post]
func handleExit(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		receipt, err := svcs.Gate.ProcessExit(
			c.Request.Context(),
			req.Plate,
			domain.PaymentMethod(strings.ToUpper(req.Method)),
			req.TenderedCents,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}

// @Summary  Get active ticket
// @Param    plate  path  string  true  "Vehicle plate"
// @Success  200 {object} domain.Ticket
// @Failure  404 {object} ErrorResponse
// @Router   /tickets/{plate} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svcs.Tickets.GetActive(c.Request.Context(), c.Param("plate"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  List parking spots
// @Param    type  query  string  false  "COMPACT|REGULAR|HANDICAPPED|RESERVED"
// @Param    only  query  string  false  "free"
// @Success  200  {array}  domain.ParkingSpot
// @Router   /spots [get]
func handleListSpots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.SpotFilter{
			Type: domain.SpotType(strings.ToUpper(c.Query("type"))),
		}
		if c.Query("only") == "free" || c.Query("only_free") == "true" {
			filter.OnlyFree = true
		}
		if filter.Type != "" && !filter.Type.Valid() {
			badRequest(c, "invalid spot type")
			return
		}

		out, err := svcs.Spots.List(c.Request.Context(), filter)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Per-type availability counters
// @Success  200  {array}  domain.SpotTypeCount
// @Router   /spots/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Spots.Availability(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Issue a fine
// @Param    req body  IssueFineRequest true "payload"
// @Success  201 {object} domain.Fine
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "plate already barred"
// @Router   /fines [post]
func handleIssueFine(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IssueFineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		f, err := svcs.Fines.Issue(
			c.Request.Context(),
			req.Plate,
			req.Reason,
			domain.FineScheme(strings.ToUpper(req.Scheme)),
			req.OverstayHours,
		)
		if err != nil {
			if errors.Is(err, fines.ErrAlreadyBarred) && f != nil {
				c.JSON(http.StatusConflict, gin.H{
					"error": "plate already barred",
					"fine":  f,
				})
				return
			}
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, f)
	}
}

// @Summary  Pay outstanding fine
// @Param    req body  PayFineRequest true "payload"
// @Success  200 {object} PayFineResponse
// @Failure  400 {object} ErrorResponse
// @Router   /fines/pay [post]
func handlePayFine(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PayFineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		paid, err := svcs.Fines.Settle(
			c.Request.Context(),
			req.Plate,
			domain.PaymentMethod(strings.ToUpper(req.Method)),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, PayFineResponse{Paid: paid})
	}
}

// @Summary  List outstanding fines
// @Success  200  {array}  domain.Fine
// @Router   /fines/unpaid [get]
func handleUnpaidFines(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.Unpaid(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Fine history for a plate
// @Param    plate  path  string  true  "Vehicle plate"
// @Success  200  {array}  domain.Fine
// @Router   /fines/history/{plate} [get]
func handleFineHistory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.History(c.Request.Context(), c.Param("plate"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Fine revenue summary
// @Param    date  query  string  true  "YYYY, YYYY-MM or YYYY-MM-DD"
// @Success  200 {object} domain.RevenueSummary
// @Failure  400 {object} ErrorResponse
// @Router   /reports/revenue [get]
func handleRevenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.Revenue(c.Request.Context(), c.Query("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  Vehicles currently inside
// @Success  200  {array}  domain.VehicleLog
// @Router   /reports/vehicles/active [get]
func handleActiveVehicles(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.ActiveVehicles(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Full vehicle log
// @Success  200  {array}  domain.VehicleLog
// @Router   /reports/vehicles [get]
func handleVehicleLog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.VehicleLog(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Initialize lot layout
// @Param    req body  InitLotRequest true "payload"
// @Success  201 {object} InitLotResponse
// @Failure  409 {object} ErrorResponse "already initialized"
// @Router   /admin/lot/init [post]
func handleInitLot(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitLotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		created, err := svcs.Spots.InitializeLot(
			c.Request.Context(),
			req.Floors,
			req.RowsPerFloor,
			req.SlotsPerRow,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, InitLotResponse{Created: created})
	}
}

// @Summary  Revoke a fine
// @Param    id  path  string  true  "Fine ID"
// @Success  200 {object} RevokeFineResponse
// @Router   /admin/fines/{id} [delete]
func handleRevokeFine(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		revoked, err := svcs.Fines.Revoke(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, RevokeFineResponse{Revoked: revoked})
	}
}

// --- Helpers ---

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// gate service
	case errors.Is(err, gate.ErrInvalidPlate),
		errors.Is(err, gate.ErrInvalidVehicleType),
		errors.Is(err, gate.ErrInvalidMethod):
		badRequest(c, err.Error())
		return
	case errors.Is(err, gate.ErrInsufficientCash):
		badRequest(c, "insufficient cash")
		return
	case errors.Is(err, gate.ErrVehicleBarred):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "vehicle barred"})
		return
	case errors.Is(err, gate.ErrLotFull):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "lot full"})
		return
	case errors.Is(err, gate.ErrNoActiveTicket):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active ticket"})
		return
	// fines service
	case errors.Is(err, fines.ErrAlreadyBarred):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "plate already barred"})
		return
	case errors.Is(err, fines.ErrInvalidPlate),
		errors.Is(err, fines.ErrInvalidHours),
		errors.Is(err, fines.ErrInvalidMethod),
		errors.Is(err, fines.ErrEmptyReason):
		badRequest(c, err.Error())
		return
	// tickets service
	case errors.Is(err, tickets.ErrNoActiveTicket):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active ticket"})
		return
	case errors.Is(err, tickets.ErrInvalidPlate):
		badRequest(c, err.Error())
		return
	// spots service
	case errors.Is(err, spots.ErrLotInitialized):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "lot already initialized"})
		return
	case errors.Is(err, spots.ErrInvalidLayout):
		badRequest(c, err.Error())
		return
	case errors.Is(err, spots.ErrSpotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "spot not found"})
		return
	case errors.Is(err, spots.ErrSpotOccupied):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "spot occupied"})
		return
	case errors.Is(err, spots.ErrNoSpotAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no spot available"})
		return
	// reports service
	case errors.Is(err, reports.ErrInvalidDateFilter),
		errors.Is(err, reports.ErrInvalidPlate):
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
