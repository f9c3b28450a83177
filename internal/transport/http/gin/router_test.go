package httpgin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/karpale/parkgate/internal/repository/memory"
	"github.com/karpale/parkgate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	svcs := service.NewServices(store, nil, nil, nil, logger, service.Config{})

	return NewRouter(svcs, nil, logger)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func initLot(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/admin/lot/init", InitLotRequest{
		Floors: 3, RowsPerFloor: 1, SlotsPerRow: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitLot(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/admin/lot/init", InitLotRequest{
		Floors: 3, RowsPerFloor: 1, SlotsPerRow: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp InitLotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.Created)

	// double init conflicts
	w = doJSON(t, r, http.MethodPost, "/admin/lot/init", InitLotRequest{
		Floors: 1, RowsPerFloor: 1, SlotsPerRow: 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// bad geometry never reaches the service
	w = doJSON(t, r, http.MethodPost, "/admin/lot/init", map[string]int{
		"floors": -1, "rows_per_floor": 1, "slots_per_row": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryExitFlow(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{
		Plate: "abc123", VehicleType: "car",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry struct {
		Ticket struct {
			TicketID string `json:"ticket_id"`
			Plate    string `json:"plate"`
			SpotID   string `json:"spot_id"`
		} `json:"ticket"`
		Existing bool `json:"existing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "ABC123", entry.Ticket.Plate)
	assert.Equal(t, "F2-R1-S1", entry.Ticket.SpotID)
	assert.False(t, entry.Existing)

	// re-entry re-displays the existing ticket
	w = doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{
		Plate: "ABC123", VehicleType: "CAR",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.True(t, entry.Existing)

	w = doJSON(t, r, http.MethodGet, "/tickets/ABC123", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// minimum one billable hour on a compact spot
	w = doJSON(t, r, http.MethodPost, "/gate/exit", ExitRequest{
		Plate: "ABC123", Method: "card",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var receipt struct {
		DurationHours int64 `json:"duration_hours"`
		TotalCents    int64 `json:"total_cents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, int64(1), receipt.DurationHours)
	assert.Equal(t, int64(200), receipt.TotalCents)

	w = doJSON(t, r, http.MethodGet, "/tickets/ABC123", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/gate/exit", ExitRequest{
		Plate: "ABC123", Method: "CARD",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryValidation(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodPost, "/gate/entry", map[string]string{"plate": "ABC123"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing vehicle_type")

	w = doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{Plate: "ABC123", VehicleType: "BOAT"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{Plate: "!!", VehicleType: "CAR"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFineEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/fines", IssueFineRequest{
		Plate: "XYZ999", Reason: "overstayed", Scheme: "hourly", OverstayHours: 1.1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fine struct {
		FineID      string `json:"fine_id"`
		AmountCents int64  `json:"amount_cents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fine))
	assert.Equal(t, int64(4000), fine.AmountCents)

	// a second fine for the same plate conflicts
	w = doJSON(t, r, http.MethodPost, "/fines", IssueFineRequest{
		Plate: "XYZ999", Reason: "again", Scheme: "FIXED",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/fines/unpaid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unpaid []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unpaid))
	assert.Len(t, unpaid, 1)

	w = doJSON(t, r, http.MethodPost, "/fines/pay", PayFineRequest{Plate: "XYZ999", Method: "cash"})
	require.Equal(t, http.StatusOK, w.Code)
	var pay PayFineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pay))
	assert.True(t, pay.Paid)

	// nothing left to pay
	w = doJSON(t, r, http.MethodPost, "/fines/pay", PayFineRequest{Plate: "XYZ999", Method: "CASH"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pay))
	assert.False(t, pay.Paid)

	w = doJSON(t, r, http.MethodGet, "/fines/history/XYZ999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	w = doJSON(t, r, http.MethodDelete, "/admin/fines/"+fine.FineID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var revoke RevokeFineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &revoke))
	assert.True(t, revoke.Revoked)

	w = doJSON(t, r, http.MethodDelete, "/admin/fines/F-nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &revoke))
	assert.False(t, revoke.Revoked)
}

func TestBarredEntryBlockedAtExitOnlyUnderWarn(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodPost, "/fines", IssueFineRequest{
		Plate: "ABC123", Reason: "overstay", Scheme: "FIXED",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// default policy warns and admits
	w = doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{Plate: "ABC123", VehicleType: "CAR"})
	require.Equal(t, http.StatusCreated, w.Code)

	var entry struct {
		BarredWarning    bool  `json:"barred_warning"`
		OutstandingCents int64 `json:"outstanding_cents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.True(t, entry.BarredWarning)
	assert.Equal(t, int64(5000), entry.OutstandingCents)

	// the fine is folded into the exit total: 1h compact + 5000
	w = doJSON(t, r, http.MethodPost, "/gate/exit", ExitRequest{Plate: "ABC123", Method: "CASH", TenderedCents: 6000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var receipt struct {
		TotalCents  int64 `json:"total_cents"`
		ChangeCents int64 `json:"change_cents"`
		FineCents   int64 `json:"fine_cents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, int64(5200), receipt.TotalCents)
	assert.Equal(t, int64(800), receipt.ChangeCents)
	assert.Equal(t, int64(5000), receipt.FineCents)
}

func TestExitInsufficientCash(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{Plate: "ABC123", VehicleType: "CAR"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/gate/exit", ExitRequest{Plate: "ABC123", Method: "CASH", TenderedCents: 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSpotsEndpoints(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodGet, "/spots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 9)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	w = doJSON(t, r, http.MethodGet, "/spots?type=compact&only=free", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var compact []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &compact))
	assert.Len(t, compact, 2)

	w = doJSON(t, r, http.MethodGet, "/spots?type=boat", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/spots/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counts []struct {
		Type string `json:"type"`
		Free int64  `json:"free"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Len(t, counts, 4)
}

func TestReportsEndpoints(t *testing.T) {
	r := newTestRouter(t)
	initLot(t, r)

	w := doJSON(t, r, http.MethodGet, "/reports/revenue?date=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/reports/revenue?date=2026-02", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/gate/entry", EntryRequest{Plate: "ABC123", VehicleType: "CAR"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/reports/vehicles/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Len(t, active, 1)

	w = doJSON(t, r, http.MethodGet, "/reports/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
