package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSpots(t *testing.T, s *Store) {
	t.Helper()
	err := s.Spots().BulkCreate(context.Background(), []domain.ParkingSpot{
		{SpotID: "F1-R1-S1", Floor: 1, Row: 1, Slot: 1, Type: domain.SpotCompact},
		{SpotID: "F1-R1-S2", Floor: 1, Row: 1, Slot: 2, Type: domain.SpotRegular},
	})
	require.NoError(t, err)
}

func TestBulkCreateRejectsNonEmptyRegistry(t *testing.T) {
	s := NewStore()
	seedSpots(t, s)

	err := s.Spots().BulkCreate(context.Background(), []domain.ParkingSpot{
		{SpotID: "F2-R1-S1", Floor: 2, Row: 1, Slot: 1, Type: domain.SpotCompact},
	})
	assert.ErrorIs(t, err, repository.ErrNotEmpty)
}

func TestSetOccupiedConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedSpots(t, s)

	require.NoError(t, s.Spots().SetOccupied(ctx, "F1-R1-S1", "ABC123"))

	err := s.Spots().SetOccupied(ctx, "F1-R1-S1", "XYZ999")
	assert.ErrorIs(t, err, repository.ErrSpotOccupied)

	err = s.Spots().SetOccupied(ctx, "F9-R9-S9", "ABC123")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedSpots(t, s)

	boom := errors.New("boom")
	err := s.RunTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := st.Spots().SetOccupied(ctx, "F1-R1-S1", "ABC123"); err != nil {
			return err
		}
		if err := st.Tickets().Create(ctx, &domain.Ticket{
			TicketID: "T-1", Plate: "ABC123", SpotID: "F1-R1-S1",
			VehicleType: domain.VehicleCar, EntryAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	sp, err := s.Spots().Get(ctx, "F1-R1-S1")
	require.NoError(t, err)
	assert.False(t, sp.Occupied, "occupancy rolled back")

	_, err = s.Tickets().GetActiveByPlate(ctx, "ABC123")
	assert.ErrorIs(t, err, repository.ErrNoActiveTicket)
}

func TestRunTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedSpots(t, s)

	err := s.RunTx(ctx, func(ctx context.Context, st repository.Store) error {
		return st.Spots().SetOccupied(ctx, "F1-R1-S1", "ABC123")
	})
	require.NoError(t, err)

	sp, err := s.Spots().Get(ctx, "F1-R1-S1")
	require.NoError(t, err)
	assert.True(t, sp.Occupied)
}

func TestFineOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	issued := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	older := domain.Fine{FineID: "F-1", Plate: "ABC123", Scheme: domain.SchemeFixed, AmountCents: 5000, Reason: "a", IssuedAt: issued.Add(-time.Hour), Paid: true}
	newer := domain.Fine{FineID: "F-2", Plate: "ABC123", Scheme: domain.SchemeFixed, AmountCents: 5000, Reason: "b", IssuedAt: issued}
	require.NoError(t, s.Fines().Create(ctx, &older))
	require.NoError(t, s.Fines().Create(ctx, &newer))

	history, err := s.Fines().ListByPlate(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "F-2", history[0].FineID, "most recent first")

	unpaid, err := s.Fines().GetByPlate(ctx, "ABC123", false)
	require.NoError(t, err)
	assert.Equal(t, "F-2", unpaid.FineID)

	paid, err := s.Fines().GetByPlate(ctx, "ABC123", true)
	require.NoError(t, err)
	assert.Equal(t, "F-1", paid.FineID)

	_, err = s.Fines().GetByPlate(ctx, "XYZ999", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFineCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	f := domain.Fine{FineID: "F-1", Plate: "ABC123", Scheme: domain.SchemeFixed, AmountCents: 5000, Reason: "a", IssuedAt: time.Now()}
	require.NoError(t, s.Fines().Create(ctx, &f))

	err := s.Fines().Create(ctx, &f)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRevenueByDatePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	mk := func(id string, paidAt time.Time, cents int64) {
		f := domain.Fine{FineID: id, Plate: "P-" + id, Scheme: domain.SchemeFixed, AmountCents: cents, Reason: "r", IssuedAt: paidAt.Add(-time.Hour)}
		require.NoError(t, s.Fines().Create(ctx, &f))
		require.NoError(t, s.Fines().MarkPaid(ctx, id, domain.PayCard, paidAt))
	}
	mk("F-1", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), 5000)
	mk("F-2", time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), 15000)
	mk("F-3", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 2000)

	// unpaid fines never count
	open := domain.Fine{FineID: "F-4", Plate: "ABC123", Scheme: domain.SchemeFixed, AmountCents: 9999, Reason: "r", IssuedAt: time.Now()}
	require.NoError(t, s.Fines().Create(ctx, &open))

	month, err := s.Fines().RevenueByDatePrefix(ctx, "2026-02")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), month.TotalCents)
	assert.Equal(t, int64(2), month.Count)

	day, err := s.Fines().RevenueByDatePrefix(ctx, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), day.TotalCents)

	year, err := s.Fines().RevenueByDatePrefix(ctx, "2026")
	require.NoError(t, err)
	assert.Equal(t, int64(22000), year.TotalCents)
	assert.Equal(t, int64(3), year.Count)

	empty, err := s.Fines().RevenueByDatePrefix(ctx, "2025")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCents)
	assert.Zero(t, empty.Count)
}

func TestTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tk := domain.Ticket{TicketID: "T-1", Plate: "ABC123", SpotID: "F1-R1-S1", VehicleType: domain.VehicleCar, EntryAt: time.Now()}
	require.NoError(t, s.Tickets().Create(ctx, &tk))

	err := s.Tickets().Create(ctx, &domain.Ticket{TicketID: "T-2", Plate: "ABC123"})
	assert.ErrorIs(t, err, repository.ErrConflict, "one active ticket per plate")

	deleted, err := s.Tickets().Delete(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Tickets().Delete(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestVehicleLogStampExit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	entry := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.VehicleLogs().Append(ctx, &domain.VehicleLog{
		TicketID: "T-1", Plate: "ABC123", SpotID: "F1-R1-S1",
		VehicleType: domain.VehicleCar, EntryAt: entry,
	}))

	active, err := s.VehicleLogs().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	stamped, err := s.VehicleLogs().StampExit(ctx, "T-1", entry.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, stamped)

	active, err = s.VehicleLogs().ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	stamped, err = s.VehicleLogs().StampExit(ctx, "T-9", entry)
	require.NoError(t, err)
	assert.False(t, stamped)

	all, err := s.VehicleLogs().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].ExitAt)
}
