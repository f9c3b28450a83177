package spots

import (
	"context"
	"testing"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository"
	"github.com/karpale/parkgate/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTypeRule(t *testing.T) {
	tests := []struct {
		name       string
		floor, top int
		row, slot  int
		want       domain.SpotType
	}{
		{"first floor is accessible", 1, 5, 3, 4, domain.SpotHandicapped},
		{"top floor is reserved", 5, 5, 1, 1, domain.SpotReserved},
		{"slot one is compact", 3, 5, 2, 1, domain.SpotCompact},
		{"slot two is compact", 3, 5, 2, 2, domain.SpotCompact},
		{"slot three is regular", 3, 5, 2, 3, domain.SpotRegular},
		{"single-floor lot: floor one wins", 1, 1, 1, 1, domain.SpotHandicapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultTypeRule(tt.floor, tt.top, tt.row, tt.slot))
		})
	}
}

func TestCanAccommodate(t *testing.T) {
	tests := []struct {
		v    domain.VehicleType
		s    domain.SpotType
		want bool
	}{
		{domain.VehicleMotorcycle, domain.SpotCompact, true},
		{domain.VehicleMotorcycle, domain.SpotRegular, false},
		{domain.VehicleCar, domain.SpotCompact, true},
		{domain.VehicleCar, domain.SpotRegular, true},
		{domain.VehicleCar, domain.SpotHandicapped, false},
		{domain.VehicleSUV, domain.SpotRegular, true},
		{domain.VehicleSUV, domain.SpotCompact, false},
		{domain.VehicleTruck, domain.SpotRegular, true},
		{domain.VehicleTruck, domain.SpotReserved, false},
		{domain.VehicleHandicapped, domain.SpotHandicapped, true},
		{domain.VehicleHandicapped, domain.SpotCompact, true},
		{domain.VehicleHandicapped, domain.SpotReserved, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.v)+"_"+string(tt.s), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccommodate(tt.v, tt.s))
		})
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(memory.NewStore(), nil, nil, Config{})
}

func TestInitializeLot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.InitializeLot(ctx, 3, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 24, created)

	counts, err := svc.Availability(ctx)
	require.NoError(t, err)

	byType := map[domain.SpotType]int64{}
	for _, c := range counts {
		byType[c.Type] = c.Total
		assert.Equal(t, c.Total, c.Free, "fresh lot is fully free")
	}
	// floor 1: 8 accessible; floor 3: 8 reserved; floor 2: 2x2 compact + 2x2 regular
	assert.Equal(t, int64(8), byType[domain.SpotHandicapped])
	assert.Equal(t, int64(8), byType[domain.SpotReserved])
	assert.Equal(t, int64(4), byType[domain.SpotCompact])
	assert.Equal(t, int64(4), byType[domain.SpotRegular])
}

func TestInitializeLotTwice(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.InitializeLot(ctx, 2, 1, 1)
	require.NoError(t, err)

	_, err = svc.InitializeLot(ctx, 2, 1, 1)
	assert.ErrorIs(t, err, ErrLotInitialized)
}

func TestInitializeLotInvalidLayout(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.InitializeLot(context.Background(), 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = svc.InitializeLot(context.Background(), 1, -2, 1)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestAllocateAndRelease(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.InitializeLot(ctx, 3, 1, 3)
	require.NoError(t, err)

	// first compact spot on floor 2
	spotID, err := svc.FindAvailable(ctx, domain.SpotCompact)
	require.NoError(t, err)
	assert.Equal(t, "F2-R1-S1", spotID)

	require.NoError(t, svc.Allocate(ctx, spotID, "ABC123"))

	sp, err := svc.Get(ctx, spotID)
	require.NoError(t, err)
	assert.True(t, sp.Occupied)
	assert.Equal(t, "ABC123", sp.Plate)

	// occupied spots are skipped by the finder
	next, err := svc.FindAvailable(ctx, domain.SpotCompact)
	require.NoError(t, err)
	assert.Equal(t, "F2-R1-S2", next)

	err = svc.Allocate(ctx, spotID, "XYZ999")
	assert.ErrorIs(t, err, ErrSpotOccupied)

	require.NoError(t, svc.Release(ctx, spotID))

	sp, err = svc.Get(ctx, spotID)
	require.NoError(t, err)
	assert.False(t, sp.Occupied)
	assert.Empty(t, sp.Plate)

	// releasing a free spot is a no-op
	require.NoError(t, svc.Release(ctx, spotID))
}

func TestAllocateUnknownSpot(t *testing.T) {
	svc := newTestService(t)

	err := svc.Allocate(context.Background(), "F9-R9-S9", "ABC123")
	assert.ErrorIs(t, err, ErrSpotNotFound)

	err = svc.Release(context.Background(), "F9-R9-S9")
	assert.ErrorIs(t, err, ErrSpotNotFound)

	_, err = svc.Get(context.Background(), "F9-R9-S9")
	assert.ErrorIs(t, err, ErrSpotNotFound)
}

func TestFindAvailableExhausted(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.InitializeLot(ctx, 1, 1, 1)
	require.NoError(t, err)

	_, err = svc.FindAvailable(ctx, domain.SpotRegular)
	assert.ErrorIs(t, err, ErrNoSpotAvailable)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.InitializeLot(ctx, 3, 1, 3)
	require.NoError(t, err)
	require.NoError(t, svc.Allocate(ctx, "F2-R1-S1", "ABC123"))

	compact, err := svc.List(ctx, repository.SpotFilter{Type: domain.SpotCompact})
	require.NoError(t, err)
	assert.Len(t, compact, 2)

	freeCompact, err := svc.List(ctx, repository.SpotFilter{Type: domain.SpotCompact, OnlyFree: true})
	require.NoError(t, err)
	require.Len(t, freeCompact, 1)
	assert.Equal(t, "F2-R1-S2", freeCompact[0].SpotID)
}
