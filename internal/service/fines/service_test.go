package fines

import (
	"context"
	"testing"
	"time"

	"github.com/karpale/parkgate/internal/domain"
	"github.com/karpale/parkgate/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAmount(t *testing.T) {
	tests := []struct {
		name     string
		scheme   domain.FineScheme
		hours    float64
		want     int64
		fellBack bool
	}{
		{"fixed ignores hours", domain.SchemeFixed, 100, 5000, false},
		{"progressive first tier", domain.SchemeProgressive, 3, 5000, false},
		{"progressive boundary 24h inclusive", domain.SchemeProgressive, 24, 5000, false},
		{"progressive just past 24h", domain.SchemeProgressive, 24.01, 15000, false},
		{"progressive boundary 48h inclusive", domain.SchemeProgressive, 48, 15000, false},
		{"progressive third tier", domain.SchemeProgressive, 72, 30000, false},
		{"progressive beyond 72h", domain.SchemeProgressive, 80, 50000, false},
		{"hourly rounds up", domain.SchemeHourly, 1.1, 4000, false},
		{"hourly whole hours", domain.SchemeHourly, 3, 6000, false},
		{"hourly zero", domain.SchemeHourly, 0, 0, false},
		{"unknown falls back to fixed", domain.FineScheme("WEEKLY"), 10, 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := CalculateAmount(tt.scheme, tt.hours)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fellBack, fellBack)
		})
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(memory.NewStore(), nil)
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	f, err := svc.Issue(ctx, "abc123", "overstayed reservation", domain.SchemeFixed, 0)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", f.Plate)
	assert.Equal(t, int64(5000), f.AmountCents)
	assert.Equal(t, domain.SchemeFixed, f.Scheme)
	assert.False(t, f.Paid)
	assert.NotEmpty(t, f.FineID)

	barred, err := svc.IsBarred(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, barred)
}

func TestIssueSecondFineRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Issue(ctx, "ABC123", "overstay", domain.SchemeFixed, 0)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, "ABC123", "blocking a lane", domain.SchemeHourly, 2)
	require.ErrorIs(t, err, ErrAlreadyBarred)
	require.NotNil(t, second)
	assert.Equal(t, first.FineID, second.FineID, "existing fine is returned, not overwritten")

	history, err := svc.store.Fines().ListByPlate(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestIssueUnknownSchemeFallsBack(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	f, err := svc.Issue(ctx, "ABC123", "overstay", domain.FineScheme("WEEKLY"), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemeFixed, f.Scheme)
	assert.Equal(t, int64(5000), f.AmountCents)
}

func TestIssueValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Issue(ctx, "!!", "overstay", domain.SchemeFixed, 0)
	assert.ErrorIs(t, err, ErrInvalidPlate)

	_, err = svc.Issue(ctx, "ABC123", "   ", domain.SchemeFixed, 0)
	assert.ErrorIs(t, err, ErrEmptyReason)

	_, err = svc.Issue(ctx, "ABC123", "overstay", domain.SchemeHourly, -1)
	assert.ErrorIs(t, err, ErrInvalidHours)
}

func TestSettle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }

	_, err := svc.Issue(ctx, "ABC123", "overstay", domain.SchemeFixed, 0)
	require.NoError(t, err)

	paid, err := svc.Settle(ctx, "ABC123", domain.PayCard)
	require.NoError(t, err)
	assert.True(t, paid)

	unpaid, err := svc.GetUnpaid(ctx, "ABC123")
	require.NoError(t, err)
	assert.Nil(t, unpaid)

	settled, err := svc.GetPaid(ctx, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, settled)
	assert.Equal(t, domain.PayCard, settled.Method)
	require.NotNil(t, settled.PaidAt)
	assert.Equal(t, 2026, settled.PaidAt.Year())

	// no outstanding fine left: settling again is a no-op
	paid, err = svc.Settle(ctx, "ABC123", domain.PayCash)
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestSettleInvalidMethod(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Settle(context.Background(), "ABC123", domain.PaymentMethod("CHECK"))
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	f, err := svc.Issue(ctx, "ABC123", "overstay", domain.SchemeFixed, 0)
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, f.FineID)
	require.NoError(t, err)
	assert.True(t, revoked)

	barred, err := svc.IsBarred(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, barred)

	revoked, err = svc.Revoke(ctx, "F-nope")
	require.NoError(t, err)
	assert.False(t, revoked)
}
