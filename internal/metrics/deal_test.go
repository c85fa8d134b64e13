package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipwell/compintel/internal/domain"
)

func ev(kind domain.EventKind, y int, m time.Month, d int, amount int64) *domain.TimelineEvent {
	return &domain.TimelineEvent{
		Kind:       kind,
		OccurredOn: domain.NewDate(y, m, d),
		Amount:     amount,
	}
}

func TestComputeDeal_BothEndpointsAbsent(t *testing.T) {
	deal, err := ComputeDeal(domain.ReconciledTimeline{})
	require.NoError(t, err)
	assert.Nil(t, deal.Spread)
	assert.Nil(t, deal.ReturnPercent)
	assert.Nil(t, deal.HoldingDays)
}

func TestComputeDeal_AcquisitionOnlyStaysAbsent(t *testing.T) {
	deal, err := ComputeDeal(domain.ReconciledTimeline{
		Acquisition: ev(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
	})
	require.NoError(t, err)
	assert.Nil(t, deal.Spread)
	assert.Nil(t, deal.ReturnPercent)
	assert.Nil(t, deal.HoldingDays)
}

func TestComputeDeal_ListingScenario(t *testing.T) {
	// Acquired 2022-07-11 for $1,358,000; listed 2023-10-15 at $2,950,000.
	deal, err := ComputeDeal(domain.ReconciledTimeline{
		Acquisition:            ev(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
		Disposition:            ev(domain.EventDisposedListing, 2023, time.October, 15, 2_950_000),
		DispositionProvisional: true,
	})
	require.NoError(t, err)

	require.NotNil(t, deal.Spread)
	assert.Equal(t, int64(1_592_000), *deal.Spread)
	require.NotNil(t, deal.ReturnPercent)
	assert.InDelta(t, 117.2, *deal.ReturnPercent, 0.05)
	require.NotNil(t, deal.HoldingDays)
	assert.Equal(t, 461, *deal.HoldingDays)
	assert.True(t, deal.Provisional)
}

func TestComputeDeal_NegativeHoldingIsInconsistency(t *testing.T) {
	_, err := ComputeDeal(domain.ReconciledTimeline{
		Acquisition: ev(domain.EventAcquired, 2023, time.May, 1, 1_000_000),
		Disposition: ev(domain.EventDisposedSale, 2022, time.May, 1, 1_500_000),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternalInconsistency)
}

func TestComputeDeal_NonPositiveAcquisitionAmountStaysAbsent(t *testing.T) {
	deal, err := ComputeDeal(domain.ReconciledTimeline{
		Acquisition: ev(domain.EventAcquired, 2022, time.July, 11, 0),
		Disposition: ev(domain.EventDisposedSale, 2023, time.July, 11, 1_500_000),
	})
	require.NoError(t, err)
	assert.Nil(t, deal.Spread)
	assert.Nil(t, deal.ReturnPercent)
	assert.Nil(t, deal.HoldingDays)
}

func TestComputeSize_Guards(t *testing.T) {
	before, after := 1662.0, 2980.0

	size := ComputeSize(&before, &after)
	require.NotNil(t, size.DeltaSF)
	assert.InDelta(t, 1318.0, *size.DeltaSF, 0.001)
	require.NotNil(t, size.PercentChange)
	assert.InDelta(t, 79.30, *size.PercentChange, 0.01)

	assert.Equal(t, domain.SizeDelta{}, ComputeSize(nil, &after))
	assert.Equal(t, domain.SizeDelta{}, ComputeSize(&before, nil))

	zero := 0.0
	size = ComputeSize(&zero, &after)
	require.NotNil(t, size.DeltaSF)
	assert.Nil(t, size.PercentChange)
}
