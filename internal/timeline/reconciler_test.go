package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipwell/compintel/internal/domain"
)

func event(kind domain.EventKind, y int, m time.Month, d int, amount int64) domain.TimelineEvent {
	return domain.TimelineEvent{
		Kind:       kind,
		OccurredOn: domain.NewDate(y, m, d),
		Amount:     amount,
		Provenance: string(kind),
	}
}

func TestReconcile_NoEvents(t *testing.T) {
	result, err := Reconcile(nil)
	require.NoError(t, err)
	assert.Nil(t, result.Acquisition)
	assert.Nil(t, result.Disposition)
	assert.False(t, result.DispositionProvisional)
}

func TestReconcile_SingleSaleNoListing(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Acquisition)
	assert.Equal(t, "2022-07-11", result.Acquisition.OccurredOn.String())
	assert.Nil(t, result.Disposition)
}

func TestReconcile_AcquisitionThenSale(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
		event(domain.EventDisposedSale, 2024, time.March, 3, 2_900_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Acquisition)
	require.NotNil(t, result.Disposition)
	assert.Equal(t, int64(2_900_000), result.Disposition.Amount)
	assert.False(t, result.DispositionProvisional)
}

func TestReconcile_LatestOfSeveralSalesWins(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventAcquired, 2018, time.May, 1, 900_000),
		event(domain.EventDisposedSale, 2020, time.June, 2, 1_200_000),
		event(domain.EventDisposedSale, 2023, time.September, 9, 1_750_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Disposition)
	assert.Equal(t, "2023-09-09", result.Disposition.OccurredOn.String())
}

func TestReconcile_ListingFallbackIsProvisional(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
		event(domain.EventDisposedListing, 2023, time.October, 15, 2_950_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Disposition)
	assert.Equal(t, domain.EventDisposedListing, result.Disposition.Kind)
	assert.Equal(t, int64(2_950_000), result.Disposition.Amount)
	assert.True(t, result.DispositionProvisional)
}

func TestReconcile_ListingBeforeAcquisitionIgnored(t *testing.T) {
	// A pre-purchase listing is the seller's, not a disposition candidate.
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventDisposedListing, 2022, time.May, 1, 1_400_000),
		event(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Acquisition)
	assert.Nil(t, result.Disposition)
}

func TestReconcile_SameDayDuplicatePrefersLargerAmount(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventAcquired, 2022, time.July, 11, 1_358_000),
		event(domain.EventDisposedSale, 2024, time.March, 3, 2_850_000),
		event(domain.EventDisposedSale, 2024, time.March, 3, 2_900_000),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Disposition)
	assert.Equal(t, int64(2_900_000), result.Disposition.Amount)
}

func TestReconcile_PriceChangesNeverBecomeEndpoints(t *testing.T) {
	result, err := Reconcile([]domain.TimelineEvent{
		event(domain.EventPriceChanged, 2023, time.November, 1, 2_800_000),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Acquisition)
	assert.Nil(t, result.Disposition)
}
