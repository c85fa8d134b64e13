package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/vocab"
)

func newTestClassifier() *Classifier {
	return New(DefaultConfig(), vocab.Default())
}

func TestClassifyRow_TaxRowRejectedRegardlessOfAmount(t *testing.T) {
	c := newTestClassifier()

	// Sub-floor tax amount.
	out := c.ClassifyRow(domain.RawTransactionRow{
		Label: "Property Tax", Date: "2021-01-01", Amount: "15403",
	})
	require.False(t, out.Accepted())
	assert.Equal(t, domain.RejectDenylistedVocabulary, out.Rejection.Reason)

	// A large assessment must still reject on vocabulary, not sneak past the
	// floor check.
	out = c.ClassifyRow(domain.RawTransactionRow{
		Label: "Assessed Value", Date: "2021-01-01", Amount: "$1,250,000",
	})
	require.False(t, out.Accepted())
	assert.Equal(t, domain.RejectDenylistedVocabulary, out.Rejection.Reason)
}

func TestClassifyRow_FloorRejectsFeeSizedAmounts(t *testing.T) {
	c := newTestClassifier()

	out := c.ClassifyRow(domain.RawTransactionRow{
		Label: "Sold (Public Records)", Date: "Jul 11, 2022", Amount: "$15,403",
	})
	require.False(t, out.Accepted())
	assert.Equal(t, domain.RejectAmountBelowFloor, out.Rejection.Reason)
}

func TestClassifyRow_MissingOrStarredAmountRejected(t *testing.T) {
	c := newTestClassifier()

	for _, amount := range []string{"", "*"} {
		out := c.ClassifyRow(domain.RawTransactionRow{
			Label: "Listed (Active)", Date: "Oct 15, 2023", Amount: amount,
		})
		require.False(t, out.Accepted(), "amount %q", amount)
		assert.Equal(t, domain.RejectAmountMissing, out.Rejection.Reason)
	}
}

func TestClassifyRow_BadDateRejected(t *testing.T) {
	c := newTestClassifier()

	out := c.ClassifyRow(domain.RawTransactionRow{
		Label: "Sold (MLS)", Date: "sometime in 2022", Amount: "$1,358,000",
	})
	require.False(t, out.Accepted())
	assert.Equal(t, domain.RejectUnparseableDate, out.Rejection.Reason)
}

func TestClassifyRow_UnrecognizedLabelRejected(t *testing.T) {
	c := newTestClassifier()

	out := c.ClassifyRow(domain.RawTransactionRow{
		Label: "Escrow opened", Date: "Jul 11, 2022", Amount: "$1,358,000",
	})
	require.False(t, out.Accepted())
	assert.Equal(t, domain.RejectUnrecognizedLabel, out.Rejection.Reason)
}

func TestClassifyRow_ParsesCurrencyAndDateLayouts(t *testing.T) {
	c := newTestClassifier()

	cases := []struct {
		date string
		want domain.Date
	}{
		{"Jul 11, 2022", domain.NewDate(2022, time.July, 11)},
		{"07/11/2022", domain.NewDate(2022, time.July, 11)},
		{"7/11/2022", domain.NewDate(2022, time.July, 11)},
		{"2022-07-11", domain.NewDate(2022, time.July, 11)},
	}
	for _, tc := range cases {
		out := c.ClassifyRow(domain.RawTransactionRow{
			Label: "Sold (Public Records)", Date: tc.date, Amount: "$1,358,000",
		})
		require.True(t, out.Accepted(), tc.date)
		assert.True(t, tc.want.Equal(out.Event.OccurredOn), tc.date)
		assert.Equal(t, int64(1_358_000), out.Event.Amount)
	}
}

func TestClassifyRows_EarliestSaleBecomesAcquisition(t *testing.T) {
	c := newTestClassifier()

	events, rejected := c.ClassifyRows([]domain.RawTransactionRow{
		{Label: "Sold (MLS)", Date: "Mar 3, 2024", Amount: "$2,900,000"},
		{Label: "Listed (Active)", Date: "Oct 15, 2023", Amount: "$2,950,000"},
		{Label: "Sold (Public Records)", Date: "Jul 11, 2022", Amount: "$1,358,000"},
	})
	require.Empty(t, rejected)
	require.Len(t, events, 3)

	// Date ascending with the earliest sale relabeled acquired.
	assert.Equal(t, domain.EventAcquired, events[0].Kind)
	assert.Equal(t, "2022-07-11", events[0].OccurredOn.String())
	assert.Equal(t, domain.EventDisposedListing, events[1].Kind)
	assert.Equal(t, domain.EventDisposedSale, events[2].Kind)
}

func TestClassifyRows_RejectionLogCarriesReasons(t *testing.T) {
	c := newTestClassifier()

	events, rejected := c.ClassifyRows([]domain.RawTransactionRow{
		{Label: "Property Tax", Date: "2021-01-01", Amount: "15403"},
	})
	assert.Empty(t, events)
	require.Len(t, rejected, 1)
	assert.Equal(t, domain.SourceTransactions, rejected[0].Source)
	assert.Equal(t, domain.RejectDenylistedVocabulary, rejected[0].Reason)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"$1,358,000", 1_358_000, true},
		{"1358000", 1_358_000, true},
		{" $2,950,000 ", 2_950_000, true},
		{"*", 0, false},
		{"", 0, false},
		{"$", 0, false},
		{"1.5M", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
