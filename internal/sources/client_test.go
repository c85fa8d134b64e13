package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:           baseURL,
		RequestsPerSecond: 1000,
		Timeout:           2 * time.Second,
	})
}

func TestFetchAsset_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/stewart-ave/rows", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"transactions": [
				{"label": "Sold (Public Records)", "date": "Jul 11, 2022", "amount": "$1,358,000"}
			],
			"records": [
				{"identifier": "22016-10000-01234"}
			]
		}`)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).FetchAsset(context.Background(), "stewart-ave")
	require.True(t, res.OK)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Sold (Public Records)", res.Transactions[0].Label)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "22016-10000-01234", res.Records[0].Identifier)
}

func TestFetchAsset_EmptyRowsIsStillSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transactions": [], "records": []}`)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).FetchAsset(context.Background(), "vacant")
	assert.True(t, res.OK)
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.FailureReason)
}

func TestFetchAsset_ServerErrorIsTaggedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scrape backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).FetchAsset(context.Background(), "stewart-ave")
	assert.False(t, res.OK)
	assert.Contains(t, res.FailureReason, "status 502")
	assert.Nil(t, res.Transactions)
}

func TestFetchAsset_MalformedBodyIsTaggedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transactions": [`)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).FetchAsset(context.Background(), "stewart-ave")
	assert.False(t, res.OK)
	assert.Contains(t, res.FailureReason, "decode")
}

func TestFetchAsset_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 8; i++ {
		res := c.FetchAsset(context.Background(), "stewart-ave")
		assert.False(t, res.OK)
	}

	// Once the breaker opens the upstream stops seeing requests.
	assert.LessOrEqual(t, atomic.LoadInt32(&hits), int32(5))
}

func TestFetchAsset_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestClient("http://127.0.0.1:0").FetchAsset(ctx, "stewart-ave")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.FailureReason)
}
