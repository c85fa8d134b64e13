// Package sources talks to the external fetch collaborators that own
// document scraping and parsing. The client returns tagged FetchResults so a
// failed fetch is always distinguishable from a successful fetch that found
// no rows; sentinel values never travel through the raw-row channel.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/flipwell/compintel/internal/domain"
)

// rowsPayload is the collaborator's wire shape for one asset's raw rows.
type rowsPayload struct {
	Transactions []domain.RawTransactionRow `json:"transactions"`
	Records      []domain.ProcessRecord     `json:"records"`
}

// Client fetches raw rows from the collaborator service. Calls are paced by a
// rate limiter and guarded by a circuit breaker so a struggling upstream
// degrades into tagged failures instead of piling up timeouts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// Config holds the client knobs.
type Config struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// NewClient builds a collaborator client.
func NewClient(cfg Config) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1.0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "fetch-collaborator",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("fetch breaker state change")
		},
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// FetchAsset retrieves one asset's raw transaction rows and process records.
// Every failure mode (pacing interrupted, breaker open, transport error,
// non-200, bad body) comes back as a tagged failure, never an error that
// aborts a batch.
func (c *Client) FetchAsset(ctx context.Context, assetID string) domain.FetchResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.FetchFailed(fmt.Sprintf("request pacing interrupted: %v", err))
	}

	payload, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchRows(ctx, assetID)
	})
	if err != nil {
		log.Warn().Str("asset", assetID).Err(err).Msg("collaborator fetch failed")
		return domain.FetchFailed(err.Error())
	}

	rows := payload.(*rowsPayload)
	return domain.FetchOK(rows.Transactions, rows.Records)
}

func (c *Client) fetchRows(ctx context.Context, assetID string) (*rowsPayload, error) {
	endpoint := fmt.Sprintf("%s/assets/%s/rows", c.baseURL, url.PathEscape(assetID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", assetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", assetID, resp.StatusCode, body)
	}

	var rows rowsPayload
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows for %s: %w", assetID, err)
	}
	return &rows, nil
}
