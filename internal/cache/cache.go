// Package cache keeps finished asset reports in Redis, keyed by a fingerprint
// of the full input. Because analysis is deterministic, a fingerprint hit can
// be served without rerunning the pipeline. The cache is strictly best-effort;
// Redis being down degrades to recomputation, never to an error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/telemetry"
)

const keyPrefix = "compintel:report:"

// ReportCache stores serialized AssetReports with a TTL.
type ReportCache struct {
	client redis.Cmdable
	ttl    time.Duration
	tel    *telemetry.Registry
}

// New builds a report cache. tel may be nil.
func New(client redis.Cmdable, ttl time.Duration, tel *telemetry.Registry) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, tel: tel}
}

// Fingerprint hashes the canonical JSON form of the input. Any change to the
// raw rows, size figures, or facts produces a different key.
func Fingerprint(input domain.AssetInput) (string, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("fingerprint input: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached report for the input, or (nil, false) on a miss.
// Redis errors count as misses.
func (c *ReportCache) Get(ctx context.Context, input domain.AssetInput) (*domain.AssetReport, bool) {
	key, err := Fingerprint(input)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("asset", input.ID).Msg("report cache read failed")
		}
		c.miss()
		return nil, false
	}

	var report domain.AssetReport
	if err := json.Unmarshal(raw, &report); err != nil {
		log.Warn().Err(err).Str("asset", input.ID).Msg("report cache entry corrupt")
		c.miss()
		return nil, false
	}

	c.hit()
	return &report, true
}

// Put stores the report under the input's fingerprint. Failures are logged
// and swallowed.
func (c *ReportCache) Put(ctx context.Context, input domain.AssetInput, report *domain.AssetReport) {
	key, err := Fingerprint(input)
	if err != nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Str("asset", input.ID).Msg("report cache encode failed")
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("asset", input.ID).Msg("report cache write failed")
	}
}

func (c *ReportCache) hit() {
	if c.tel != nil {
		c.tel.CacheHits.Inc()
	}
}

func (c *ReportCache) miss() {
	if c.tel != nil {
		c.tel.CacheMisses.Inc()
	}
}
