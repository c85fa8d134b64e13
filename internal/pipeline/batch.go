package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/domain"
)

// BatchItem is one asset's slot in a batch result. Exactly one of Report or
// Error is set: a failed asset never carries a partial report.
type BatchItem struct {
	AssetID string              `json:"asset_id"`
	Report  *domain.AssetReport `json:"report,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// BatchResult is the aggregated outcome of one batch run.
type BatchResult struct {
	RunID string      `json:"run_id"`
	Items []BatchItem `json:"items"`
}

// DefaultWorkers bounds batch concurrency.
const DefaultWorkers = 5

// RunBatch analyzes the assets concurrently on up to workers goroutines.
// Failure domains are isolated: one asset's inconsistency or panic marks its
// own slot failed and leaves siblings untouched. Output order matches input
// order. Context cancellation marks not-yet-started slots failed.
func (a *Analyzer) RunBatch(ctx context.Context, inputs []domain.AssetInput, workers int) BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	result := BatchResult{
		RunID: uuid.New().String(),
		Items: make([]BatchItem, len(inputs)),
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range inputs {
		if ctx.Err() != nil {
			result.Items[i] = BatchItem{
				AssetID: inputs[i].ID,
				Error:   fmt.Sprintf("not started: %v", ctx.Err()),
			}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			result.Items[i] = a.runOne(inputs[i])
		}(i)
	}

	wg.Wait()
	return result
}

func (a *Analyzer) runOne(input domain.AssetInput) (item BatchItem) {
	item.AssetID = input.ID

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("asset", input.ID).
				Interface("panic", r).
				Msg("asset pipeline panicked")
			item.Report = nil
			item.Error = fmt.Sprintf("analysis panicked: %v", r)
		}
	}()

	report, err := a.AnalyzeAsset(input)
	if err != nil {
		log.Warn().Str("asset", input.ID).Err(err).Msg("asset analysis failed")
		item.Error = err.Error()
		return item
	}
	item.Report = report
	return item
}
