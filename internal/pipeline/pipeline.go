// Package pipeline wires the classification, reconciliation, and metrics
// stages into the per-asset analysis flow and runs bounded batches of
// independent assets. Each asset owns its inputs and outputs; nothing is
// shared or mutated across assets.
package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/classify"
	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/metrics"
	"github.com/flipwell/compintel/internal/permits"
	"github.com/flipwell/compintel/internal/telemetry"
	"github.com/flipwell/compintel/internal/timeline"
	"github.com/flipwell/compintel/internal/vocab"
)

// Analyzer runs the full per-asset pipeline. Stateless between runs and safe
// for concurrent use.
type Analyzer struct {
	classifier *classify.Classifier
	extractor  *permits.Extractor
	cutoffYear int
	telemetry  *telemetry.Registry
}

// Config holds the analyzer knobs.
type Config struct {
	Classifier classify.Config `yaml:"classifier"`
	// CutoffYear drops dormant process records from primary selection.
	CutoffYear int `yaml:"cutoff_year"`
}

// DefaultConfig returns the production analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Classifier: classify.DefaultConfig(),
		CutoffYear: permits.DefaultCutoffYear,
	}
}

// NewAnalyzer builds an analyzer. The telemetry registry may be nil, e.g. in
// tests or one-shot CLI runs.
func NewAnalyzer(cfg Config, table *vocab.Table, tel *telemetry.Registry) *Analyzer {
	if cfg.CutoffYear <= 0 {
		cfg.CutoffYear = permits.DefaultCutoffYear
	}
	return &Analyzer{
		classifier: classify.New(cfg.Classifier, table),
		extractor:  permits.NewExtractor(table),
		cutoffYear: cfg.CutoffYear,
		telemetry:  tel,
	}
}

// AnalyzeAsset runs stages 1-5 for one asset. The error return is reserved
// for internal inconsistencies; absent data flows through as explicit
// absences on the report.
func (a *Analyzer) AnalyzeAsset(input domain.AssetInput) (*domain.AssetReport, error) {
	started := time.Now()

	events, rejections := a.classifier.ClassifyRows(input.Transactions)

	reconciled, err := timeline.Reconcile(events)
	if err != nil {
		a.observe("failed", started, rejections)
		return nil, err
	}

	recordSets := make([]permits.RecordMilestones, 0, len(input.Records))
	passthrough := make([]domain.ProcessRecord, 0, len(input.Records))
	for _, rec := range input.Records {
		set, rej := a.extractor.Extract(rec)
		recordSets = append(recordSets, set)
		rejections = append(rejections, rej...)

		rec.Parties = permits.NormalizeParties(rec.Parties)
		passthrough = append(passthrough, rec)
	}

	var milestones domain.MilestoneTriple
	if primary := permits.ChoosePrimary(recordSets, input.PrimaryRecord, a.cutoffYear); primary != nil {
		milestones = primary.Set
	}

	deal, err := metrics.ComputeDeal(reconciled)
	if err != nil {
		a.observe("failed", started, rejections)
		return nil, err
	}

	var acquiredOn *domain.Date
	if reconciled.Acquisition != nil {
		d := reconciled.Acquisition.OccurredOn
		acquiredOn = &d
	}

	report := &domain.AssetReport{
		AssetID:    input.ID,
		Address:    input.Address,
		Timeline:   reconciled,
		Deal:       deal,
		Size:       metrics.ComputeSize(input.SizeBeforeSF, input.SizeAfterSF),
		Milestones: milestones,
		Durations:  metrics.ComputeDurations(acquiredOn, milestones),
		Records:    passthrough,
		Facts:      input.Facts,
		Rejections: rejections,
	}

	a.observe("ok", started, rejections)
	log.Debug().
		Str("asset", input.ID).
		Int("events", len(events)).
		Int("rejections", len(rejections)).
		Msg("asset analyzed")

	return report, nil
}

func (a *Analyzer) observe(outcome string, started time.Time, rejections []domain.RejectedRow) {
	if a.telemetry == nil {
		return
	}
	a.telemetry.AssetsAnalyzed.WithLabelValues(outcome).Inc()
	a.telemetry.PipelineDuration.Observe(time.Since(started).Seconds())
	for _, r := range rejections {
		a.telemetry.RowsRejected.WithLabelValues(string(r.Source), string(r.Reason)).Inc()
	}
}
