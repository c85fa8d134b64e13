package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/domain"
	"github.com/flipwell/compintel/internal/persistence"
	"github.com/flipwell/compintel/internal/pipeline"
)

// analyzeRequest is the POST /v1/analyze body. Assets carry inline raw rows;
// IDs name assets whose rows the server fetches from the collaborator.
type analyzeRequest struct {
	Assets []domain.AssetInput `json:"assets,omitempty"`
	IDs    []string            `json:"ids,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleAnalyze runs one batch. Cached reports are served without
// recomputation; fresh reports go into the cache and the full run into the
// archive when those collaborators are wired.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	total := len(req.Assets) + len(req.IDs)
	if total == 0 {
		writeError(w, http.StatusBadRequest, "assets and ids must not both be empty")
		return
	}
	if total > s.cfg.Batch.MaxAssets {
		writeError(w, http.StatusBadRequest,
			"batch size "+strconv.Itoa(total)+" exceeds limit "+strconv.Itoa(s.cfg.Batch.MaxAssets))
		return
	}
	if len(req.IDs) > 0 && s.fetcher == nil {
		writeError(w, http.StatusBadRequest, "ids require a configured sources collaborator")
		return
	}

	ctx := r.Context()

	// Resolve ids through the collaborator. A failed fetch occupies its slot
	// as an error without touching the pipeline.
	inputs := req.Assets
	fetchFailed := make(map[int]string)
	for _, id := range req.IDs {
		idx := len(inputs)
		res := s.fetcher.FetchAsset(ctx, id)
		if !res.OK {
			inputs = append(inputs, domain.AssetInput{ID: id})
			fetchFailed[idx] = res.FailureReason
			continue
		}
		inputs = append(inputs, domain.AssetInput{
			ID:           id,
			Transactions: res.Transactions,
			Records:      res.Records,
		})
	}

	// Partition the rest into cached hits and assets that need the pipeline.
	cached := make(map[int]*domain.AssetReport)
	var pending []domain.AssetInput
	var pendingIdx []int
	for i, input := range inputs {
		if _, failed := fetchFailed[i]; failed {
			continue
		}
		if s.cache != nil {
			if report, ok := s.cache.Get(ctx, input); ok {
				cached[i] = report
				continue
			}
		}
		pending = append(pending, input)
		pendingIdx = append(pendingIdx, i)
	}

	fresh := s.analyzer.RunBatch(ctx, pending, s.cfg.Batch.Workers)

	result := pipeline.BatchResult{
		RunID: fresh.RunID,
		Items: make([]pipeline.BatchItem, len(inputs)),
	}
	for i, reason := range fetchFailed {
		result.Items[i] = pipeline.BatchItem{AssetID: inputs[i].ID, Error: "fetch failed: " + reason}
	}
	for i, report := range cached {
		result.Items[i] = pipeline.BatchItem{AssetID: report.AssetID, Report: report}
	}
	for j, item := range fresh.Items {
		i := pendingIdx[j]
		result.Items[i] = item
		if s.cache != nil && item.Report != nil {
			s.cache.Put(ctx, inputs[i], item.Report)
		}
	}

	if s.archive != nil {
		if err := s.archive.SaveRun(ctx, result); err != nil {
			log.Warn().Err(err).Str("run", result.RunID).Msg("run archive write failed")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "run archive not configured")
		return
	}

	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.archive.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list runs: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "run archive not configured")
		return
	}

	runID := mux.Vars(r)["id"]
	result, err := s.archive.GetRun(r.Context(), runID)
	if errors.Is(err, persistence.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run "+runID+" not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load run: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
