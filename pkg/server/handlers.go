package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"f1score/pkg/data"
	"f1score/pkg/metrics"
	"f1score/pkg/score"
)

const (
	maxUploadBytes = 64 << 20

	manifestEchoLimit = 20
)

type scoreRequest struct {
	InputCSV string `json:"input_csv"`
}

type scoreResponse struct {
	Predictions string `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Healthy  bool            `json:"healthy"`
	Manifest *score.Manifest `json:"manifest,omitempty"`
}

type versionResponse struct {
	App       string   `json:"app"`
	Version   string   `json:"version"`
	Artifacts []string `json:"artifacts,omitempty"`
}

func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputCSV == "" {
		writeError(w, http.StatusBadRequest, "input_csv is required")
		return
	}
	if _, err := os.Stat(req.InputCSV); err != nil {
		writeError(w, http.StatusBadRequest, "input_csv is not readable")
		return
	}
	s.runPipeline(w, r, req.InputCSV)
}

func (s *Server) uploadAndScoreHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer f.Close()

	input := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+".csv")
	out, err := os.OpenFile(input, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if err := out.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(input)

	s.runPipeline(w, r, input)
}

// runPipeline executes one scoring run with a request-unique output path
// and records it in the ledger when a store is configured.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, input string) {
	output := filepath.Join(s.cfg.OutDir, "scored_"+uuid.NewString()+".csv")

	metrics.RecordRun()
	start := time.Now()

	res, err := score.Run(r.Context(), score.Options{
		InputPath:    input,
		OutputPath:   output,
		ArtifactsDir: s.cfg.ArtifactsDir,
	})
	metrics.RecordScoringDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordRunError()
		slog.Error("scoring run failed", "input", input, "error", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}
	metrics.RecordRows(len(res.Predictions), len(res.Excluded))

	if s.store != nil {
		run := &data.Run{
			Input:        input,
			Output:       output,
			RowsTotal:    res.RowsTotal,
			RowsScored:   len(res.Predictions),
			RowsExcluded: len(res.Excluded),
		}
		if res.Uncalibrated != nil {
			run.RMSERaw = res.Uncalibrated.RMSE
			run.MAERaw = res.Uncalibrated.MAE
		}
		if res.Calibrated != nil {
			run.RMSECal = res.Calibrated.RMSE
			run.MAECal = res.Calibrated.MAE
		}
		if err := s.store.SaveRun(run); err != nil {
			slog.Error("failed to record run", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, scoreResponse{Predictions: output})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{}
	a, err := score.LoadArtifacts(s.cfg.ArtifactsDir)
	if err == nil {
		resp.Healthy = true
		resp.Manifest = a.Manifest
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	resp := versionResponse{App: "f1score", Version: s.version}
	if a, err := score.LoadArtifacts(s.cfg.ArtifactsDir); err == nil && a.Manifest != nil {
		for name := range a.Manifest.Items {
			resp.Artifacts = append(resp.Artifacts, name)
			if len(resp.Artifacts) >= manifestEchoLimit {
				break
			}
		}
		sort.Strings(resp.Artifacts)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runsHandler(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run ledger not configured")
		return
	}
	runs, err := s.store.ListRuns(0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
