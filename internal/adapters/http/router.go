package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YoanLn/Kiwi/internal/config"
	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
	"github.com/YoanLn/Kiwi/internal/observability/metrics"
)

const (
	serviceName = "api"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ClaimExporter renders a claim's verification outcomes as an XLSX workbook.
type ClaimExporter interface {
	ExportClaimXLSX(ctx context.Context, claimID string) ([]byte, error)
}

type Router struct {
	cfg      config.Config
	ingest   ports.DocumentIngestor
	verifier ports.DocumentVerifier
	reviewer ports.DocumentReviewer
	searcher ports.DocumentSearcher
	repo     ports.DocumentRepository
	exporter ClaimExporter
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	verifier ports.DocumentVerifier,
	reviewer ports.DocumentReviewer,
	searcher ports.DocumentSearcher,
	repo ports.DocumentRepository,
	exporter ClaimExporter,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		ingest:   ingest,
		verifier: verifier,
		reviewer: reviewer,
		searcher: searcher,
		repo:     repo,
		exporter: exporter,
		metrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.HandleFunc("/v1/verify", rt.verifySync)
	mux.HandleFunc("/v1/search", rt.search)
	mux.HandleFunc("/v1/claims/", rt.claimSubtree)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = rt.trafficControl(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

// trafficControl applies the rate limit and backpressure gates to the API
// surface. Health and metrics probes bypass both.
func (rt *Router) trafficControl(next http.Handler) http.Handler {
	limited := next
	if rt.cfg.APIMaxConcurrent > 0 {
		limited = backpressureMiddleware(limited, rt.cfg.APIMaxConcurrent, time.Duration(rt.cfg.APIQueueWaitMillis)*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		limited = rateLimitMiddleware(limited, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.limitBody(w, r)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		r.FormValue("claim_id"),
		r.FormValue("document_type"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, doc.DeclaredType)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

// documentSubtree dispatches /v1/documents/{id} and /v1/documents/{id}/review.
func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id, ok := strings.CutSuffix(rest, "/review"); ok {
		rt.reviewDocument(w, r, id)
		return
	}
	rt.getDocumentByID(w, r, rest)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) reviewDocument(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	outcome, err := rt.reviewer.Review(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// verifySync runs the verification pipeline inline, without persisting
// anything. Useful for pre-upload checks and integrations.
func (rt *Router) verifySync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.limitBody(w, r)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read uploaded file: " + err.Error()})
		return
	}

	outcome, err := rt.verifier.Verify(
		r.Context(),
		content,
		r.FormValue("document_type"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordVerification(serviceName, string(outcome.Status), outcome.Confidence)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := domain.SearchFilter{Category: r.URL.Query().Get("category")}

	chunks, err := rt.searcher.Search(r.Context(), query, limit, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSearch(serviceName, len(chunks))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": chunks,
		"count":   len(chunks),
	})
}

// claimSubtree dispatches /v1/claims/{id}/export.xlsx.
func (rt *Router) claimSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/claims/")
	claimID, ok := strings.CutSuffix(rest, "/export.xlsx")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if claimID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "claim id is required"})
		return
	}

	workbook, err := rt.exporter.ExportClaimXLSX(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordExport(serviceName)
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="claim-`+claimID+`-verification.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (rt *Router) limitBody(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.APIMaxUploadMegabyte > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(rt.cfg.APIMaxUploadMegabyte)<<20)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
