// Package handlers provides HTTP handlers for the control-plane API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/api/middleware"
	"github.com/apsbridge/go-ledi/internal/domain/batch"
	"github.com/apsbridge/go-ledi/internal/domain/municipality"
)

const defaultBatchListLimit = 50

// DeliveryRunner triggers delivery runs against the PEC.
type DeliveryRunner interface {
	RunManual(ctx context.Context, municipalityID string) (*batch.DeliveryBatch, error)
	TestConnection(ctx context.Context, municipalityID string) error
}

// BatchReader serves batch history queries.
type BatchReader interface {
	GetByID(ctx context.Context, id string) (*batch.DeliveryBatch, error)
	ListByMunicipality(ctx context.Context, municipalityID string, limit int) ([]batch.DeliveryBatch, error)
	ListLogs(ctx context.Context, batchID string) ([]batch.Log, error)
}

// MunicipalityReader looks up municipality settings.
type MunicipalityReader interface {
	GetByID(ctx context.Context, id string) (*municipality.Municipality, error)
}

// DeliveryHandler exposes manual delivery runs and batch history.
type DeliveryHandler struct {
	runner         DeliveryRunner
	batches        BatchReader
	municipalities MunicipalityReader
	logger         *zap.Logger
}

// NewDeliveryHandler creates a new handler
func NewDeliveryHandler(runner DeliveryRunner, batches BatchReader,
	municipalities MunicipalityReader, logger *zap.Logger) *DeliveryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryHandler{
		runner:         runner,
		batches:        batches,
		municipalities: municipalities,
		logger:         logger,
	}
}

// Routes returns the handler routes
func (h *DeliveryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/municipalities/{id}/send", h.Send)
	r.Post("/municipalities/{id}/connection-test", h.TestConnection)
	r.Get("/batches", h.ListBatches)
	r.Get("/batches/{id}/logs", h.ListLogs)
	return r
}

// SendRequest is the request body for triggering a delivery run
type SendRequest struct {
	// Force runs the delivery even when the municipality integration is
	// marked INACTIVE.
	Force bool `json:"force"`
}

// SendResponse describes the settled batch of a manual run
type SendResponse struct {
	BatchID       string     `json:"batchId,omitempty"`
	Status        string     `json:"status"`
	Competence    string     `json:"competence,omitempty"`
	TotalRecords  int        `json:"totalRecords"`
	SentRecords   int        `json:"sentRecords"`
	FailedRecords int        `json:"failedRecords"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// Send handles POST /municipalities/{id}/send
func (h *DeliveryHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	tracer := otel.Tracer("delivery-handler")
	ctx, span := tracer.Start(ctx, "manual_send")
	defer span.End()
	span.SetAttributes(attribute.String("municipality_id", id))

	var req SendRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	m, err := h.municipalities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, municipality.ErrNotFound) {
			h.jsonError(w, "municipality not found", http.StatusNotFound)
			return
		}
		h.logger.Error("municipality lookup failed", zap.Error(err))
		h.jsonError(w, "failed to load municipality", http.StatusInternalServerError)
		return
	}

	if m.IntegrationStatus != municipality.StatusActive && !req.Force {
		h.jsonError(w, "integration is inactive; pass force to send anyway", http.StatusConflict)
		return
	}

	b, err := h.runner.RunManual(ctx, id)
	if err != nil {
		h.logger.Error("manual delivery run failed",
			zap.String("municipality_id", id),
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err))
		resp := SendResponse{Status: string(batch.StatusError)}
		if b != nil {
			resp.BatchID = b.ID
			resp.Status = string(b.Status)
			resp.Competence = b.Competence
			resp.CompletedAt = b.CompletedAt
		}
		h.writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	if b == nil {
		h.writeJSON(w, http.StatusOK, SendResponse{Status: "NO_PENDING_RECORDS"})
		return
	}

	h.logger.Info("manual delivery run settled",
		zap.String("municipality_id", id),
		zap.String("batch_id", b.ID),
		zap.String("status", string(b.Status)),
		zap.Int("sent", b.SentRecords),
		zap.Int("failed", b.FailedRecords))

	h.writeJSON(w, http.StatusOK, SendResponse{
		BatchID:       b.ID,
		Status:        string(b.Status),
		Competence:    b.Competence,
		TotalRecords:  b.TotalRecords,
		SentRecords:   b.SentRecords,
		FailedRecords: b.FailedRecords,
		CompletedAt:   b.CompletedAt,
	})
}

// TestConnection handles POST /municipalities/{id}/connection-test
func (h *DeliveryHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.runner.TestConnection(ctx, id); err != nil {
		if errors.Is(err, municipality.ErrNotFound) {
			h.jsonError(w, "municipality not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"connected": true})
}

// BatchSummary is one row of the batch history listing
type BatchSummary struct {
	ID            string     `json:"id"`
	Mode          string     `json:"mode"`
	Status        string     `json:"status"`
	Competence    string     `json:"competence"`
	FileName      string     `json:"fileName"`
	TotalRecords  int        `json:"totalRecords"`
	SentRecords   int        `json:"sentRecords"`
	FailedRecords int        `json:"failedRecords"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// ListBatches handles GET /batches?municipality={id}
func (h *DeliveryHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	municipalityID := r.URL.Query().Get("municipality")
	if municipalityID == "" {
		h.jsonError(w, "municipality query parameter is required", http.StatusBadRequest)
		return
	}

	limit := defaultBatchListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	batches, err := h.batches.ListByMunicipality(ctx, municipalityID, limit)
	if err != nil {
		h.logger.Error("batch listing failed", zap.Error(err))
		h.jsonError(w, "failed to list batches", http.StatusInternalServerError)
		return
	}

	summaries := make([]BatchSummary, 0, len(batches))
	for _, b := range batches {
		summaries = append(summaries, BatchSummary{
			ID:            b.ID,
			Mode:          string(b.Mode),
			Status:        string(b.Status),
			Competence:    b.Competence,
			FileName:      b.FileName,
			TotalRecords:  b.TotalRecords,
			SentRecords:   b.SentRecords,
			FailedRecords: b.FailedRecords,
			CreatedAt:     b.CreatedAt,
			CompletedAt:   b.CompletedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"batches": summaries})
}

// LogEntry is one per-record delivery trace in the batch log listing
type LogEntry struct {
	RecordID     string    `json:"recordId"`
	UUIDFicha    string    `json:"uuidFicha"`
	SheetType    string    `json:"sheetType"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	PayloadDebug string    `json:"payloadDebug,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListLogs handles GET /batches/{id}/logs
func (h *DeliveryHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.batches.GetByID(ctx, id); err != nil {
		if errors.Is(err, batch.ErrNotFound) {
			h.jsonError(w, "batch not found", http.StatusNotFound)
			return
		}
		h.logger.Error("batch lookup failed", zap.Error(err))
		h.jsonError(w, "failed to load batch", http.StatusInternalServerError)
		return
	}

	logs, err := h.batches.ListLogs(ctx, id)
	if err != nil {
		h.logger.Error("batch log listing failed", zap.Error(err))
		h.jsonError(w, "failed to list logs", http.StatusInternalServerError)
		return
	}

	entries := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, LogEntry{
			RecordID:     l.RecordID,
			UUIDFicha:    l.UUIDFicha,
			SheetType:    l.SheetType,
			Status:       string(l.Status),
			Message:      l.Message,
			PayloadDebug: l.PayloadDebug,
			CreatedAt:    l.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}

func (h *DeliveryHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *DeliveryHandler) jsonError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, map[string]string{"error": message})
}
