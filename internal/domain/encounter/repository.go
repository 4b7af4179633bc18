package encounter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Repository persists encounter records in PostgreSQL.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRepository creates an encounter repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("encounter-repository"),
	}
}

// Insert stores a newly ingested record with its initial status.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	ctx, span := r.tracer.Start(ctx, "encounter_insert",
		trace.WithAttributes(attribute.String("record_id", rec.ID)))
	defer span.End()

	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO encounter_records
			(id, municipality_id, system, status, legacy, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.MunicipalityID, rec.System, rec.Status, rec.Legacy, payload)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// FetchEligible returns records ready for delivery. Scheduled runs take only
// PENDENTE_ENVIO; manual runs also pick up ERRO_ENVIO retries. Records parked
// under the legacy storage layout never enter a batch.
func (r *Repository) FetchEligible(ctx context.Context, municipalityID string, includeSendErrors bool, limit int) ([]Record, error) {
	ctx, span := r.tracer.Start(ctx, "encounter_fetch_eligible",
		trace.WithAttributes(
			attribute.String("municipality_id", municipalityID),
			attribute.Bool("include_send_errors", includeSendErrors),
		))
	defer span.End()

	statuses := []string{string(StatusPending)}
	if includeSendErrors {
		statuses = append(statuses, string(StatusSendError))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, municipality_id, system, status, attempts,
		       COALESCE(last_error, ''), COALESCE(uuid_ficha, ''),
		       COALESCE(sheet_type, ''), COALESCE(pec_response, ''),
		       sent_at, legacy, payload, created_at, updated_at
		FROM encounter_records
		WHERE municipality_id = $1
		  AND system = $2
		  AND status = ANY($3)
		  AND NOT legacy
		ORDER BY created_at
		LIMIT $4`,
		municipalityID, SystemLEDI, statuses, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query eligible records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.MunicipalityID, &rec.System, &rec.Status,
			&rec.Attempts, &rec.LastError, &rec.UUIDFicha, &rec.SheetType,
			&rec.PECResponse, &rec.SentAt, &rec.Legacy, &payload,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	span.SetAttributes(attribute.Int("record_count", len(records)))
	return records, nil
}

// MarkSent records a confirmed PEC delivery.
func (r *Repository) MarkSent(ctx context.Context, id, uuidFicha, sheetType, pecResponse string, sentAt time.Time) error {
	return r.update(ctx, id, `
		UPDATE encounter_records
		SET status = $2, uuid_ficha = $3, sheet_type = $4, pec_response = $5,
		    sent_at = $6, last_error = NULL, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1`,
		StatusSent, uuidFicha, sheetType, pecResponse, sentAt)
}

// MarkSendError records a failure reported by the PEC (retryable).
func (r *Repository) MarkSendError(ctx context.Context, id, message string) error {
	return r.update(ctx, id, `
		UPDATE encounter_records
		SET status = $2, last_error = $3, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1`,
		StatusSendError, message)
}

// MarkInternalError records a classification/mapping/encoding failure that
// needs operator attention before a retry makes sense.
func (r *Repository) MarkInternalError(ctx context.Context, id, message string) error {
	return r.update(ctx, id, `
		UPDATE encounter_records
		SET status = $2, last_error = $3, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1`,
		StatusInternalError, message)
}

func (r *Repository) update(ctx context.Context, id, query string, args ...any) error {
	ctx, span := r.tracer.Start(ctx, "encounter_update_status",
		trace.WithAttributes(attribute.String("record_id", id)))
	defer span.End()

	allArgs := append([]any{id}, args...)
	tag, err := r.pool.Exec(ctx, query, allArgs...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// Exists reports whether a record id is already stored. Used by the ingestion
// path alongside the inbox for cheap duplicate checks.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM encounter_records WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return exists, nil
}
