package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a batch id does not exist.
var ErrNotFound = errors.New("batch not found")

// Repository persists delivery batches and their per-record logs.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRepository creates a batch repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("batch-repository"),
	}
}

// Insert stores a freshly generated batch.
func (r *Repository) Insert(ctx context.Context, b *DeliveryBatch) error {
	ctx, span := r.tracer.Start(ctx, "batch_insert",
		trace.WithAttributes(attribute.String("batch_id", b.ID)))
	defer span.End()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO delivery_batches
			(id, municipality_id, mode, status, competence, file_name,
			 total_records, sent_records, failed_records, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.MunicipalityID, b.Mode, b.Status, b.Competence, b.FileName,
		b.TotalRecords, b.SentRecords, b.FailedRecords, b.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

// Settle writes the terminal state produced by Close.
func (r *Repository) Settle(ctx context.Context, b *DeliveryBatch) error {
	ctx, span := r.tracer.Start(ctx, "batch_settle",
		trace.WithAttributes(
			attribute.String("batch_id", b.ID),
			attribute.String("status", string(b.Status)),
		))
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
		UPDATE delivery_batches
		SET status = $2, total_records = $3, sent_records = $4,
		    failed_records = $5, completed_at = $6
		WHERE id = $1`,
		b.ID, b.Status, b.TotalRecords, b.SentRecords, b.FailedRecords, b.CompletedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to settle batch %s: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("batch %s not found", b.ID)
	}
	return nil
}

const batchColumns = `
	SELECT id, municipality_id, mode, status, competence, file_name,
	       total_records, sent_records, failed_records, created_at, completed_at
	FROM delivery_batches`

// GetByID loads one batch.
func (r *Repository) GetByID(ctx context.Context, id string) (*DeliveryBatch, error) {
	rows, err := r.pool.Query(ctx, batchColumns+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("row iteration failed: %w", err)
		}
		return nil, ErrNotFound
	}
	b, err := scanBatch(rows)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByMunicipality returns the most recent batches of a municipality.
func (r *Repository) ListByMunicipality(ctx context.Context, municipalityID string, limit int) ([]DeliveryBatch, error) {
	ctx, span := r.tracer.Start(ctx, "batch_list",
		trace.WithAttributes(attribute.String("municipality_id", municipalityID)))
	defer span.End()

	rows, err := r.pool.Query(ctx, batchColumns+`
		WHERE municipality_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, municipalityID, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var out []DeliveryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}

func scanBatch(rows pgx.Rows) (DeliveryBatch, error) {
	var b DeliveryBatch
	if err := rows.Scan(&b.ID, &b.MunicipalityID, &b.Mode, &b.Status, &b.Competence,
		&b.FileName, &b.TotalRecords, &b.SentRecords, &b.FailedRecords,
		&b.CreatedAt, &b.CompletedAt); err != nil {
		return DeliveryBatch{}, fmt.Errorf("failed to scan batch: %w", err)
	}
	return b, nil
}

// AppendLog stores one per-record delivery trace.
func (r *Repository) AppendLog(ctx context.Context, l *Log) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO delivery_batch_logs
			(id, batch_id, record_id, uuid_ficha, sheet_type, status, message,
			 payload_debug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		l.ID, l.BatchID, l.RecordID, l.UUIDFicha, l.SheetType, l.Status,
		l.Message, l.PayloadDebug)
	if err != nil {
		return fmt.Errorf("failed to append batch log: %w", err)
	}
	return nil
}

// ListLogs returns the per-record traces of one batch in delivery order.
func (r *Repository) ListLogs(ctx context.Context, batchID string) ([]Log, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, batch_id, record_id, COALESCE(uuid_ficha, ''),
		       COALESCE(sheet_type, ''), status, COALESCE(message, ''),
		       COALESCE(payload_debug, ''), created_at
		FROM delivery_batch_logs
		WHERE batch_id = $1
		ORDER BY created_at`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch logs: %w", err)
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.BatchID, &l.RecordID, &l.UUIDFicha,
			&l.SheetType, &l.Status, &l.Message, &l.PayloadDebug, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch log: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return out, nil
}
