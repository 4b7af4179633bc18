package municipality

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a municipality id does not exist.
var ErrNotFound = errors.New("municipality not found")

// Repository reads municipality integration settings from PostgreSQL.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRepository creates a municipality repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("municipality-repository"),
	}
}

const selectColumns = `
	SELECT id, name, cod_ibge, cnes, pec_url,
	       COALESCE(pec_user, ''), COALESCE(pec_password, ''),
	       COALESCE(contra_chave, ''), COALESCE(cnpj_remetente, ''),
	       integration_status, created_at, updated_at
	FROM municipalities`

// ListActive returns every municipality enrolled in scheduled delivery.
func (r *Repository) ListActive(ctx context.Context) ([]Municipality, error) {
	ctx, span := r.tracer.Start(ctx, "municipality_list_active")
	defer span.End()

	rows, err := r.pool.Query(ctx, selectColumns+`
		WHERE integration_status = $1
		ORDER BY name`, StatusActive)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query active municipalities: %w", err)
	}
	defer rows.Close()

	var out []Municipality
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	span.SetAttributes(attribute.Int("municipality_count", len(out)))
	return out, nil
}

// GetByID loads one municipality regardless of its integration status, so
// manual runs can target a suspended installation.
func (r *Repository) GetByID(ctx context.Context, id string) (*Municipality, error) {
	ctx, span := r.tracer.Start(ctx, "municipality_get",
		trace.WithAttributes(attribute.String("municipality_id", id)))
	defer span.End()

	rows, err := r.pool.Query(ctx, selectColumns+` WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query municipality %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("row iteration failed: %w", err)
		}
		return nil, ErrNotFound
	}
	m, err := scan(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scan(rows pgx.Rows) (Municipality, error) {
	var m Municipality
	if err := rows.Scan(&m.ID, &m.Name, &m.CodIbge, &m.CNES, &m.PecURL,
		&m.PecUser, &m.PecPassword, &m.ContraChave, &m.CnpjRemetente,
		&m.IntegrationStatus, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Municipality{}, fmt.Errorf("failed to scan municipality: %w", err)
	}
	m.Normalize()
	return m, nil
}
