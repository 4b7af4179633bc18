// Package ingest consumes encounter records from the broker and stores them
// as PENDENTE_ENVIO, deduplicating connector resends through the idempotency
// inbox.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/infrastructure/redpanda"
	"github.com/apsbridge/go-ledi/internal/observability/metrics"
	"github.com/apsbridge/go-ledi/pkg/idempotency"
)

const inboxHandlerName = "encounter-ingest"

// EncounterMessage is the envelope connectors publish on ledi.encounters.in.
type EncounterMessage struct {
	SourceSystem   string            `json:"sourceSystem"`
	SourceRecordID string            `json:"sourceRecordId"`
	MunicipalityID string            `json:"municipalityId"`
	Legacy         bool              `json:"legacy,omitempty"`
	Payload        encounter.Payload `json:"payload"`
}

// RecordStore persists accepted records.
type RecordStore interface {
	Insert(ctx context.Context, rec *encounter.Record) error
}

// Deduper provides exactly-once processing per idempotency key.
type Deduper interface {
	Process(ctx context.Context, key, handlerName string, payload json.RawMessage,
		fn idempotency.ProcessFunc) (*idempotency.ProcessResult, error)
}

// Service validates, deduplicates and stores incoming encounter messages.
type Service struct {
	records RecordStore
	inbox   Deduper
	metrics *metrics.Metrics
	logger  *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
	newID   func() string
}

// New creates an ingest service. inbox and m may be nil; without an inbox the
// repository's insert conflict handling is the only dedup layer.
func New(records RecordStore, inbox Deduper, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records: records,
		inbox:   inbox,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("ingest"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handler returns the message handler wired into the Redpanda consumer.
func (s *Service) Handler() redpanda.MessageHandler {
	return func(ctx context.Context, msg *redpanda.ConsumedMessage) error {
		return s.HandleMessage(ctx, msg.Value)
	}
}

// HandleMessage processes one raw encounter message.
func (s *Service) HandleMessage(ctx context.Context, raw []byte) error {
	ctx, span := s.tracer.Start(ctx, "ingest_encounter")
	defer span.End()

	if s.metrics != nil {
		s.metrics.KafkaMessagesConsumed.Inc()
	}

	var msg EncounterMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		span.RecordError(err)
		// Malformed JSON never becomes valid on retry.
		s.logger.Warn("dropping malformed encounter message", zap.Error(err))
		return nil
	}

	if err := validate(msg); err != nil {
		span.RecordError(err)
		s.logger.Warn("dropping invalid encounter message",
			zap.String("source_system", msg.SourceSystem),
			zap.String("source_record_id", msg.SourceRecordID),
			zap.Error(err))
		return nil
	}

	span.SetAttributes(
		attribute.String("municipality_id", msg.MunicipalityID),
		attribute.String("source_record_id", msg.SourceRecordID),
	)

	if s.inbox == nil {
		return s.store(ctx, msg)
	}

	key := idempotency.GenerateKey(msg.SourceSystem, msg.MunicipalityID, msg.SourceRecordID)
	res, err := s.inbox.Process(ctx, key, inboxHandlerName, raw,
		func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			if err := s.store(ctx, msg); err != nil {
				return nil, err
			}
			return json.RawMessage(`{"stored":true}`), nil
		})
	if err != nil {
		if errors.Is(err, idempotency.ErrMessageInProgress) {
			// Another consumer holds the entry; redeliver later.
			return err
		}
		span.RecordError(err)
		return err
	}

	if !res.IsNew && !res.WasRecovered {
		s.logger.Debug("duplicate encounter ignored",
			zap.String("source_record_id", msg.SourceRecordID))
	}
	return nil
}

func (s *Service) store(ctx context.Context, msg EncounterMessage) error {
	now := s.now()
	rec := &encounter.Record{
		ID:             s.newID(),
		MunicipalityID: msg.MunicipalityID,
		System:         encounter.SystemLEDI,
		Status:         encounter.StatusPending,
		Legacy:         msg.Legacy,
		Payload:        msg.Payload,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return fmt.Errorf("failed to store encounter: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordsIngested.Inc()
	}
	s.logger.Info("encounter accepted",
		zap.String("record_id", rec.ID),
		zap.String("municipality_id", rec.MunicipalityID),
		zap.String("source_record_id", msg.SourceRecordID))
	return nil
}

func validate(msg EncounterMessage) error {
	switch {
	case msg.MunicipalityID == "":
		return errors.New("municipalityId is required")
	case msg.SourceRecordID == "":
		return errors.New("sourceRecordId is required")
	case msg.Payload.AttendanceDate == "":
		return errors.New("payload.attendanceDate is required")
	}
	return nil
}
