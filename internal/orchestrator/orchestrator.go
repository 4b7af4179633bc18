// Package orchestrator drives delivery runs: it selects eligible encounter
// records per municipality, pushes each through classify → map → encode →
// send, and settles one delivery batch per run.
package orchestrator

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/batch"
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/domain/municipality"
	"github.com/apsbridge/go-ledi/internal/ledi/codec"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
	"github.com/apsbridge/go-ledi/internal/ledi/mapper"
	"github.com/apsbridge/go-ledi/internal/observability/metrics"
	"github.com/apsbridge/go-ledi/internal/pec"
	"github.com/apsbridge/go-ledi/pkg/circuitbreaker"
	"github.com/apsbridge/go-ledi/pkg/workerpool"
)

// RecordStore is the encounter persistence the orchestrator needs.
type RecordStore interface {
	FetchEligible(ctx context.Context, municipalityID string, includeSendErrors bool, limit int) ([]encounter.Record, error)
	MarkSent(ctx context.Context, id, uuidFicha, sheetType, pecResponse string, sentAt time.Time) error
	MarkSendError(ctx context.Context, id, message string) error
	MarkInternalError(ctx context.Context, id, message string) error
}

// MunicipalityStore resolves municipality integration settings.
type MunicipalityStore interface {
	ListActive(ctx context.Context) ([]municipality.Municipality, error)
	GetByID(ctx context.Context, id string) (*municipality.Municipality, error)
}

// BatchStore persists delivery batches and their logs.
type BatchStore interface {
	Insert(ctx context.Context, b *batch.DeliveryBatch) error
	Settle(ctx context.Context, b *batch.DeliveryBatch) error
	AppendLog(ctx context.Context, l *batch.Log) error
}

// Sender is the PEC-facing side of a delivery run.
type Sender interface {
	Login(ctx context.Context) error
	Send(ctx context.Context, uuid string, payload []byte) (*pec.SendResult, error)
}

// SenderFactory builds a Sender for one municipality's PEC installation.
type SenderFactory func(m municipality.Municipality) Sender

// Publisher emits batch lifecycle events. May be nil.
type Publisher interface {
	PublishBatchCompleted(ctx context.Context, b *batch.DeliveryBatch) error
}

// Config tunes delivery runs.
type Config struct {
	// FetchLimit caps how many records one run takes per municipality.
	FetchLimit int
	// MunicipalityWorkers bounds how many municipalities a scheduled run
	// delivers concurrently.
	MunicipalityWorkers int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FetchLimit:          50,
		MunicipalityWorkers: 4,
	}
}

// Orchestrator runs scheduled and manual deliveries.
type Orchestrator struct {
	cfg            Config
	records        RecordStore
	municipalities MunicipalityStore
	batches        BatchStore
	newSender      SenderFactory
	publisher      Publisher
	mapper         *mapper.Mapper
	breakers       *circuitbreaker.Manager
	metrics        *metrics.Metrics
	logger         *zap.Logger
	tracer         trace.Tracer
	now            func() time.Time
}

// New creates an Orchestrator. publisher and m may be nil.
func New(cfg Config, records RecordStore, municipalities MunicipalityStore,
	batches BatchStore, newSender SenderFactory, publisher Publisher,
	m *metrics.Metrics, logger *zap.Logger) *Orchestrator {

	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultConfig().FetchLimit
	}
	if cfg.MunicipalityWorkers <= 0 {
		cfg.MunicipalityWorkers = DefaultConfig().MunicipalityWorkers
	}
	return &Orchestrator{
		cfg:            cfg,
		records:        records,
		municipalities: municipalities,
		batches:        batches,
		newSender:      newSender,
		publisher:      publisher,
		mapper:         mapper.New(logger),
		breakers:       circuitbreaker.NewManager(logger),
		metrics:        m,
		logger:         logger,
		tracer:         otel.Tracer("ledi-orchestrator"),
		now:            time.Now,
	}
}

// NewPECSenderFactory returns the production factory: one resty-backed client
// per municipality.
func NewPECSenderFactory(logger *zap.Logger) SenderFactory {
	return func(m municipality.Municipality) Sender {
		cfg := pec.DefaultConfig()
		cfg.BaseURL = m.PecURL
		cfg.Username = m.PecUser
		cfg.Password = m.PecPassword
		return pec.New(cfg, logger)
	}
}

// RunScheduled delivers pending records for every active municipality.
// Municipalities run concurrently on a bounded pool; one failing municipality
// never blocks the others.
func (o *Orchestrator) RunScheduled(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "run_scheduled")
	defer span.End()

	active, err := o.municipalities.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to list municipalities: %w", err)
	}
	span.SetAttributes(attribute.Int("municipality_count", len(active)))
	if len(active) == 0 {
		return nil
	}

	pool, err := workerpool.New(workerpool.Config{
		Workers:   o.cfg.MunicipalityWorkers,
		QueueSize: len(active),
	}, func(ctx context.Context, task *workerpool.Task) *workerpool.Result {
		m := task.Payload.(municipality.Municipality)
		_, runErr := o.runMunicipality(ctx, m, batch.ModeScheduled, false)
		return &workerpool.Result{TaskID: task.ID, Success: runErr == nil, Error: runErr}
	}, o.logger)
	if err != nil {
		return fmt.Errorf("failed to create delivery pool: %w", err)
	}
	pool.Start()
	defer pool.Stop()

	submitted := 0
	for _, m := range active {
		if !m.Deliverable() {
			o.logger.Warn("skipping municipality without PEC settings",
				zap.String("municipality_id", m.ID), zap.String("name", m.Name))
			continue
		}
		if err := pool.Submit(&workerpool.Task{ID: m.ID, Payload: m, Context: ctx}); err != nil {
			return fmt.Errorf("failed to submit municipality %s: %w", m.ID, err)
		}
		submitted++
	}

	var firstErr error
	for i := 0; i < submitted; i++ {
		res := <-pool.Results()
		if !res.Success && firstErr == nil {
			firstErr = fmt.Errorf("municipality %s: %w", res.TaskID, res.Error)
		}
	}
	return firstErr
}

// RunManual delivers one municipality on operator demand. Manual runs also
// retry records stuck in ERRO_ENVIO. Returns nil when nothing was eligible.
func (o *Orchestrator) RunManual(ctx context.Context, municipalityID string) (*batch.DeliveryBatch, error) {
	ctx, span := o.tracer.Start(ctx, "run_manual",
		trace.WithAttributes(attribute.String("municipality_id", municipalityID)))
	defer span.End()

	m, err := o.municipalities.GetByID(ctx, municipalityID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !m.Deliverable() {
		return nil, fmt.Errorf("municipality %s has no PEC settings", municipalityID)
	}
	return o.runMunicipality(ctx, *m, batch.ModeManual, true)
}

// TestConnection checks the municipality's PEC credentials by performing a
// real login without sending anything.
func (o *Orchestrator) TestConnection(ctx context.Context, municipalityID string) error {
	ctx, span := o.tracer.Start(ctx, "test_connection",
		trace.WithAttributes(attribute.String("municipality_id", municipalityID)))
	defer span.End()

	m, err := o.municipalities.GetByID(ctx, municipalityID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !m.Deliverable() {
		return fmt.Errorf("municipality %s has no PEC settings", municipalityID)
	}
	if err := o.newSender(*m).Login(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (o *Orchestrator) runMunicipality(ctx context.Context, m municipality.Municipality,
	mode batch.Mode, includeSendErrors bool) (*batch.DeliveryBatch, error) {

	ctx, span := o.tracer.Start(ctx, "run_municipality",
		trace.WithAttributes(
			attribute.String("municipality_id", m.ID),
			attribute.String("mode", string(mode)),
		))
	defer span.End()

	records, err := o.records.FetchEligible(ctx, m.ID, includeSendErrors, o.cfg.FetchLimit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch records for %s: %w", m.ID, err)
	}
	if len(records) == 0 {
		o.logger.Debug("no eligible records", zap.String("municipality_id", m.ID))
		return nil, nil
	}

	b := batch.New(m.ID, mode, o.now())
	if err := o.batches.Insert(ctx, b); err != nil {
		span.RecordError(err)
		return nil, err
	}

	sender := o.newSender(m)
	breaker, err := o.breakers.GetOrCreate("pec-"+m.ID, circuitbreaker.DefaultConfig("pec-"+m.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to create breaker for %s: %w", m.ID, err)
	}

	if _, err := breaker.Execute(ctx, func() (interface{}, error) {
		return nil, sender.Login(ctx)
	}); err != nil {
		// No session, no sends: the whole municipality run is aborted and
		// every record stays in its current status for the next run.
		o.logger.Error("pec login failed, aborting municipality",
			zap.String("municipality_id", m.ID), zap.Error(err))
		b.Abort(o.now())
		if settleErr := o.batches.Settle(ctx, b); settleErr != nil {
			o.logger.Error("failed to settle aborted batch", zap.Error(settleErr))
		}
		o.countBatch(b)
		return b, fmt.Errorf("pec login failed for %s: %w", m.ID, err)
	}

	meta := codec.Meta{
		CodIbge: m.CodIbge,
		CNES:    m.CNES,
		Originadora: ficha.Originadora{
			ContraChave: m.ContraChave,
			CPFCNPJ:     m.CnpjRemetente,
		},
		Remetente: ficha.Remetente{
			ContraChave: m.ContraChave,
			CNPJ:        m.CnpjRemetente,
		},
	}

	sent, failed := 0, 0
	for i := range records {
		if o.deliverRecord(ctx, b, breaker, sender, meta, &records[i]) {
			sent++
		} else {
			failed++
		}
	}

	b.Close(sent, failed, o.now())
	if err := o.batches.Settle(ctx, b); err != nil {
		span.RecordError(err)
		return b, fmt.Errorf("failed to settle batch %s: %w", b.ID, err)
	}
	o.countBatch(b)

	if o.publisher != nil {
		if err := o.publisher.PublishBatchCompleted(ctx, b); err != nil {
			o.logger.Error("failed to publish batch completion",
				zap.String("batch_id", b.ID), zap.Error(err))
		}
	}

	o.logger.Info("municipality run settled",
		zap.String("municipality_id", m.ID),
		zap.String("batch_id", b.ID),
		zap.String("status", string(b.Status)),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	return b, nil
}

// deliverRecord pushes one record through the pipeline and reports whether it
// reached the PEC. A panic anywhere in classify/map/encode is contained to
// the record and lands it in ERRO_INTERNO.
func (o *Orchestrator) deliverRecord(ctx context.Context, b *batch.DeliveryBatch,
	breaker *circuitbreaker.CircuitBreaker, sender Sender, meta codec.Meta,
	rec *encounter.Record) (delivered bool) {

	ctx, span := o.tracer.Start(ctx, "deliver_record",
		trace.WithAttributes(attribute.String("record_id", rec.ID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("panic during mapping: %v", r)
			o.logger.Error("record delivery panicked",
				zap.String("record_id", rec.ID), zap.Any("panic", r))
			o.failInternal(ctx, b, rec, "", "", msg, "")
			delivered = false
		}
	}()

	mapped, err := o.mapper.Map(ctx, rec, meta.CodIbge, o.recordCNES(rec, meta))
	if err != nil {
		o.failInternal(ctx, b, rec, "", "", err.Error(), "")
		return false
	}
	sheetType := string(mapped.Type)

	envelope, err := codec.Encode(ctx, mapped.Master, o.metaFor(rec, meta))
	if err != nil {
		o.failInternal(ctx, b, rec, mapped.UUID, sheetType, err.Error(), "")
		return false
	}
	debug := base64.StdEncoding.EncodeToString(envelope)

	start := o.now()
	resAny, err := breaker.Execute(ctx, func() (interface{}, error) {
		return sender.Send(ctx, mapped.UUID, envelope)
	})
	if o.metrics != nil {
		o.metrics.SendDuration.Observe(o.now().Sub(start).Seconds())
	}
	if err != nil {
		// Transport-level failure or open circuit: retryable on a later run.
		o.failSend(ctx, b, rec, mapped.UUID, sheetType, err.Error(), debug)
		return false
	}

	res := resAny.(*pec.SendResult)
	if !res.Success {
		msg := fmt.Sprintf("pec rejected (status %d): %s", res.StatusCode, res.Message)
		o.failSend(ctx, b, rec, mapped.UUID, sheetType, msg, debug)
		return false
	}

	sentAt := o.now()
	if err := o.records.MarkSent(ctx, rec.ID, mapped.UUID, sheetType, res.Message, sentAt); err != nil {
		o.logger.Error("failed to mark record sent", zap.String("record_id", rec.ID), zap.Error(err))
	}
	o.appendLog(ctx, &batch.Log{
		BatchID:   b.ID,
		RecordID:  rec.ID,
		UUIDFicha: mapped.UUID,
		SheetType: sheetType,
		Status:    batch.LogSuccess,
		Message:   res.Message,
	})
	if o.metrics != nil {
		o.metrics.FichasSent.WithLabelValues(sheetType).Inc()
	}
	return true
}

// recordCNES prefers the CNES captured on the record over the municipality
// default, since one municipality runs many facilities.
func (o *Orchestrator) recordCNES(rec *encounter.Record, meta codec.Meta) string {
	if rec.Payload.CNES != "" {
		return rec.Payload.CNES
	}
	return meta.CNES
}

func (o *Orchestrator) metaFor(rec *encounter.Record, meta codec.Meta) codec.Meta {
	meta.CNES = o.recordCNES(rec, meta)
	return meta
}

func (o *Orchestrator) failInternal(ctx context.Context, b *batch.DeliveryBatch,
	rec *encounter.Record, uuidFicha, sheetType, msg, debug string) {
	if err := o.records.MarkInternalError(ctx, rec.ID, msg); err != nil {
		o.logger.Error("failed to mark internal error", zap.String("record_id", rec.ID), zap.Error(err))
	}
	o.appendLog(ctx, &batch.Log{
		BatchID:      b.ID,
		RecordID:     rec.ID,
		UUIDFicha:    uuidFicha,
		SheetType:    sheetType,
		Status:       batch.LogError,
		Message:      msg,
		PayloadDebug: debug,
	})
	if o.metrics != nil {
		o.metrics.FichasFailed.WithLabelValues(sheetType, metrics.ReasonInternalError).Inc()
	}
}

func (o *Orchestrator) failSend(ctx context.Context, b *batch.DeliveryBatch,
	rec *encounter.Record, uuidFicha, sheetType, msg, debug string) {
	if err := o.records.MarkSendError(ctx, rec.ID, msg); err != nil {
		o.logger.Error("failed to mark send error", zap.String("record_id", rec.ID), zap.Error(err))
	}
	o.appendLog(ctx, &batch.Log{
		BatchID:      b.ID,
		RecordID:     rec.ID,
		UUIDFicha:    uuidFicha,
		SheetType:    sheetType,
		Status:       batch.LogError,
		Message:      msg,
		PayloadDebug: debug,
	})
	if o.metrics != nil {
		o.metrics.FichasFailed.WithLabelValues(sheetType, metrics.ReasonSendError).Inc()
	}
}

func (o *Orchestrator) appendLog(ctx context.Context, l *batch.Log) {
	if err := o.batches.AppendLog(ctx, l); err != nil {
		o.logger.Error("failed to append batch log",
			zap.String("batch_id", l.BatchID), zap.Error(err))
	}
}

func (o *Orchestrator) countBatch(b *batch.DeliveryBatch) {
	if o.metrics != nil {
		o.metrics.BatchesCompleted.WithLabelValues(string(b.Status)).Inc()
	}
}
