package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/batch"
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/domain/municipality"
	"github.com/apsbridge/go-ledi/internal/pec"
)

type fakeRecords struct {
	mu                    sync.Mutex
	eligible              map[string][]encounter.Record
	statuses              map[string]encounter.Status
	errors                map[string]string
	lastIncludeSendErrors bool
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		eligible: map[string][]encounter.Record{},
		statuses: map[string]encounter.Status{},
		errors:   map[string]string{},
	}
}

func (f *fakeRecords) FetchEligible(_ context.Context, municipalityID string, includeSendErrors bool, _ int) ([]encounter.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIncludeSendErrors = includeSendErrors
	return f.eligible[municipalityID], nil
}

func (f *fakeRecords) MarkSent(_ context.Context, id, _, _, _ string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = encounter.StatusSent
	return nil
}

func (f *fakeRecords) MarkSendError(_ context.Context, id, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = encounter.StatusSendError
	f.errors[id] = msg
	return nil
}

func (f *fakeRecords) MarkInternalError(_ context.Context, id, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = encounter.StatusInternalError
	f.errors[id] = msg
	return nil
}

type fakeMunicipalities struct {
	list []municipality.Municipality
}

func (f *fakeMunicipalities) ListActive(context.Context) ([]municipality.Municipality, error) {
	return f.list, nil
}

func (f *fakeMunicipalities) GetByID(_ context.Context, id string) (*municipality.Municipality, error) {
	for _, m := range f.list {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, municipality.ErrNotFound
}

type fakeBatches struct {
	mu      sync.Mutex
	batches map[string]*batch.DeliveryBatch
	logs    []batch.Log
}

func newFakeBatches() *fakeBatches {
	return &fakeBatches{batches: map[string]*batch.DeliveryBatch{}}
}

func (f *fakeBatches) Insert(_ context.Context, b *batch.DeliveryBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *b
	f.batches[b.ID] = &copied
	return nil
}

func (f *fakeBatches) Settle(_ context.Context, b *batch.DeliveryBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *b
	f.batches[b.ID] = &copied
	return nil
}

func (f *fakeBatches) AppendLog(_ context.Context, l *batch.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *l)
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	loginErr error
	sendErr  error
	results  map[string]*pec.SendResult
	sent     []string
}

func (f *fakeSender) Login(context.Context) error { return f.loginErr }

func (f *fakeSender) Send(_ context.Context, uuid string, _ []byte) (*pec.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, uuid)
	if res, ok := f.results[uuid]; ok {
		return res, nil
	}
	return &pec.SendResult{Success: true, StatusCode: 200, Message: "ok"}, nil
}

func testMunicipality(id string) municipality.Municipality {
	m := municipality.Municipality{
		ID:                id,
		Name:              "Sao Pedro",
		CodIbge:           "3550308",
		CNES:              "2337545",
		PecURL:            "http://pec.local",
		PecUser:           "estadual",
		PecPassword:       "secret",
		IntegrationStatus: municipality.StatusActive,
	}
	m.Normalize()
	return m
}

func testRecord(id, municipalityID string) encounter.Record {
	return encounter.Record{
		ID:             id,
		MunicipalityID: municipalityID,
		System:         encounter.SystemLEDI,
		Status:         encounter.StatusPending,
		Payload: encounter.Payload{
			Professional:   &encounter.Professional{CNS: "898001160660000", CBO: "225125"},
			AttendanceDate: "2026-03-10T14:30:00Z",
			Shift:          "M",
			PatientCNS:     "700000000000001",
			PatientDOB:     "1980-05-20",
			PatientSex:     "F",
		},
	}
}

func newTestOrchestrator(records RecordStore, muns MunicipalityStore, batches BatchStore, sender Sender) *Orchestrator {
	return New(DefaultConfig(), records, muns, batches,
		func(municipality.Municipality) Sender { return sender },
		nil, nil, zap.NewNop())
}

func TestRunManualAllDelivered(t *testing.T) {
	records := newFakeRecords()
	records.eligible["mun-1"] = []encounter.Record{
		testRecord("rec-1", "mun-1"),
		testRecord("rec-2", "mun-1"),
	}
	batches := newFakeBatches()
	sender := &fakeSender{}
	o := newTestOrchestrator(records, &fakeMunicipalities{list: []municipality.Municipality{testMunicipality("mun-1")}}, batches, sender)

	b, err := o.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.Equal(t, batch.StatusSent, b.Status)
	require.Equal(t, 2, b.SentRecords)
	require.Zero(t, b.FailedRecords)
	require.True(t, records.lastIncludeSendErrors)

	require.Equal(t, encounter.StatusSent, records.statuses["rec-1"])
	require.Equal(t, encounter.StatusSent, records.statuses["rec-2"])
	require.Len(t, batches.logs, 2)
	for _, l := range batches.logs {
		require.Equal(t, batch.LogSuccess, l.Status)
		require.Equal(t, "FICHA_ATENDIMENTO_INDIVIDUAL", l.SheetType)
		require.NotEmpty(t, l.UUIDFicha)
	}
	require.Len(t, sender.sent, 2)
}

func TestRunManualPartialOnRejection(t *testing.T) {
	records := newFakeRecords()
	good := testRecord("rec-ok", "mun-1")
	bad := testRecord("rec-bad", "mun-1")
	bad.Payload.PatientDOB = "" // mapping fails: dob is required
	records.eligible["mun-1"] = []encounter.Record{good, bad}

	batches := newFakeBatches()
	sender := &fakeSender{}
	o := newTestOrchestrator(records, &fakeMunicipalities{list: []municipality.Municipality{testMunicipality("mun-1")}}, batches, sender)

	b, err := o.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.Equal(t, batch.StatusPartial, b.Status)
	require.Equal(t, 1, b.SentRecords)
	require.Equal(t, 1, b.FailedRecords)

	require.Equal(t, encounter.StatusSent, records.statuses["rec-ok"])
	require.Equal(t, encounter.StatusInternalError, records.statuses["rec-bad"])
	require.Contains(t, records.errors["rec-bad"], "patientDob")
}

func TestRunManualPECRejectionIsSendError(t *testing.T) {
	records := newFakeRecords()
	records.eligible["mun-1"] = []encounter.Record{testRecord("rec-1", "mun-1")}

	batches := newFakeBatches()
	o := newTestOrchestrator(records, &fakeMunicipalities{list: []municipality.Municipality{testMunicipality("mun-1")}}, batches, &rejectingSender{})

	b, err := o.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.Equal(t, batch.StatusError, b.Status)
	require.Equal(t, encounter.StatusSendError, records.statuses["rec-1"])
	require.Contains(t, records.errors["rec-1"], "status 422")

	require.Len(t, batches.logs, 1)
	require.Equal(t, batch.LogError, batches.logs[0].Status)
	require.NotEmpty(t, batches.logs[0].PayloadDebug, "failed sends keep the envelope for replay")
}

type rejectingSender struct{}

func (rejectingSender) Login(context.Context) error { return nil }
func (rejectingSender) Send(context.Context, string, []byte) (*pec.SendResult, error) {
	return &pec.SendResult{Success: false, StatusCode: 422, Message: "lote invalido"}, nil
}

func TestLoginFailureAbortsMunicipality(t *testing.T) {
	records := newFakeRecords()
	records.eligible["mun-1"] = []encounter.Record{testRecord("rec-1", "mun-1")}

	batches := newFakeBatches()
	sender := &fakeSender{loginErr: errors.New("connection refused")}
	o := newTestOrchestrator(records, &fakeMunicipalities{list: []municipality.Municipality{testMunicipality("mun-1")}}, batches, sender)

	b, err := o.RunManual(context.Background(), "mun-1")
	require.Error(t, err)
	require.NotNil(t, b)
	require.Equal(t, batch.StatusError, b.Status)
	require.Zero(t, b.TotalRecords)

	// No record was attempted, so none changed status.
	require.Empty(t, records.statuses)
	require.Empty(t, sender.sent)
}

func TestRunManualNothingEligible(t *testing.T) {
	records := newFakeRecords()
	batches := newFakeBatches()
	o := newTestOrchestrator(records, &fakeMunicipalities{list: []municipality.Municipality{testMunicipality("mun-1")}}, batches, &fakeSender{})

	b, err := o.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.Nil(t, b)
	require.Empty(t, batches.batches)
}

func TestRunManualUnknownMunicipality(t *testing.T) {
	o := newTestOrchestrator(newFakeRecords(), &fakeMunicipalities{}, newFakeBatches(), &fakeSender{})
	_, err := o.RunManual(context.Background(), "missing")
	require.ErrorIs(t, err, municipality.ErrNotFound)
}

func TestRunScheduledSkipsUnconfiguredMunicipality(t *testing.T) {
	records := newFakeRecords()
	records.eligible["mun-1"] = []encounter.Record{testRecord("rec-1", "mun-1")}
	records.eligible["mun-2"] = []encounter.Record{testRecord("rec-2", "mun-2")}

	configured := testMunicipality("mun-1")
	unconfigured := testMunicipality("mun-2")
	unconfigured.PecURL = ""

	batches := newFakeBatches()
	sender := &fakeSender{}
	o := newTestOrchestrator(records,
		&fakeMunicipalities{list: []municipality.Municipality{configured, unconfigured}},
		batches, sender)

	require.NoError(t, o.RunScheduled(context.Background()))

	require.Equal(t, encounter.StatusSent, records.statuses["rec-1"])
	_, touched := records.statuses["rec-2"]
	require.False(t, touched, "unconfigured municipality must be skipped")
	require.Len(t, batches.batches, 1)
}
