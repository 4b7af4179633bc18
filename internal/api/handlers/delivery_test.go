package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/batch"
	"github.com/apsbridge/go-ledi/internal/domain/municipality"
)

type fakeRunner struct {
	batch    *batch.DeliveryBatch
	runErr   error
	testErr  error
	ranFor   string
	testedID string
}

func (f *fakeRunner) RunManual(_ context.Context, id string) (*batch.DeliveryBatch, error) {
	f.ranFor = id
	return f.batch, f.runErr
}

func (f *fakeRunner) TestConnection(_ context.Context, id string) error {
	f.testedID = id
	return f.testErr
}

type fakeBatchReader struct {
	batches map[string]*batch.DeliveryBatch
	byMun   map[string][]batch.DeliveryBatch
	logs    map[string][]batch.Log
}

func (f *fakeBatchReader) GetByID(_ context.Context, id string) (*batch.DeliveryBatch, error) {
	if b, ok := f.batches[id]; ok {
		return b, nil
	}
	return nil, batch.ErrNotFound
}

func (f *fakeBatchReader) ListByMunicipality(_ context.Context, id string, _ int) ([]batch.DeliveryBatch, error) {
	return f.byMun[id], nil
}

func (f *fakeBatchReader) ListLogs(_ context.Context, id string) ([]batch.Log, error) {
	return f.logs[id], nil
}

type fakeMunicipalityReader struct {
	list map[string]*municipality.Municipality
}

func (f *fakeMunicipalityReader) GetByID(_ context.Context, id string) (*municipality.Municipality, error) {
	if m, ok := f.list[id]; ok {
		return m, nil
	}
	return nil, municipality.ErrNotFound
}

func activeMunicipality(id string) *municipality.Municipality {
	m := &municipality.Municipality{
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

func settledBatch(id string) *batch.DeliveryBatch {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	b := batch.New("mun-1", batch.ModeManual, now)
	b.ID = id
	b.Close(3, 1, now)
	return b
}

func newTestHandler(runner *fakeRunner, batches *fakeBatchReader, muns *fakeMunicipalityReader) http.Handler {
	if batches == nil {
		batches = &fakeBatchReader{}
	}
	if muns == nil {
		muns = &fakeMunicipalityReader{list: map[string]*municipality.Municipality{
			"mun-1": activeMunicipality("mun-1"),
		}}
	}
	h := NewDeliveryHandler(runner, batches, muns, zap.NewNop())
	return h.Routes()
}

func TestSendReturnsSettledBatch(t *testing.T) {
	runner := &fakeRunner{batch: settledBatch("batch-1")}
	router := newTestHandler(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send",
		bytes.NewBufferString(`{"force":false}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mun-1", runner.ranFor)

	var resp SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "batch-1", resp.BatchID)
	require.Equal(t, "PARTIAL", resp.Status)
	require.Equal(t, 4, resp.TotalRecords)
	require.Equal(t, 3, resp.SentRecords)
}

func TestSendWithoutBodyIsAccepted(t *testing.T) {
	runner := &fakeRunner{batch: settledBatch("batch-1")}
	router := newTestHandler(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSendInactiveMunicipalityRequiresForce(t *testing.T) {
	inactive := activeMunicipality("mun-1")
	inactive.IntegrationStatus = municipality.StatusInactive
	muns := &fakeMunicipalityReader{list: map[string]*municipality.Municipality{"mun-1": inactive}}

	runner := &fakeRunner{batch: settledBatch("batch-1")}
	router := newTestHandler(runner, nil, muns)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send",
		bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Empty(t, runner.ranFor)

	req = httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send",
		bytes.NewBufferString(`{"force":true}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mun-1", runner.ranFor)
}

func TestSendUnknownMunicipality(t *testing.T) {
	router := newTestHandler(&fakeRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/missing/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendNothingEligible(t *testing.T) {
	router := newTestHandler(&fakeRunner{batch: nil}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "NO_PENDING_RECORDS", resp.Status)
}

func TestSendLoginFailureIsBadGateway(t *testing.T) {
	aborted := settledBatch("batch-1")
	aborted.Abort(time.Now())
	runner := &fakeRunner{batch: aborted, runErr: errors.New("pec login failed")}
	router := newTestHandler(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ERROR", resp.Status)
	require.Equal(t, "batch-1", resp.BatchID)
}

func TestConnectionTest(t *testing.T) {
	runner := &fakeRunner{}
	router := newTestHandler(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/connection-test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mun-1", runner.testedID)
	require.Contains(t, rec.Body.String(), `"connected":true`)
}

func TestConnectionTestFailure(t *testing.T) {
	runner := &fakeRunner{testErr: errors.New("connection refused")}
	router := newTestHandler(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/municipalities/mun-1/connection-test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `"connected":false`)
}

func TestListBatchesRequiresMunicipality(t *testing.T) {
	router := newTestHandler(&fakeRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/batches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBatches(t *testing.T) {
	batches := &fakeBatchReader{
		byMun: map[string][]batch.DeliveryBatch{
			"mun-1": {*settledBatch("batch-1"), *settledBatch("batch-2")},
		},
	}
	router := newTestHandler(&fakeRunner{}, batches, nil)

	req := httptest.NewRequest(http.MethodGet, "/batches?municipality=mun-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Batches []BatchSummary `json:"batches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Batches, 2)
	require.Equal(t, "09/2026", resp.Batches[0].Competence)
}

func TestListLogs(t *testing.T) {
	b := settledBatch("batch-1")
	batches := &fakeBatchReader{
		batches: map[string]*batch.DeliveryBatch{"batch-1": b},
		logs: map[string][]batch.Log{
			"batch-1": {
				{RecordID: "rec-1", UUIDFicha: "uuid-1", SheetType: "FICHA_ATENDIMENTO_INDIVIDUAL", Status: batch.LogSuccess},
				{RecordID: "rec-2", UUIDFicha: "uuid-2", SheetType: "FICHA_PROCEDIMENTOS", Status: batch.LogError, Message: "pec rejected (status 422)"},
			},
		},
	}
	router := newTestHandler(&fakeRunner{}, batches, nil)

	req := httptest.NewRequest(http.MethodGet, "/batches/batch-1/logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Logs []LogEntry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 2)
	require.Equal(t, "ERROR", resp.Logs[1].Status)
}

func TestListLogsUnknownBatch(t *testing.T) {
	router := newTestHandler(&fakeRunner{}, &fakeBatchReader{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/batches/missing/logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
