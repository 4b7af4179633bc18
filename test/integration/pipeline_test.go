// End-to-end pipeline test: pending encounter records are classified,
// mapped, Thrift-encoded, zipped and uploaded to a fake PEC over the real
// HTTP client, and the batch settles with per-record logs.
package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/batch"
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/domain/municipality"
	"github.com/apsbridge/go-ledi/internal/ledi/codec"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
	"github.com/apsbridge/go-ledi/internal/orchestrator"
)

// fakePEC imitates the e-SUS PEC receiving endpoints.
type fakePEC struct {
	mu        sync.Mutex
	logins    int
	envelopes []*codec.Envelope
	masters   []ficha.Master
}

func (p *fakePEC) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recebimento/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if r.FormValue("usuario") != "estadual" || r.FormValue("senha") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		p.mu.Lock()
		p.logins++
		p.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-it"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/recebimento/ficha", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		require.NoError(t, err)
		require.Equal(t, "sess-it", cookie.Value)

		file, header, err := r.FormFile("ficha")
		require.NoError(t, err)
		defer file.Close()
		require.True(t, strings.HasSuffix(header.Filename, ".zip"))

		raw, err := io.ReadAll(file)
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
		require.NoError(t, err)
		require.Len(t, zr.File, 1)
		require.True(t, strings.HasSuffix(zr.File[0].Name, ".esus"))

		entry, err := zr.File[0].Open()
		require.NoError(t, err)
		payload, err := io.ReadAll(entry)
		entry.Close()
		require.NoError(t, err)

		env, err := codec.DecodeEnvelope(r.Context(), payload)
		require.NoError(t, err)
		master, err := codec.DecodeMaster(r.Context(), env.TipoDado, env.Payload)
		require.NoError(t, err)

		p.mu.Lock()
		p.envelopes = append(p.envelopes, env)
		p.masters = append(p.masters, master)
		p.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// In-memory stores backing the orchestrator.

type memRecords struct {
	mu       sync.Mutex
	eligible []encounter.Record
	statuses map[string]encounter.Status
}

func (m *memRecords) FetchEligible(context.Context, string, bool, int) ([]encounter.Record, error) {
	return m.eligible, nil
}

func (m *memRecords) MarkSent(_ context.Context, id, _, _, _ string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = encounter.StatusSent
	return nil
}

func (m *memRecords) MarkSendError(_ context.Context, id, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = encounter.StatusSendError
	return nil
}

func (m *memRecords) MarkInternalError(_ context.Context, id, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = encounter.StatusInternalError
	return nil
}

type memMunicipalities struct{ m municipality.Municipality }

func (s *memMunicipalities) ListActive(context.Context) ([]municipality.Municipality, error) {
	return []municipality.Municipality{s.m}, nil
}

func (s *memMunicipalities) GetByID(_ context.Context, id string) (*municipality.Municipality, error) {
	if id != s.m.ID {
		return nil, municipality.ErrNotFound
	}
	m := s.m
	return &m, nil
}

type memBatches struct {
	mu      sync.Mutex
	settled *batch.DeliveryBatch
	logs    []batch.Log
}

func (m *memBatches) Insert(context.Context, *batch.DeliveryBatch) error { return nil }

func (m *memBatches) Settle(_ context.Context, b *batch.DeliveryBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *b
	m.settled = &copied
	return nil
}

func (m *memBatches) AppendLog(_ context.Context, l *batch.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func pendingRecord(id string, payload encounter.Payload) encounter.Record {
	return encounter.Record{
		ID:             id,
		MunicipalityID: "mun-1",
		System:         encounter.SystemLEDI,
		Status:         encounter.StatusPending,
		Payload:        payload,
	}
}

func TestPipelineDeliversToPEC(t *testing.T) {
	pecSrv := &fakePEC{}
	server := httptest.NewServer(pecSrv.handler(t))
	defer server.Close()

	mun := municipality.Municipality{
		ID:                "mun-1",
		Name:              "Sao Pedro",
		CodIbge:           "3550308",
		CNES:              "2337545",
		PecURL:            server.URL,
		PecUser:           "estadual",
		PecPassword:       "secret",
		IntegrationStatus: municipality.StatusActive,
	}
	mun.Normalize()

	records := &memRecords{
		statuses: map[string]encounter.Status{},
		eligible: []encounter.Record{
			pendingRecord("rec-individual", encounter.Payload{
				Professional:   &encounter.Professional{CNS: "898001160660000", CBO: "225125"},
				AttendanceDate: "2026-03-10T14:30:00Z",
				Shift:          "M",
				PatientCNS:     "700000000000001",
				PatientDOB:     "1980-05-20",
				PatientSex:     "F",
			}),
			pendingRecord("rec-vacina", encounter.Payload{
				Professional:   &encounter.Professional{CNS: "898001160660001", CBO: "223565"},
				AttendanceDate: "2026-03-11T09:00:00Z",
				Shift:          "M",
				PatientCNS:     "700000000000002",
				PatientDOB:     "2019-01-15",
				PatientSex:     "M",
				VaccinationData: &encounter.VaccinationData{
					Imunobiologico: "45",
					Dose:           "2",
				},
			}),
		},
	}
	batches := &memBatches{}

	orch := orchestrator.New(orchestrator.DefaultConfig(),
		records, &memMunicipalities{m: mun}, batches,
		orchestrator.NewPECSenderFactory(zap.NewNop()),
		nil, nil, zap.NewNop())

	b, err := orch.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.Equal(t, batch.StatusSent, b.Status)
	require.Equal(t, 2, b.SentRecords)

	require.Equal(t, encounter.StatusSent, records.statuses["rec-individual"])
	require.Equal(t, encounter.StatusSent, records.statuses["rec-vacina"])

	pecSrv.mu.Lock()
	defer pecSrv.mu.Unlock()
	require.Equal(t, 1, pecSrv.logins, "one session per municipality run")
	require.Len(t, pecSrv.envelopes, 2)

	for _, env := range pecSrv.envelopes {
		require.Equal(t, "2337545", env.CNES)
		require.Equal(t, "3550308", env.CodIbge)
		require.Equal(t, int32(7), env.Versao.Major)
		require.Equal(t, int32(3), env.Versao.Minor)
		require.Equal(t, int32(3), env.Versao.Revision)
	}

	require.Equal(t, ficha.TypeAtendimentoIndividual.TransportCode(), pecSrv.envelopes[0].TipoDado)
	require.Equal(t, ficha.TypeVacinacao.TransportCode(), pecSrv.envelopes[1].TipoDado)

	individual, ok := pecSrv.masters[0].(*ficha.AtendimentoIndividualMaster)
	require.True(t, ok)
	require.Len(t, individual.Atendimentos, 1)
	require.Equal(t, int64(1), individual.Atendimentos[0].Turno)

	vacina, ok := pecSrv.masters[1].(*ficha.VacinacaoMaster)
	require.True(t, ok)
	require.Len(t, vacina.Vacinacoes, 1)
	require.Len(t, vacina.Vacinacoes[0].Vacinas, 1)
	require.Equal(t, int64(45), vacina.Vacinacoes[0].Vacinas[0].Imunobiologico)

	require.Len(t, batches.logs, 2)
	for _, l := range batches.logs {
		require.Equal(t, batch.LogSuccess, l.Status)
	}
}

func TestPipelineRejectionSettlesPartial(t *testing.T) {
	// PEC rejects everything after login.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/login") {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-it"})
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "lote invalido", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	mun := municipality.Municipality{
		ID:                "mun-1",
		CodIbge:           "3550308",
		CNES:              "2337545",
		PecURL:            server.URL,
		PecUser:           "estadual",
		PecPassword:       "secret",
		IntegrationStatus: municipality.StatusActive,
	}
	mun.Normalize()

	records := &memRecords{
		statuses: map[string]encounter.Status{},
		eligible: []encounter.Record{
			pendingRecord("rec-1", encounter.Payload{
				Professional:   &encounter.Professional{CNS: "898001160660000", CBO: "225125"},
				AttendanceDate: "2026-03-10T14:30:00Z",
				PatientCNS:     "700000000000001",
				PatientDOB:     "1980-05-20",
				PatientSex:     "F",
			}),
		},
	}
	batches := &memBatches{}

	orch := orchestrator.New(orchestrator.DefaultConfig(),
		records, &memMunicipalities{m: mun}, batches,
		orchestrator.NewPECSenderFactory(zap.NewNop()),
		nil, nil, zap.NewNop())

	b, err := orch.RunManual(context.Background(), "mun-1")
	require.NoError(t, err)
	require.Equal(t, batch.StatusError, b.Status)
	require.Equal(t, encounter.StatusSendError, records.statuses["rec-1"])
	require.Len(t, batches.logs, 1)
	require.Equal(t, batch.LogError, batches.logs[0].Status)
	require.NotEmpty(t, batches.logs[0].PayloadDebug)
}
