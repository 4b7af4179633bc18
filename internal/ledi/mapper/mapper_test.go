package mapper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// newTestMapper returns a mapper with sequential UUIDs so assertions on the
// ficha and evolution identifiers stay deterministic.
func newTestMapper() *Mapper {
	m := New(zap.NewNop())
	n := 0
	m.newUUID = func() string {
		n++
		return fmt.Sprintf("uuid-%03d", n)
	}
	return m
}

func basePayload() encounter.Payload {
	return encounter.Payload{
		Professional:   &encounter.Professional{CNS: "898001160660000", CBO: "225125"},
		CNES:           "2337545",
		INE:            "0000123456",
		AttendanceDate: "2026-03-10T14:30:00Z",
		Shift:          "T",
		PatientID:      "PRONT-1",
		PatientCNS:     "700000000000001",
		PatientDOB:     "1980-05-20",
		PatientSex:     "F",
	}
}

func baseRecord(p encounter.Payload) *encounter.Record {
	return &encounter.Record{ID: "rec-1", MunicipalityID: "mun-1", Payload: p}
}

func TestMapIndividual(t *testing.T) {
	p := basePayload()
	p.AttendanceType = "02"
	p.Weight = "72.5"
	p.Height = "165"
	p.SOAP = &encounter.SOAP{
		Evaluation: &encounter.SOAPEvaluation{
			ProblemConditions: []encounter.ProblemCondition{
				{Type: "CID10", Code: "I10", Situacao: "ATIVO", UUIDProblema: "prob-1"},
				{Type: "CIAP2", Code: "K86", CoSequencialEvolucao: 4},
			},
		},
		Plan: &encounter.SOAPPlan{Conduct: []string{"01", "12"}},
	}

	m := newTestMapper()
	res, err := m.Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeAtendimentoIndividual, res.Type)
	require.Equal(t, "uuid-001", res.UUID)

	master := res.Master.(*ficha.AtendimentoIndividualMaster)
	require.Equal(t, int32(3), master.TpCdsOrigem)

	header := master.HeaderTransport.LotacaoFormPrincipal
	require.Equal(t, "898001160660000", header.ProfissionalCNS)
	require.Equal(t, "225125", header.CBOCodigo2002)
	require.Equal(t, "3550308", header.CodigoIbgeMunicipio)

	require.Len(t, master.Atendimentos, 1)
	att := master.Atendimentos[0]
	require.Equal(t, int64(2), att.Turno)
	require.Equal(t, int64(1), att.Sexo)
	require.Equal(t, int64(2), att.TipoAtendimento)
	require.Equal(t, 15*time.Minute.Milliseconds(),
		att.DataHoraFinalAtendimento-att.DataHoraInicialAtendimento)
	require.Equal(t, []int64{1, 12}, att.Condutas)
	require.InDelta(t, 72.5, *att.PesoAcompanhamentoNutricional, 0.001)

	require.Len(t, att.ProblemasCondicoes, 2)
	require.Equal(t, "I10", att.ProblemasCondicoes[0].CID10)
	require.Empty(t, att.ProblemasCondicoes[0].CIAP)
	require.Equal(t, int64(1), *att.ProblemasCondicoes[0].CoSequencialEvolucao)
	require.Equal(t, "K86", att.ProblemasCondicoes[1].CIAP)
	require.Equal(t, int64(4), *att.ProblemasCondicoes[1].CoSequencialEvolucao)
	// Fresh evolution UUIDs, distinct from the ficha UUID and each other.
	require.Equal(t, "uuid-002", att.ProblemasCondicoes[0].UUIDEvolucaoProblema)
	require.Equal(t, "uuid-003", att.ProblemasCondicoes[1].UUIDEvolucaoProblema)
}

func TestMapIndividualFrailtyIndex(t *testing.T) {
	yes, no := true, false
	p := basePayload()
	p.IVCF = &encounter.IVCF{
		Resultado:        18,
		HasSgIdade:       &yes,
		HasSgCognicao:    &no,
		HasSgComorbidade: &yes,
		DataResultado:    "2026-03-01",
	}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)

	att := res.Master.(*ficha.AtendimentoIndividualMaster).Atendimentos[0]
	require.NotNil(t, att.Ivcf)
	require.Equal(t, int32(18), att.Ivcf.Resultado)
	require.True(t, *att.Ivcf.HasSgIdade)
	require.False(t, *att.Ivcf.HasSgCognicao)
	require.True(t, *att.Ivcf.HasSgComorbidade)
	require.Nil(t, att.Ivcf.HasSgHumor)
	require.NotZero(t, att.Ivcf.DataResultado)
}

func TestMapIndividualLegacyCIDFallback(t *testing.T) {
	p := basePayload()
	p.CIDCodes = []string{"E11", "I10"}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)

	att := res.Master.(*ficha.AtendimentoIndividualMaster).Atendimentos[0]
	require.Len(t, att.ProblemasCondicoes, 2)
	require.Equal(t, "E11", att.ProblemasCondicoes[0].CID10)
	require.Empty(t, att.ProblemasCondicoes[0].UUIDEvolucaoProblema)
}

func TestMapIndividualDateOnlyAnchoredAtNoon(t *testing.T) {
	p := basePayload()
	p.AttendanceDate = "2026-03-10"

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)

	att := res.Master.(*ficha.AtendimentoIndividualMaster).Atendimentos[0]
	want := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	require.Equal(t, want, att.DataHoraInicialAtendimento)
}

func TestMapIndividualPregnancy(t *testing.T) {
	p := basePayload()
	p.IsPregnant = true
	p.StGravidezPlanejada = true
	p.NuGestasPrevias = "2"
	p.NuPartos = "1"
	p.DumDaGestante = "2026-01-15"
	p.IdadeGestacional = "8"

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)

	att := res.Master.(*ficha.AtendimentoIndividualMaster).Atendimentos[0]
	require.True(t, att.StGravidezPlanejada)
	require.Equal(t, int32(2), att.NuGestasPrevias)
	require.Equal(t, int32(1), att.NuPartos)
	require.NotNil(t, att.DumDaGestante)
	require.Equal(t, int32(8), *att.IdadeGestacional)
}

func TestMapRejectsInvalidAttendanceDate(t *testing.T) {
	p := basePayload()
	p.AttendanceDate = "not-a-date"

	_, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	var mapErr *MapError
	require.ErrorAs(t, err, &mapErr)
	require.Equal(t, "attendanceDate", mapErr.Field)
	require.Equal(t, "INVALID_DATE", mapErr.Code)
}

func TestMapOdontologico(t *testing.T) {
	p := basePayload()
	p.Professional.CBO = "223208"
	p.ConsultationType = "2"
	p.ProcedureCode = "0307010015"
	p.Quantity = 0 // floors at one
	p.OralHealthVigilance = []string{"01", "03"}
	p.OdontoConduct = []string{"02"}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeAtendimentoOdontologico, res.Type)

	att := res.Master.(*ficha.AtendimentoOdontologicoMaster).Atendimentos[0]
	require.Equal(t, 20*time.Minute.Milliseconds(),
		att.DataHoraFinalAtendimento-att.DataHoraInicialAtendimento)
	require.Equal(t, []int64{1, 3}, att.TiposVigilanciaSaudeBucal)
	require.Equal(t, []int64{2}, att.TiposEncamOdonto)
	require.False(t, *att.Gestante)
	require.False(t, *att.NecessidadesEspeciais)
	require.Len(t, att.ProcedimentosRealizados, 1)
	require.Equal(t, "0307010015", att.ProcedimentosRealizados[0].CoMsProcedimento)
	require.Equal(t, int64(1), att.ProcedimentosRealizados[0].Quantidade)
}

func TestMapProcedimentos(t *testing.T) {
	p := basePayload()
	p.Professional.CBO = "322205" // nursing technician
	p.Procedures = []string{"0301100039", "0301100047"}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeProcedimentos, res.Type)

	att := res.Master.(*ficha.ProcedimentosMaster).Atendimentos[0]
	require.Equal(t, []string{"0301100039", "0301100047"}, att.Procedimentos)
	require.False(t, att.StatusEscutaInicialOrientacao)
	require.Equal(t, 10*time.Minute.Milliseconds(),
		att.DataHoraFinalAtendimento-att.DataHoraInicialAtendimento)
}

func TestMapProcedimentosRequiresCode(t *testing.T) {
	p := basePayload()
	p.Professional.CBO = "322205"

	_, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	var mapErr *MapError
	require.ErrorAs(t, err, &mapErr)
	require.Equal(t, "MISSING_PROCEDURE", mapErr.Code)
}

func TestMapColetiva(t *testing.T) {
	p := basePayload()
	p.IsCollectiveActivity = true
	p.ActivityType = "5"
	p.ParticipantsCount = "2"
	p.TargetAudience = []string{"6"}
	p.Procedures = []string{"0101010010", "0101010028"}
	p.OtherProfessionals = []encounter.ProfessionalRow{{CNS: "898001160660011", CBO: "223505"}}
	p.Participants = []encounter.ParticipantRow{
		{CNS: "700000000000002", DOB: "1990-01-01", Sex: "M", Weight: "80"},
		{CNS: "700000000000003", DOB: "1995-06-15", Sex: "F", HasAlteredEval: true},
	}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeAtividadeColetiva, res.Type)

	m := res.Master.(*ficha.AtividadeColetivaMaster)
	require.Equal(t, int64(5), m.AtividadeTipo)
	require.Equal(t, int32(2), m.NumParticipantes)
	require.Equal(t, int32(1), *m.NumAvaliacoesAlteradas)
	require.Equal(t, "0101010010", m.Procedimento) // only the first procedure travels
	require.Equal(t, []int64{6}, m.PublicoAlvo)
	require.Len(t, m.Profissionais, 1)

	require.Len(t, m.Participantes, 2)
	require.Equal(t, int64(0), m.Participantes[0].Sexo)
	require.Equal(t, int64(1), m.Participantes[1].Sexo)
	require.True(t, m.Participantes[1].AvaliacaoAlterada)
	require.InDelta(t, 80, *m.Participantes[0].Peso, 0.001)
}

func TestMapVisitaDomiciliar(t *testing.T) {
	p := basePayload()
	p.Professional.CBO = "515105" // community health agent
	p.LocalAtendimento = 4

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeVisitaDomiciliar, res.Type)

	v := res.Master.(*ficha.VisitaDomiciliarMaster).Visitas[0]
	require.Equal(t, int64(1), v.Desfecho)
	require.Equal(t, []int64{32}, v.MotivosVisita)
	require.Equal(t, int64(1), v.TipoDeImovel)
	require.False(t, v.StForaArea)
	require.False(t, v.StatusVisitaCompartilhada)
}

func TestMapAtendimentoDomiciliar(t *testing.T) {
	p := basePayload()
	p.OriginFicha = "DOMICILIAR"
	p.Professional.CBO = "225125" // physician, so home care rather than home visit
	p.FADData = &encounter.FADData{
		CondicoesAvaliadas: []int64{3, 9},
		CondutaDesfecho:    2,
	}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeAtendimentoDomiciliar, res.Type)

	att := res.Master.(*ficha.AtendimentoDomiciliarMaster).Atendimentos[0]
	require.Equal(t, int64(4), att.LocalDeAtendimento)
	require.Equal(t, int64(1), att.AtencaoDomiciliarModalidade)
	require.Equal(t, int64(7), att.TipoAtendimento)
	require.Equal(t, int64(2), att.CondutaDesfecho)
	require.Equal(t, []int64{3, 9}, att.CondicoesAvaliadas)
}

func TestMapVacinacao(t *testing.T) {
	p := basePayload()
	p.VaccinationData = &encounter.VaccinationData{Imunobiologico: "46"}

	res, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	require.NoError(t, err)
	require.Equal(t, ficha.TypeVacinacao, res.Type)

	vac := res.Master.(*ficha.VacinacaoMaster).Vacinacoes[0]
	require.Len(t, vac.Vacinas, 1)
	dose := vac.Vacinas[0]
	require.Equal(t, int64(46), dose.Imunobiologico)
	require.Equal(t, int64(1), dose.EstrategiaVacinacao)
	require.Equal(t, int64(1), dose.Dose)
	require.Equal(t, "00000", dose.Lote)
	require.Equal(t, "UNKNOWN", dose.Fabricante)
	require.Equal(t, 10*time.Minute.Milliseconds(),
		vac.DataHoraFinalAtendimento-vac.DataHoraInicialAtendimento)
}

func TestMapVacinacaoRejectsNonNumericImmunobiological(t *testing.T) {
	p := basePayload()
	p.VaccinationData = &encounter.VaccinationData{Imunobiologico: "abc"}

	_, err := newTestMapper().Map(context.Background(), baseRecord(p), "3550308", "2337545")
	var mapErr *MapError
	require.ErrorAs(t, err, &mapErr)
	require.Equal(t, "INVALID_IMMUNOBIOLOGICAL", mapErr.Code)
}

func TestShiftAndSexDefaults(t *testing.T) {
	require.Equal(t, int64(1), shiftToTurno(""))
	require.Equal(t, int64(3), shiftToTurno("N"))
	require.Equal(t, int64(9), sexCode(""))
	require.Equal(t, int64(0), sexCode("M"))
}
