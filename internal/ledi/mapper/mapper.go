// Package mapper turns stored encounter records into LEDI ficha structures.
// Classification picks the variant, then one mapping function per variant
// applies the normalization rules of the capture pipeline.
package mapper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// MapError describes a mapping failure with field context.
type MapError struct {
	Field   string
	Code    string
	Message string
	Cause   error
}

func (e *MapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mapping error [%s] %s: %s: %v", e.Code, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("mapping error [%s] %s: %s", e.Code, e.Field, e.Message)
}

func (e *MapError) Unwrap() error { return e.Cause }

// Result is a mapped ficha ready for encoding.
type Result struct {
	Master ficha.Master
	Type   ficha.Type
	UUID   string
}

// Attendance window lengths per variant.
const (
	windowOdonto        = 20 * time.Minute
	windowIndividual    = 15 * time.Minute
	windowProcedimentos = 10 * time.Minute
	windowVacinacao     = 10 * time.Minute
)

// tpCdsOrigemExterno marks fichas produced by an external (non-PEC) system.
const tpCdsOrigemExterno = 3

// Default service location: 1 (UBS).
const defaultLocalAtendimento = 1

// Mapper maps encounter records to ficha masters. UUID generation is
// injectable for deterministic tests.
type Mapper struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	newUUID func() string
}

// New creates a Mapper.
func New(logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{
		logger:  logger,
		tracer:  otel.Tracer("ledi-mapper"),
		newUUID: uuid.NewString,
	}
}

// Classify routes a record without mapping it.
func Classify(p encounter.Payload) ficha.Type {
	return ficha.Classify(ficha.ClassifyInput{
		OriginHint:       p.OriginFicha,
		CBO:              p.ProfessionalCBO(),
		LocalAtendimento: p.LocalAtendimento,
		ProcedureName:    p.ProcedureName,
		IsCollective:     p.IsCollectiveActivity,
		ActivityType:     p.ActivityType,
		HasVaccination:   p.VaccinationData != nil && p.VaccinationData.Imunobiologico != "",
	})
}

// Map classifies and maps a record. Every call mints a fresh ficha UUID; the
// caller stamps it on the record once the PEC confirms delivery.
func (m *Mapper) Map(ctx context.Context, rec *encounter.Record, codIbge, cnes string) (*Result, error) {
	_, span := m.tracer.Start(ctx, "map_encounter",
		trace.WithAttributes(attribute.String("record_id", rec.ID)))
	defer span.End()

	p := rec.Payload
	t := Classify(p)
	span.SetAttributes(attribute.String("ficha_type", string(t)))

	date, err := epochMillis(p.AttendanceDate)
	if err != nil {
		return nil, &MapError{Field: "attendanceDate", Code: "INVALID_DATE",
			Message: "attendance date is required", Cause: err}
	}

	c := mapContext{
		uuidFicha: m.newUUID(),
		codIbge:   codIbge,
		cnes:      cnes,
		date:      date,
		turno:     shiftToTurno(p.Shift),
		sexo:      sexCode(p.PatientSex),
		newUUID:   m.newUUID,
	}

	var master ficha.Master
	switch t {
	case ficha.TypeAtendimentoIndividual:
		master, err = mapIndividual(p, c)
	case ficha.TypeAtendimentoOdontologico:
		master, err = mapOdontologico(p, c)
	case ficha.TypeAtividadeColetiva:
		master, err = mapColetiva(p, c)
	case ficha.TypeProcedimentos:
		master, err = mapProcedimentos(p, c)
	case ficha.TypeVisitaDomiciliar:
		master, err = mapVisitaDomiciliar(p, c)
	case ficha.TypeAtendimentoDomiciliar:
		master, err = mapAtendimentoDomiciliar(p, c)
	case ficha.TypeVacinacao:
		master, err = mapVacinacao(p, c)
	default:
		err = &MapError{Field: "type", Code: "UNKNOWN_TYPE", Message: string(t)}
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &Result{Master: master, Type: t, UUID: c.uuidFicha}, nil
}

// mapContext carries the per-record normalized values shared by all mapping
// functions.
type mapContext struct {
	uuidFicha string
	codIbge   string
	cnes      string
	date      int64
	turno     int64
	sexo      int64
	newUUID   func() string
}

func (c mapContext) header(p encounter.Payload) ficha.VariasLotacoesHeader {
	return ficha.VariasLotacoesHeader{
		LotacaoFormPrincipal: ficha.LotacaoHeader{
			ProfissionalCNS:     p.ProfessionalCNS(),
			CBOCodigo2002:       p.ProfessionalCBO(),
			CNES:                c.cnes,
			INE:                 p.INE,
			DataAtendimento:     c.date,
			CodigoIbgeMunicipio: c.codIbge,
		},
	}
}

// --- normalization helpers ---

// shiftToTurno maps capture shifts M/T/N to 1/2/3, defaulting to morning.
func shiftToTurno(shift string) int64 {
	switch shift {
	case "M":
		return 1
	case "T":
		return 2
	case "N":
		return 3
	}
	return 1
}

// sexCode maps M to 0, F to 1 and anything else to 9 (not informed).
func sexCode(sex string) int64 {
	switch sex {
	case "M":
		return 0
	case "F":
		return 1
	}
	return 9
}

// epochMillis parses a timestamp or date string to epoch milliseconds.
// Date-only values are anchored at UTC noon so timezone shifts cannot move
// them across a day boundary.
func epochMillis(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty date")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(12 * time.Hour).UnixMilli(), nil
	}
	return 0, fmt.Errorf("unparseable date %q", s)
}

// optEpochMillis is epochMillis for optional fields: absent or malformed
// values stay absent.
func optEpochMillis(s string) *int64 {
	v, err := epochMillis(s)
	if err != nil {
		return nil
	}
	return &v
}

// clampQuantity floors procedure quantities at one.
func clampQuantity(q int) int64 {
	if q < 1 {
		return 1
	}
	return int64(q)
}

func parseI64(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseI64Default(s string, def int64) int64 {
	if v := parseI64(s); v != nil {
		return *v
	}
	return def
}

func parseI32Default(s string, def int32) int32 {
	if v := parseI64(s); v != nil {
		return int32(*v)
	}
	return def
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseI64List converts capture string enums ("01", "32") to wire integers,
// dropping unparseable entries. A nil input stays nil.
func parseI64List(vs []string) []int64 {
	if vs == nil {
		return nil
	}
	out := make([]int64, 0, len(vs))
	for _, v := range vs {
		if parsed := parseI64(v); parsed != nil {
			out = append(out, *parsed)
		}
	}
	return out
}

func i64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool  { return &v }

// mapMedicoes lifts the flattened vitals from the payload root.
func mapMedicoes(p encounter.Payload) ficha.Medicoes {
	return ficha.Medicoes{
		CircunferenciaAbdominal:   p.CircunferenciaAbdominal,
		PerimetroPanturrilha:      p.PerimetroPanturrilha,
		PressaoArterialSistolica:  p.PressaoArterialSistolica,
		PressaoArterialDiastolica: p.PressaoArterialDiastolica,
		FrequenciaRespiratoria:    p.FrequenciaRespiratoria,
		FrequenciaCardiaca:        p.FrequenciaCardiaca,
		Temperatura:               p.Temperatura,
		SaturacaoO2:               p.SaturacaoO2,
		GlicemiaCapilar:           p.GlicemiaCapilar,
		Peso:                      p.Peso,
		Altura:                    p.Altura,
		PerimetroCefalico:         p.PerimetroCefalico,
		TipoGlicemiaCapilar:       p.TipoGlicemiaCapilar,
	}
}

// mapProblemasCondicoes converts SOAP evaluation rows. Every mapping mints a
// fresh evolution UUID: each delivery is an atomic evolution event on the
// problem history.
func mapProblemasCondicoes(rows []encounter.ProblemCondition, newUUID func() string) []ficha.ProblemaCondicao {
	if len(rows) == 0 {
		return nil
	}
	out := make([]ficha.ProblemaCondicao, 0, len(rows))
	for _, pc := range rows {
		mapped := ficha.ProblemaCondicao{
			UUIDProblema:         pc.UUIDProblema,
			UUIDEvolucaoProblema: newUUID(),
			Situacao:             pc.Situacao,
			IsAvaliado:           pc.IsAvaliado,
			DataInicioProblema:   optEpochMillis(pc.DataInicioProblema),
			DataFimProblema:      optEpochMillis(pc.DataFimProblema),
		}
		seq := pc.CoSequencialEvolucao
		if seq == 0 {
			seq = 1
		}
		mapped.CoSequencialEvolucao = i64Ptr(seq)
		switch pc.Type {
		case "CID10":
			mapped.CID10 = pc.Code
		case "CIAP2":
			mapped.CIAP = pc.Code
		}
		out = append(out, mapped)
	}
	return out
}

func mapMedicamentos(rows []encounter.Medication) []ficha.Medicamento {
	if rows == nil {
		return nil
	}
	out := make([]ficha.Medicamento, 0, len(rows))
	for _, m := range rows {
		out = append(out, ficha.Medicamento{
			CodigoCatmat:        m.CodigoCatmat,
			ViaAdministracao:    parseI64(m.ViaAdministracao),
			Dose:                m.Dose,
			DoseUnica:           m.DoseUnica,
			UsoContinuo:         m.UsoContinuo,
			DoseFrequenciaTipo:  parseI64(m.DoseFrequenciaTipo),
			DoseFrequencia:      m.DoseFrequencia,
			DtInicioTratamento:  optEpochMillis(m.DtInicioTratamento),
			DuracaoTratamento:   parseI64(m.DuracaoTratamento),
			QuantidadeReceitada: parseI64(m.QuantidadeReceitada),
		})
	}
	return out
}

func mapEncaminhamentos(rows []encounter.Referral) []ficha.Encaminhamento {
	if rows == nil {
		return nil
	}
	out := make([]ficha.Encaminhamento, 0, len(rows))
	for _, e := range rows {
		out = append(out, ficha.Encaminhamento{
			Especialidade:            parseI64(e.Especialidade),
			HipoteseDiagnosticoCID10: e.HipoteseDiagnosticoCID10,
			HipoteseDiagnosticoCIAP2: e.HipoteseDiagnosticoCIAP2,
			ClassificacaoRisco:       parseI64(e.ClassificacaoRisco),
		})
	}
	return out
}

func mapResultadosExames(rows []encounter.ExamResults) []ficha.ResultadosExame {
	if rows == nil {
		return nil
	}
	out := make([]ficha.ResultadosExame, 0, len(rows))
	for _, r := range rows {
		mapped := ficha.ResultadosExame{
			Exame:           r.Exame,
			DataSolicitacao: optEpochMillis(r.DataSolicitacao),
			DataRealizacao:  optEpochMillis(r.DataRealizacao),
			DataResultado:   optEpochMillis(r.DataResultado),
		}
		for _, res := range r.Resultado {
			mapped.Resultados = append(mapped.Resultados, ficha.ResultadoExame{
				TipoResultado:  parseI64(res.TipoResultado),
				ValorResultado: res.ValorResultado,
			})
		}
		out = append(out, mapped)
	}
	return out
}

// mapIvcf maps the frailty index. The result date is mandatory on the wire;
// it falls back to the attendance date.
func mapIvcf(v *encounter.IVCF, attendanceDate int64) *ficha.Ivcf {
	if v == nil {
		return nil
	}
	dataResultado := attendanceDate
	if parsed := optEpochMillis(v.DataResultado); parsed != nil {
		dataResultado = *parsed
	}
	return &ficha.Ivcf{
		Resultado:                 v.Resultado,
		HasSgIdade:                v.HasSgIdade,
		HasSgPercepcaoSaude:       v.HasSgPercepcaoSaude,
		HasSgAvdInstrumental:      v.HasSgAvdInstrumental,
		HasSgAvdBasica:            v.HasSgAvdBasica,
		HasSgCognicao:             v.HasSgCognicao,
		HasSgHumor:                v.HasSgHumor,
		HasSgAlcancePreensaoPinca: v.HasSgAlcancePreensaoPinca,
		HasSgCapAerobicaMuscular:  v.HasSgCapAerobicaMuscular,
		HasSgMarcha:               v.HasSgMarcha,
		HasSgContinencia:          v.HasSgContinencia,
		HasSgVisao:                v.HasSgVisao,
		HasSgAudicao:              v.HasSgAudicao,
		HasSgComorbidade:          v.HasSgComorbidade,
		DataResultado:             dataResultado,
	}
}

func mapSolicitacoesOci(rows []encounter.OCIRequest) []ficha.SolicitacaoOci {
	if rows == nil {
		return nil
	}
	out := make([]ficha.SolicitacaoOci, 0, len(rows))
	for _, s := range rows {
		out = append(out, ficha.SolicitacaoOci{CodigoSigtap: s.CodigoSigtap})
	}
	return out
}

func soapProblemConditions(p encounter.Payload) []encounter.ProblemCondition {
	if p.SOAP == nil || p.SOAP.Evaluation == nil {
		return nil
	}
	return p.SOAP.Evaluation.ProblemConditions
}

func requireDOB(p encounter.Payload) (int64, error) {
	dob, err := epochMillis(p.PatientDOB)
	if err != nil {
		return 0, &MapError{Field: "patientDob", Code: "INVALID_DATE",
			Message: "patient date of birth is required", Cause: err}
	}
	return dob, nil
}
