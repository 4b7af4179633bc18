// Package encounter holds the clinical encounter records queued for LEDI
// delivery and their Postgres repository. Payloads arrive as JSON from the
// municipal capture connectors and keep the connector field names.
package encounter

import "time"

// Status tracks a record through the delivery pipeline.
type Status string

const (
	StatusPending       Status = "PENDENTE_ENVIO"
	StatusSent          Status = "ENVIADO_PEC"
	StatusSendError     Status = "ERRO_ENVIO"
	StatusInternalError Status = "ERRO_INTERNO"
)

// System under which a record is exported. Only LEDI records enter batches.
const SystemLEDI = "LEDI"

// Record is a single encounter awaiting (or past) delivery to the PEC.
type Record struct {
	ID             string
	MunicipalityID string
	System         string
	Status         Status
	Attempts       int
	LastError      string
	UUIDFicha      string
	SheetType      string
	PECResponse    string
	SentAt         *time.Time
	Legacy         bool
	Payload        Payload
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Payload is the connector-fed clinical content, stored as JSONB.
type Payload struct {
	OriginFicha    string        `json:"originFicha,omitempty"`
	ProfessionalID string        `json:"professionalId,omitempty"`
	Professional   *Professional `json:"professional,omitempty"`
	CBO            string        `json:"cbo,omitempty"`
	CNES           string        `json:"cnes,omitempty"`
	INE            string        `json:"ine,omitempty"`

	AttendanceDate string `json:"attendanceDate"`
	Shift          string `json:"shift,omitempty"` // M/T/N

	PatientID  string `json:"patientId,omitempty"`
	PatientCNS string `json:"patientCns,omitempty"`
	PatientCPF string `json:"patientCpf,omitempty"`
	PatientDOB string `json:"patientDob,omitempty"`
	PatientSex string `json:"patientSex,omitempty"` // M/F

	LocalAtendimento int    `json:"localAtendimento,omitempty"`
	ProcedureCode    string `json:"procedureCode,omitempty"`
	ProcedureName    string `json:"procedureName,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
	Procedures       []string `json:"procedimentos,omitempty"`

	AttendanceType   string   `json:"attendanceType,omitempty"`
	ConsultationType string   `json:"consultationType,omitempty"`
	CIDCodes         []string `json:"cidCodes,omitempty"`

	IsPregnant          bool   `json:"isPregnant,omitempty"`
	DumDaGestante       string `json:"dumDaGestante,omitempty"`
	IdadeGestacional    string `json:"idadeGestacional,omitempty"`
	StGravidezPlanejada bool   `json:"stGravidezPlanejada,omitempty"`
	NuGestasPrevias     string `json:"nuGestasPrevias,omitempty"`
	NuPartos            string `json:"nuPartos,omitempty"`
	BreastfeedingType   string `json:"breastfeedingType,omitempty"`

	VacinaEmDia       bool `json:"vacinaEmDia,omitempty"`
	FicouEmObservacao bool `json:"ficouEmObservacao,omitempty"`

	Weight string `json:"weight,omitempty"`
	Height string `json:"height,omitempty"`

	// Vitals, flattened at the payload root by the connector.
	PressaoArterialSistolica  *int64   `json:"pressaoArterialSistolica,omitempty"`
	PressaoArterialDiastolica *int64   `json:"pressaoArterialDiastolica,omitempty"`
	FrequenciaCardiaca        *int64   `json:"frequenciaCardiaca,omitempty"`
	FrequenciaRespiratoria    *int64   `json:"frequenciaRespiratoria,omitempty"`
	Temperatura               *float64 `json:"temperatura,omitempty"`
	SaturacaoO2               *int64   `json:"saturacaoO2,omitempty"`
	GlicemiaCapilar           *int64   `json:"glicemiaCapilar,omitempty"`
	TipoGlicemiaCapilar       *int64   `json:"tipoGlicemiaCapilar,omitempty"`
	Peso                      *float64 `json:"peso,omitempty"`
	Altura                    *float64 `json:"altura,omitempty"`
	PerimetroCefalico         *float64 `json:"perimetroCefalico,omitempty"`
	PerimetroPanturrilha      *float64 `json:"perimetroPanturrilha,omitempty"`
	CircunferenciaAbdominal   *float64 `json:"circunferenciaAbdominal,omitempty"`

	SOAP *SOAP `json:"soaps,omitempty"`

	Medicamentos     []Medication  `json:"medicamentos,omitempty"`
	Encaminhamentos  []Referral    `json:"encaminhamentos,omitempty"`
	ResultadosExames []ExamResults `json:"resultadosExames,omitempty"`
	IVCF             *IVCF         `json:"ivcf,omitempty"`
	SolicitacoesOci  []OCIRequest  `json:"solicitacoesOci,omitempty"`

	// Odontology
	OralHealthVigilance []string `json:"oralHealthVigilance,omitempty"`
	OdontoConduct       []string `json:"odontoConduct,omitempty"`

	// Collective activity
	IsCollectiveActivity bool              `json:"isCollectiveActivity,omitempty"`
	ActivityType         string            `json:"activityType,omitempty"`
	ParticipantsCount    string            `json:"participantsCount,omitempty"`
	TargetAudience       []string          `json:"targetAudience,omitempty"`
	MeetingThemes        []string          `json:"meetingThemes,omitempty"`
	HealthThemes         []string          `json:"healthThemes,omitempty"`
	HealthPractices      []string          `json:"healthPractices,omitempty"`
	Participants         []ParticipantRow  `json:"participants,omitempty"`
	OtherProfessionals   []ProfessionalRow `json:"otherProfessionals,omitempty"`
	PseEducacao          bool              `json:"pseEducacao,omitempty"`
	PseSaude             bool              `json:"pseSaude,omitempty"`

	VaccinationData *VaccinationData `json:"vaccinationData,omitempty"`
	FADData         *FADData         `json:"fadData,omitempty"`
}

type Professional struct {
	CNS string `json:"cns,omitempty"`
	CBO string `json:"cbo,omitempty"`
}

// ProfessionalCNS resolves the acting professional's CNS, falling back to the
// legacy professionalId field.
func (p Payload) ProfessionalCNS() string {
	if p.Professional != nil && p.Professional.CNS != "" {
		return p.Professional.CNS
	}
	return p.ProfessionalID
}

// ProfessionalCBO resolves the acting professional's CBO code.
func (p Payload) ProfessionalCBO() string {
	if p.CBO != "" {
		return p.CBO
	}
	if p.Professional != nil {
		return p.Professional.CBO
	}
	return ""
}

type SOAP struct {
	Evaluation *SOAPEvaluation `json:"evaluation,omitempty"`
	Plan       *SOAPPlan       `json:"plan,omitempty"`
}

type SOAPEvaluation struct {
	ProblemConditions []ProblemCondition `json:"problemConditions,omitempty"`
}

type SOAPPlan struct {
	Conduct []string      `json:"conduct,omitempty"`
	Exames  []ExamRequest `json:"exames,omitempty"`
}

type ProblemCondition struct {
	Type                 string `json:"type,omitempty"` // CID10 or CIAP2
	Code                 string `json:"code,omitempty"`
	Situacao             string `json:"situacao,omitempty"`
	IsAvaliado           *bool  `json:"isAvaliado,omitempty"`
	UUIDProblema         string `json:"uuidProblema,omitempty"`
	CoSequencialEvolucao int64  `json:"coSequencialEvolucao,omitempty"`
	DataInicioProblema   string `json:"dataInicioProblema,omitempty"`
	DataFimProblema      string `json:"dataFimProblema,omitempty"`
}

type ExamRequest struct {
	CodigoExame        string   `json:"codigoExame,omitempty"`
	SolicitadoAvaliado []string `json:"solicitadoAvaliado,omitempty"`
}

type Medication struct {
	CodigoCatmat        string `json:"codigoCatmat,omitempty"`
	ViaAdministracao    string `json:"viaAdministracao,omitempty"`
	Dose                string `json:"dose,omitempty"`
	DoseUnica           *bool  `json:"doseUnica,omitempty"`
	UsoContinuo         *bool  `json:"usoContinuo,omitempty"`
	DoseFrequenciaTipo  string `json:"doseFrequenciaTipo,omitempty"`
	DoseFrequencia      string `json:"doseFrequencia,omitempty"`
	DtInicioTratamento  string `json:"dtInicioTratamento,omitempty"`
	DuracaoTratamento   string `json:"duracaoTratamento,omitempty"`
	QuantidadeReceitada string `json:"quantidadeReceitada,omitempty"`
}

type Referral struct {
	Especialidade            string `json:"especialidade,omitempty"`
	HipoteseDiagnosticoCID10 string `json:"hipoteseDiagnosticoCID10,omitempty"`
	HipoteseDiagnosticoCIAP2 string `json:"hipoteseDiagnosticoCIAP2,omitempty"`
	ClassificacaoRisco       string `json:"classificacaoRisco,omitempty"`
}

type ExamResults struct {
	Exame           string       `json:"exame,omitempty"`
	DataSolicitacao string       `json:"dataSolicitacao,omitempty"`
	DataRealizacao  string       `json:"dataRealizacao,omitempty"`
	DataResultado   string       `json:"dataResultado,omitempty"`
	Resultado       []ExamResult `json:"resultado,omitempty"`
}

type ExamResult struct {
	TipoResultado  string `json:"tipoResultado,omitempty"`
	ValorResultado string `json:"valorResultado,omitempty"`
}

type IVCF struct {
	Resultado                 int32  `json:"resultado"`
	HasSgIdade                *bool  `json:"hasSgIdade,omitempty"`
	HasSgPercepcaoSaude       *bool  `json:"hasSgPercepcaoSaude,omitempty"`
	HasSgAvdInstrumental      *bool  `json:"hasSgAvdInstrumental,omitempty"`
	HasSgAvdBasica            *bool  `json:"hasSgAvdBasica,omitempty"`
	HasSgCognicao             *bool  `json:"hasSgCognicao,omitempty"`
	HasSgHumor                *bool  `json:"hasSgHumor,omitempty"`
	HasSgAlcancePreensaoPinca *bool  `json:"hasSgAlcancePreensaoPinca,omitempty"`
	HasSgCapAerobicaMuscular  *bool  `json:"hasSgCapAerobicaMuscular,omitempty"`
	HasSgMarcha               *bool  `json:"hasSgMarcha,omitempty"`
	HasSgContinencia          *bool  `json:"hasSgContinencia,omitempty"`
	HasSgVisao                *bool  `json:"hasSgVisao,omitempty"`
	HasSgAudicao              *bool  `json:"hasSgAudicao,omitempty"`
	HasSgComorbidade          *bool  `json:"hasSgComorbidade,omitempty"`
	DataResultado             string `json:"dataResultado,omitempty"`
}

type OCIRequest struct {
	CodigoSigtap string `json:"codigoSigtap,omitempty"`
}

type ParticipantRow struct {
	CNS            string `json:"cns,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Sex            string `json:"sex,omitempty"`
	HasAlteredEval bool   `json:"hasAlteredEval,omitempty"`
	QuitSmoking    bool   `json:"quitSmoking,omitempty"`
	AbandonedGroup bool   `json:"abandonedGroup,omitempty"`
	Weight         string `json:"weight,omitempty"`
	Height         string `json:"height,omitempty"`
}

type ProfessionalRow struct {
	CNS string `json:"cns,omitempty"`
	CBO string `json:"cbo,omitempty"`
}

type VaccinationData struct {
	Imunobiologico   string `json:"imunobiologico,omitempty"`
	Estrategia       string `json:"estrategia,omitempty"`
	Dose             string `json:"dose,omitempty"`
	Lote             string `json:"lote,omitempty"`
	Fabricante       string `json:"fabricante,omitempty"`
	ViaAdministracao string `json:"viaAdministracao,omitempty"`
	LocalAplicacao   string `json:"localAplicacao,omitempty"`
}

type FADData struct {
	AtencaoDomiciliarModalidade int64    `json:"atencaoDomiciliarModalidade,omitempty"`
	TipoAtendimento             int64    `json:"tipoAtendimento,omitempty"`
	CondicoesAvaliadas          []int64  `json:"condicoesAvaliadas,omitempty"`
	CondutaDesfecho             int64    `json:"condutaDesfecho,omitempty"`
	Procedimentos               []string `json:"procedimentos,omitempty"`
}
