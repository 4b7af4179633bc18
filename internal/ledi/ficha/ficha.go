// Package ficha defines the seven LEDI CDS ficha variants exchanged with the
// PEC national receiver, plus the shared header and clinical extension
// structures of layout 7.3.3. These are plain domain values; the binary wire
// representation lives in internal/ledi/codec.
package ficha

// Type identifies which CDS ficha a record was classified as.
type Type string

const (
	TypeAtendimentoIndividual   Type = "FICHA_ATENDIMENTO_INDIVIDUAL"
	TypeAtendimentoOdontologico Type = "FICHA_ATENDIMENTO_ODONTOLOGICO"
	TypeAtividadeColetiva       Type = "FICHA_ATIVIDADE_COLETIVA"
	TypeProcedimentos           Type = "FICHA_PROCEDIMENTOS"
	TypeVisitaDomiciliar        Type = "FICHA_VISITA_DOMICILIAR"
	TypeAtendimentoDomiciliar   Type = "FICHA_ATENDIMENTO_DOMICILIAR"
	TypeVacinacao               Type = "FICHA_VACINACAO"
)

// TransportCode returns the tipoDadoSerializado value carried on the
// DadoTransporte envelope, per the LEDI data dictionary.
func (t Type) TransportCode() int64 {
	switch t {
	case TypeAtendimentoIndividual:
		return 4
	case TypeAtendimentoOdontologico:
		return 5
	case TypeAtividadeColetiva:
		return 6
	case TypeProcedimentos:
		return 7
	case TypeVisitaDomiciliar:
		return 8
	case TypeAtendimentoDomiciliar:
		return 11
	case TypeVacinacao:
		return 13
	}
	return 0
}

// Master is implemented by the seven top-level ficha structures.
type Master interface {
	FichaType() Type
	FichaUUID() string
}

// LotacaoHeader identifies the professional assignment that produced the ficha.
type LotacaoHeader struct {
	ProfissionalCNS      string
	CBOCodigo2002        string
	CNES                 string
	INE                  string
	DataAtendimento      int64 // epoch millis
	CodigoIbgeMunicipio  string
}

// VariasLotacoesHeader wraps the principal assignment header.
type VariasLotacoesHeader struct {
	LotacaoFormPrincipal LotacaoHeader
}

// Originadora identifies the originating installation on the envelope.
type Originadora struct {
	ContraChave string
	CPFCNPJ     string
}

// Remetente identifies the sending installation on the envelope.
type Remetente struct {
	ContraChave string
	CNPJ        string
}

// Clinical extension structures shared across variants.

type ProblemaCondicao struct {
	UUIDProblema         string
	CoSequencialEvolucao *int64
	UUIDEvolucaoProblema string
	CIAP                 string
	CID10                string
	Situacao             string
	IsAvaliado           *bool
	DataInicioProblema   *int64
	DataFimProblema      *int64
}

type Medicoes struct {
	CircunferenciaAbdominal *float64
	PerimetroPanturrilha    *float64
	PressaoArterialSistolica  *int64
	PressaoArterialDiastolica *int64
	FrequenciaRespiratoria  *int64
	FrequenciaCardiaca      *int64
	Temperatura             *float64
	SaturacaoO2             *int64
	GlicemiaCapilar         *int64
	TipoGlicemiaCapilar     *int64
	Peso                    *float64
	Altura                  *float64
	PerimetroCefalico       *float64
}

// IsZero reports whether no measurement was informed.
func (m Medicoes) IsZero() bool {
	return m.CircunferenciaAbdominal == nil && m.PerimetroPanturrilha == nil &&
		m.PressaoArterialSistolica == nil && m.PressaoArterialDiastolica == nil &&
		m.FrequenciaRespiratoria == nil && m.FrequenciaCardiaca == nil &&
		m.Temperatura == nil && m.SaturacaoO2 == nil && m.GlicemiaCapilar == nil &&
		m.TipoGlicemiaCapilar == nil && m.Peso == nil && m.Altura == nil &&
		m.PerimetroCefalico == nil
}

type Medicamento struct {
	CodigoCatmat       string
	ViaAdministracao   *int64
	Dose               string
	DoseUnica          *bool
	UsoContinuo        *bool
	DoseFrequenciaTipo *int64
	DoseFrequencia     string
	DtInicioTratamento *int64
	DuracaoTratamento  *int64
	QuantidadeReceitada *int64
}

type Encaminhamento struct {
	Especialidade            *int64
	HipoteseDiagnosticoCID10 string
	HipoteseDiagnosticoCIAP2 string
	ClassificacaoRisco       *int64
}

type ResultadoExame struct {
	TipoResultado  *int64
	ValorResultado string
}

type ResultadosExame struct {
	Exame           string
	DataSolicitacao *int64
	DataRealizacao  *int64
	DataResultado   *int64
	Resultados      []ResultadoExame
}

// Ivcf carries the frailty index result: the score, the thirteen frailty
// domain flags and the result date.
type Ivcf struct {
	Resultado                 int32
	HasSgIdade                *bool
	HasSgPercepcaoSaude       *bool
	HasSgAvdInstrumental      *bool
	HasSgAvdBasica            *bool
	HasSgCognicao             *bool
	HasSgHumor                *bool
	HasSgAlcancePreensaoPinca *bool
	HasSgCapAerobicaMuscular  *bool
	HasSgMarcha               *bool
	HasSgContinencia          *bool
	HasSgVisao                *bool
	HasSgAudicao              *bool
	HasSgComorbidade          *bool
	DataResultado             int64
}

type Exame struct {
	CodigoExame        string
	SolicitadoAvaliado []string
}

type SolicitacaoOci struct {
	CodigoSigtap string
}

type ProcedimentoQuantidade struct {
	CoMsProcedimento string
	Quantidade       int64
}

// --- Ficha de Atendimento Individual (CDS 03) ---

type AtendimentoIndividualMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Atendimentos    []AtendimentoIndividual
}

func (m *AtendimentoIndividualMaster) FichaType() Type   { return TypeAtendimentoIndividual }
func (m *AtendimentoIndividualMaster) FichaUUID() string { return m.UUIDFicha }

type AtendimentoIndividual struct {
	NumeroProntuario string
	CNSCidadao       string
	CPFCidadao       string
	DataNascimento   int64
	LocalDeAtendimento int64
	Sexo             int64
	Turno            int64
	TipoAtendimento  int64

	PesoAcompanhamentoNutricional   *float64
	AlturaAcompanhamentoNutricional *float64
	AleitamentoMaterno              *int64
	DumDaGestante                   *int64
	IdadeGestacional                *int32
	StGravidezPlanejada             bool
	NuGestasPrevias                 int32
	NuPartos                        int32

	VacinaEmDia       bool
	FicouEmObservacao bool

	AtencaoDomiciliarModalidade *int64
	RacionalidadeSaude          *int64
	Pic                         *int64
	Condutas                    []int64
	Nasfs                       []int64
	Emultis                     []int64

	DataHoraInicialAtendimento int64
	DataHoraFinalAtendimento   int64

	TipoParticipacaoCidadao               *int64
	TipoParticipacaoProfissionalConvidado *int64
	FinalizadorObservacao                 *LotacaoHeader

	Exames            []Exame
	Medicoes          Medicoes
	ProblemasCondicoes []ProblemaCondicao
	Medicamentos      []Medicamento
	Encaminhamentos   []Encaminhamento
	ResultadosExames  []ResultadosExame
	SolicitacoesOci   []SolicitacaoOci
	Ivcf              *Ivcf
}

// --- Ficha de Atendimento Odontológico (CDS 04) ---

type AtendimentoOdontologicoMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Atendimentos    []AtendimentoOdontologico
}

func (m *AtendimentoOdontologicoMaster) FichaType() Type   { return TypeAtendimentoOdontologico }
func (m *AtendimentoOdontologicoMaster) FichaUUID() string { return m.UUIDFicha }

type AtendimentoOdontologico struct {
	DtNascimento        int64
	CNSCidadao          string
	CPFCidadao          string
	NumProntuario       string
	Gestante            *bool
	NecessidadesEspeciais *bool
	LocalAtendimento    int64
	TipoAtendimento     int64
	Sexo                int64
	Turno               int64
	DataHoraInicialAtendimento int64
	DataHoraFinalAtendimento   int64

	TiposEncamOdonto          []int64
	TiposFornecimOdonto       []int64
	TiposVigilanciaSaudeBucal []int64
	TiposConsultaOdonto       []int64

	ProcedimentosRealizados []ProcedimentoQuantidade

	Medicamentos       []Medicamento
	Encaminhamentos    []Encaminhamento
	ResultadosExames   []ResultadosExame
	Medicoes           Medicoes
	ProblemasCondicoes []ProblemaCondicao
	Ivcf               *Ivcf
	Exames             []Exame
	SolicitacoesOci    []SolicitacaoOci
}

// --- Ficha de Atividade Coletiva (CDS 05) ---

type AtividadeColetivaMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader

	Inep                   *int64
	NumParticipantes       int32
	NumAvaliacoesAlteradas *int32
	Profissionais          []ProfissionalColetiva
	AtividadeTipo          int64
	TemasParaReuniao       []int64
	PublicoAlvo            []int64
	TemasParaSaude         []int64
	PraticasEmSaude        []int64
	Participantes          []Participante
	CnesLocalAtividade     string
	Procedimento           string
	Turno                  int64
	PseEducacao            *int64
	PseSaude               *int64
}

func (m *AtividadeColetivaMaster) FichaType() Type   { return TypeAtividadeColetiva }
func (m *AtividadeColetivaMaster) FichaUUID() string { return m.UUIDFicha }

type ProfissionalColetiva struct {
	CNSProfissional string
	CBOCodigo2002   string
}

type Participante struct {
	CNSParticipante   string
	DataNascimento    int64
	Sexo              int64
	AvaliacaoAlterada bool
	Peso              *float64
	Altura            *float64
	CessouHabitoFumar bool
	AbandonouGrupo    bool
}

// --- Ficha de Procedimentos (CDS 06) ---

type ProcedimentosMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Atendimentos    []AtendimentoProcedimentos
}

func (m *ProcedimentosMaster) FichaType() Type   { return TypeProcedimentos }
func (m *ProcedimentosMaster) FichaUUID() string { return m.UUIDFicha }

type AtendimentoProcedimentos struct {
	NumProntuario    string
	CNSCidadao       string
	CPFCidadao       string
	DtNascimento     int64
	Sexo             int64
	LocalAtendimento int64
	Turno            int64
	StatusEscutaInicialOrientacao bool
	Procedimentos    []string
	DataHoraInicialAtendimento int64
	DataHoraFinalAtendimento   int64
	Medicoes         Medicoes
	Ivcf             *Ivcf
}

// --- Ficha de Visita Domiciliar (CDS 07, community agents) ---

type VisitaDomiciliarMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Visitas         []VisitaDomiciliar
}

func (m *VisitaDomiciliarMaster) FichaType() Type   { return TypeVisitaDomiciliar }
func (m *VisitaDomiciliarMaster) FichaUUID() string { return m.UUIDFicha }

type VisitaDomiciliar struct {
	Turno          int64
	NumProntuario  string
	CNSCidadao     string
	DtNascimento   int64
	Sexo           int64
	StatusVisitaCompartilhada bool
	Desfecho       int64
	MotivosVisita  []int64
	Microarea      string
	StForaArea     bool
	TipoDeImovel   int64
	PesoAcompanhamentoNutricional   *float64
	AlturaAcompanhamentoNutricional *float64
}

// --- Ficha de Atendimento Domiciliar (CDS 08, physicians and nurses) ---

type AtendimentoDomiciliarMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Atendimentos    []AtendimentoDomiciliar
}

func (m *AtendimentoDomiciliarMaster) FichaType() Type   { return TypeAtendimentoDomiciliar }
func (m *AtendimentoDomiciliarMaster) FichaUUID() string { return m.UUIDFicha }

type AtendimentoDomiciliar struct {
	Turno                       int64
	CNSCidadao                  string
	CPFCidadao                  string
	DataNascimento              int64
	Sexo                        int64
	LocalDeAtendimento          int64
	AtencaoDomiciliarModalidade int64
	TipoAtendimento             int64
	CondicoesAvaliadas          []int64
	Procedimentos               []string
	CondutaDesfecho             int64
	ProblemasCondicoes          []ProblemaCondicao
}

// --- Ficha de Vacinação (CDS 13) ---

type VacinacaoMaster struct {
	UUIDFicha       string
	TpCdsOrigem     int32
	HeaderTransport VariasLotacoesHeader
	Vacinacoes      []Vacinacao
}

func (m *VacinacaoMaster) FichaType() Type   { return TypeVacinacao }
func (m *VacinacaoMaster) FichaUUID() string { return m.UUIDFicha }

type Vacinacao struct {
	Turno            int64
	NumProntuario    string
	CNSCidadao       string
	CPFCidadao       string
	DtNascimento     int64
	Sexo             int64
	LocalAtendimento int64
	Viajante         bool
	Vacinas          []Vacina
	DataHoraInicialAtendimento int64
	DataHoraFinalAtendimento   int64
}

type Vacina struct {
	Imunobiologico     int64
	EstrategiaVacinacao int64
	Dose               int64
	Lote               string
	Fabricante         string
	ViaAdministracao   *int64
	LocalAplicacao     *int64
	EspecialidadeProfissionalPrescritor string
	MotivoIndicacao    string
}
