package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// mapOdontologico builds a Ficha de Atendimento Odontológico. Dental
// consultations get the widest attendance window, twenty minutes.
func mapOdontologico(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}

	att := ficha.AtendimentoOdontologico{
		DtNascimento:          dob,
		CNSCidadao:            p.PatientCNS,
		CPFCidadao:            p.PatientCPF,
		NumProntuario:         p.PatientID,
		Gestante:              boolPtr(p.IsPregnant),
		NecessidadesEspeciais: boolPtr(false),
		LocalAtendimento:      defaultLocalAtendimento,
		TipoAtendimento:       parseI64Default(p.ConsultationType, 1),
		Sexo:                  c.sexo,
		Turno:                 c.turno,

		DataHoraInicialAtendimento: c.date,
		DataHoraFinalAtendimento:   c.date + windowOdonto.Milliseconds(),

		TiposVigilanciaSaudeBucal: parseI64List(p.OralHealthVigilance),
		TiposEncamOdonto:          parseI64List(p.OdontoConduct),

		Medicamentos:       mapMedicamentos(p.Medicamentos),
		Encaminhamentos:    mapEncaminhamentos(p.Encaminhamentos),
		ResultadosExames:   mapResultadosExames(p.ResultadosExames),
		Medicoes:           mapMedicoes(p),
		ProblemasCondicoes: mapProblemasCondicoes(soapProblemConditions(p), c.newUUID),
		Ivcf:               mapIvcf(p.IVCF, c.date),
		SolicitacoesOci:    mapSolicitacoesOci(p.SolicitacoesOci),
	}

	if p.ProcedureCode != "" {
		att.ProcedimentosRealizados = []ficha.ProcedimentoQuantidade{{
			CoMsProcedimento: p.ProcedureCode,
			Quantidade:       clampQuantity(p.Quantity),
		}}
	}

	if p.SOAP != nil && p.SOAP.Plan != nil {
		att.Exames = mapExames(p.SOAP.Plan.Exames)
	}

	return &ficha.AtendimentoOdontologicoMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Atendimentos:    []ficha.AtendimentoOdontologico{att},
	}, nil
}
