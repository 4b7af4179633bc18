package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// mapIndividual builds a Ficha de Atendimento Individual. The attendance
// window is fifteen minutes from the recorded start.
func mapIndividual(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}

	att := ficha.AtendimentoIndividual{
		NumeroProntuario:   p.PatientID,
		CNSCidadao:         p.PatientCNS,
		CPFCidadao:         p.PatientCPF,
		DataNascimento:     dob,
		LocalDeAtendimento: defaultLocalAtendimento,
		Sexo:               c.sexo,
		Turno:              c.turno,
		TipoAtendimento:    parseI64Default(p.AttendanceType, 1),

		VacinaEmDia:       p.VacinaEmDia,
		FicouEmObservacao: p.FicouEmObservacao,

		DataHoraInicialAtendimento: c.date,
		DataHoraFinalAtendimento:   c.date + windowIndividual.Milliseconds(),

		PesoAcompanhamentoNutricional:   parseFloat(p.Weight),
		AlturaAcompanhamentoNutricional: parseFloat(p.Height),
		AleitamentoMaterno:              parseI64(p.BreastfeedingType),

		Medicoes:           mapMedicoes(p),
		ProblemasCondicoes: individualProblems(p, c.newUUID),
		Medicamentos:       mapMedicamentos(p.Medicamentos),
		Encaminhamentos:    mapEncaminhamentos(p.Encaminhamentos),
		ResultadosExames:   mapResultadosExames(p.ResultadosExames),
		SolicitacoesOci:    mapSolicitacoesOci(p.SolicitacoesOci),
		Ivcf:               mapIvcf(p.IVCF, c.date),
	}

	if p.IsPregnant {
		att.StGravidezPlanejada = p.StGravidezPlanejada
		att.NuGestasPrevias = parseI32Default(p.NuGestasPrevias, 0)
		att.NuPartos = parseI32Default(p.NuPartos, 0)
		att.DumDaGestante = optEpochMillis(p.DumDaGestante)
		if v := parseI64(p.IdadeGestacional); v != nil {
			ig := int32(*v)
			att.IdadeGestacional = &ig
		}
	}

	if p.SOAP != nil && p.SOAP.Plan != nil {
		att.Condutas = parseI64List(p.SOAP.Plan.Conduct)
		att.Exames = mapExames(p.SOAP.Plan.Exames)
	}

	return &ficha.AtendimentoIndividualMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Atendimentos:    []ficha.AtendimentoIndividual{att},
	}, nil
}

// individualProblems maps SOAP evaluation rows, falling back to the legacy
// flat cidCodes list when no structured evaluation was captured.
func individualProblems(p encounter.Payload, newUUID func() string) []ficha.ProblemaCondicao {
	if rows := soapProblemConditions(p); len(rows) > 0 {
		return mapProblemasCondicoes(rows, newUUID)
	}
	if len(p.CIDCodes) == 0 {
		return nil
	}
	out := make([]ficha.ProblemaCondicao, 0, len(p.CIDCodes))
	for _, cid := range p.CIDCodes {
		out = append(out, ficha.ProblemaCondicao{CID10: cid})
	}
	return out
}

func mapExames(rows []encounter.ExamRequest) []ficha.Exame {
	if rows == nil {
		return nil
	}
	out := make([]ficha.Exame, 0, len(rows))
	for _, e := range rows {
		out = append(out, ficha.Exame{
			CodigoExame:        e.CodigoExame,
			SolicitadoAvaliado: e.SolicitadoAvaliado,
		})
	}
	return out
}
