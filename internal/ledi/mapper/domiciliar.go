package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// localDomicilio is the service location code for the patient's home.
const localDomicilio = 4

// Home visit defaults. Community agent visits always report the standard
// periodic visit reason and a completed outcome.
const (
	visitaDesfechoRealizada = 1
	visitaMotivoPeriodica   = 32
	visitaTipoImovelDomicilio = 1
)

// Home care (FAD) defaults applied when the connector sends no fadData block.
const (
	fadModalidadePadrao      = 1
	fadTipoAtendimentoPadrao = 7
	fadCondutaPermanece      = 1
)

// mapVisitaDomiciliar builds a Ficha de Visita Domiciliar, the community
// agent variant of home care.
func mapVisitaDomiciliar(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}

	visita := ficha.VisitaDomiciliar{
		Turno:                     c.turno,
		NumProntuario:             p.PatientID,
		CNSCidadao:                p.PatientCNS,
		DtNascimento:              dob,
		Sexo:                      c.sexo,
		StatusVisitaCompartilhada: false,
		Desfecho:                  visitaDesfechoRealizada,
		MotivosVisita:             []int64{visitaMotivoPeriodica},
		StForaArea:                false,
		TipoDeImovel:              visitaTipoImovelDomicilio,

		PesoAcompanhamentoNutricional:   parseFloat(p.Weight),
		AlturaAcompanhamentoNutricional: parseFloat(p.Height),
	}

	return &ficha.VisitaDomiciliarMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Visitas:         []ficha.VisitaDomiciliar{visita},
	}, nil
}

// mapAtendimentoDomiciliar builds a Ficha de Atendimento Domiciliar, the
// physician and nurse variant of home care.
func mapAtendimentoDomiciliar(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}

	att := ficha.AtendimentoDomiciliar{
		Turno:              c.turno,
		CNSCidadao:         p.PatientCNS,
		CPFCidadao:         p.PatientCPF,
		DataNascimento:     dob,
		Sexo:               c.sexo,
		LocalDeAtendimento: localDomicilio,

		AtencaoDomiciliarModalidade: fadModalidadePadrao,
		TipoAtendimento:             fadTipoAtendimentoPadrao,
		CondutaDesfecho:             fadCondutaPermanece,
		CondicoesAvaliadas:          []int64{},
		Procedimentos:               []string{},

		ProblemasCondicoes: mapProblemasCondicoes(soapProblemConditions(p), c.newUUID),
	}

	if fad := p.FADData; fad != nil {
		if fad.AtencaoDomiciliarModalidade != 0 {
			att.AtencaoDomiciliarModalidade = fad.AtencaoDomiciliarModalidade
		}
		if fad.TipoAtendimento != 0 {
			att.TipoAtendimento = fad.TipoAtendimento
		}
		if fad.CondutaDesfecho != 0 {
			att.CondutaDesfecho = fad.CondutaDesfecho
		}
		if fad.CondicoesAvaliadas != nil {
			att.CondicoesAvaliadas = fad.CondicoesAvaliadas
		}
		if fad.Procedimentos != nil {
			att.Procedimentos = fad.Procedimentos
		}
	}
	if len(att.Procedimentos) == 0 && p.ProcedureCode != "" {
		att.Procedimentos = []string{p.ProcedureCode}
	}

	return &ficha.AtendimentoDomiciliarMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Atendimentos:    []ficha.AtendimentoDomiciliar{att},
	}, nil
}
