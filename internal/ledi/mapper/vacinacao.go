package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// Vaccination fallbacks for connectors that omit batch metadata. The receiver
// requires lote and fabricante to be present.
const (
	vacinaEstrategiaRotina = 1
	vacinaDosePadrao       = 1
	vacinaLotePadrao       = "00000"
	vacinaFabricantePadrao = "UNKNOWN"
)

// mapVacinacao builds a Ficha de Vacinação carrying a single applied dose.
func mapVacinacao(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}
	vd := p.VaccinationData
	if vd == nil {
		return nil, &MapError{Field: "vaccinationData", Code: "MISSING_VACCINATION",
			Message: "vaccination sheet requires vaccinationData"}
	}
	imuno := parseI64(vd.Imunobiologico)
	if imuno == nil {
		return nil, &MapError{Field: "vaccinationData.imunobiologico", Code: "INVALID_IMMUNOBIOLOGICAL",
			Message: "immunobiological code must be numeric"}
	}

	vacina := ficha.Vacina{
		Imunobiologico:      *imuno,
		EstrategiaVacinacao: parseI64Default(vd.Estrategia, vacinaEstrategiaRotina),
		Dose:                parseI64Default(vd.Dose, vacinaDosePadrao),
		Lote:                vd.Lote,
		Fabricante:          vd.Fabricante,
		ViaAdministracao:    parseI64(vd.ViaAdministracao),
		LocalAplicacao:      parseI64(vd.LocalAplicacao),
	}
	if vacina.Lote == "" {
		vacina.Lote = vacinaLotePadrao
	}
	if vacina.Fabricante == "" {
		vacina.Fabricante = vacinaFabricantePadrao
	}

	vac := ficha.Vacinacao{
		Turno:            c.turno,
		NumProntuario:    p.PatientID,
		CNSCidadao:       p.PatientCNS,
		CPFCidadao:       p.PatientCPF,
		DtNascimento:     dob,
		Sexo:             c.sexo,
		LocalAtendimento: defaultLocalAtendimento,
		Viajante:         false,
		Vacinas:          []ficha.Vacina{vacina},

		DataHoraInicialAtendimento: c.date,
		DataHoraFinalAtendimento:   c.date + windowVacinacao.Milliseconds(),
	}

	return &ficha.VacinacaoMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Vacinacoes:      []ficha.Vacinacao{vac},
	}, nil
}
