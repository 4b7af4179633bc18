package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// mapProcedimentos builds a Ficha de Procedimentos with a ten minute
// attendance window.
func mapProcedimentos(p encounter.Payload, c mapContext) (ficha.Master, error) {
	dob, err := requireDOB(p)
	if err != nil {
		return nil, err
	}

	procedures := p.Procedures
	if len(procedures) == 0 && p.ProcedureCode != "" {
		procedures = []string{p.ProcedureCode}
	}
	if len(procedures) == 0 {
		return nil, &MapError{Field: "procedureCode", Code: "MISSING_PROCEDURE",
			Message: "procedure sheet requires at least one SIGTAP code"}
	}

	att := ficha.AtendimentoProcedimentos{
		NumProntuario:                 p.PatientID,
		CNSCidadao:                    p.PatientCNS,
		CPFCidadao:                    p.PatientCPF,
		DtNascimento:                  dob,
		Sexo:                          c.sexo,
		LocalAtendimento:              defaultLocalAtendimento,
		Turno:                         c.turno,
		StatusEscutaInicialOrientacao: false,
		// The procedure sheet carries bare SIGTAP codes, one list entry per
		// procedure; there is no quantity member in layout 7.3.3. Quantities
		// exist only on the odonto sheet's ProcedimentoQuantidade entries,
		// where they are clamped to a minimum of 1.
		Procedimentos:              procedures,
		DataHoraInicialAtendimento: c.date,
		DataHoraFinalAtendimento:   c.date + windowProcedimentos.Milliseconds(),
		Medicoes:                   mapMedicoes(p),
		Ivcf:                       mapIvcf(p.IVCF, c.date),
	}

	return &ficha.ProcedimentosMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),
		Atendimentos:    []ficha.AtendimentoProcedimentos{att},
	}, nil
}
