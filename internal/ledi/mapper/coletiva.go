package mapper

import (
	"github.com/apsbridge/go-ledi/internal/domain/encounter"
	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// mapColetiva builds a Ficha de Atividade Coletiva. Unlike the attendance
// sheets the master itself carries the activity; there is no child list.
func mapColetiva(p encounter.Payload, c mapContext) (ficha.Master, error) {
	m := &ficha.AtividadeColetivaMaster{
		UUIDFicha:       c.uuidFicha,
		TpCdsOrigem:     tpCdsOrigemExterno,
		HeaderTransport: c.header(p),

		Inep:             parseI64(p.INE),
		NumParticipantes: parseI32Default(p.ParticipantsCount, 1),
		AtividadeTipo:    parseI64Default(p.ActivityType, 1),

		TemasParaReuniao: parseI64List(p.MeetingThemes),
		PublicoAlvo:      parseI64List(p.TargetAudience),
		TemasParaSaude:   parseI64List(p.HealthThemes),
		PraticasEmSaude:  parseI64List(p.HealthPractices),

		CnesLocalAtividade: c.cnes,
		Turno:              c.turno,
	}
	// The receiver rejects an absent target audience list.
	if m.PublicoAlvo == nil {
		m.PublicoAlvo = []int64{}
	}

	// One reportable procedure per collective activity sheet.
	if len(p.Procedures) > 0 {
		m.Procedimento = p.Procedures[0]
	} else {
		m.Procedimento = p.ProcedureCode
	}

	if p.PseEducacao {
		m.PseEducacao = i64Ptr(1)
	}
	if p.PseSaude {
		m.PseSaude = i64Ptr(1)
	}

	for _, prof := range p.OtherProfessionals {
		m.Profissionais = append(m.Profissionais, ficha.ProfissionalColetiva{
			CNSProfissional: prof.CNS,
			CBOCodigo2002:   prof.CBO,
		})
	}

	altered := int32(0)
	for _, row := range p.Participants {
		dob, err := epochMillis(row.DOB)
		if err != nil {
			return nil, &MapError{Field: "participants.dob", Code: "INVALID_DATE",
				Message: "participant date of birth is required", Cause: err}
		}
		sexo := int64(1)
		if row.Sex == "M" {
			sexo = 0
		}
		if row.HasAlteredEval {
			altered++
		}
		m.Participantes = append(m.Participantes, ficha.Participante{
			CNSParticipante:   row.CNS,
			DataNascimento:    dob,
			Sexo:              sexo,
			AvaliacaoAlterada: row.HasAlteredEval,
			Peso:              parseFloat(row.Weight),
			Altura:            parseFloat(row.Height),
			CessouHabitoFumar: row.QuitSmoking,
			AbandonouGrupo:    row.AbandonedGroup,
		})
	}
	if altered > 0 {
		m.NumAvaliacoesAlteradas = &altered
	}
	if n := int32(len(m.Participantes)); n > m.NumParticipantes {
		m.NumParticipantes = n
	}

	return m, nil
}
