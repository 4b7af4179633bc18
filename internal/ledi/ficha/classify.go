package ficha

import "strings"

// Origin hints the capture frontend may attach to a record. An unknown hint
// falls through to the CBO/shape heuristics.
const (
	OriginOdonto        = "ODONTO"
	OriginDomiciliar    = "DOMICILIAR"
	OriginVacinacao     = "VACINACAO"
	OriginColetiva      = "COLETIVA"
	OriginIndividual    = "INDIVIDUAL"
	OriginProcedimentos = "PROCEDIMENTOS"
)

// ClassifyInput is the minimal view of an encounter record the classifier
// needs. The mapper builds it from the stored payload.
type ClassifyInput struct {
	OriginHint       string
	CBO              string
	LocalAtendimento int
	ProcedureName    string
	IsCollective     bool
	ActivityType     string
	HasVaccination   bool
}

// Home-visit service location code in the e-SUS vocabulary.
const localDomicilio = 4

func isDentist(cbo string) bool { return strings.HasPrefix(cbo, "2232") }

func isPhysician(cbo string) bool { return strings.HasPrefix(cbo, "225") }

func isNurse(cbo string) bool { return strings.HasPrefix(cbo, "2235") }

// Classify routes an encounter record to exactly one ficha type.
//
// An explicit origin hint wins. The DOMICILIAR hint splits on professional
// category: physicians and nurses produce a home care ficha (CDS 08), while
// community agents produce a home visit ficha (CDS 07). Without a hint the
// legacy heuristics apply, in order: dentist CBO, home-visit shape for
// non-physician/nurse professionals, collective markers, vaccination payload,
// and finally the physician/nurse split between individual encounters and
// plain procedures.
func Classify(in ClassifyInput) Type {
	medNurse := isPhysician(in.CBO) || isNurse(in.CBO)

	switch in.OriginHint {
	case OriginOdonto:
		return TypeAtendimentoOdontologico
	case OriginDomiciliar:
		if medNurse {
			return TypeAtendimentoDomiciliar
		}
		return TypeVisitaDomiciliar
	case OriginVacinacao:
		return TypeVacinacao
	case OriginColetiva:
		return TypeAtividadeColetiva
	case OriginIndividual:
		return TypeAtendimentoIndividual
	case OriginProcedimentos:
		return TypeProcedimentos
	}

	if isDentist(in.CBO) {
		return TypeAtendimentoOdontologico
	}

	homeVisitShape := in.LocalAtendimento == localDomicilio ||
		strings.Contains(strings.ToLower(in.ProcedureName), "domiciliar")
	if homeVisitShape && !medNurse {
		return TypeVisitaDomiciliar
	}

	if in.IsCollective || in.ActivityType != "" {
		return TypeAtividadeColetiva
	}

	if in.HasVaccination {
		return TypeVacinacao
	}

	if medNurse {
		return TypeAtendimentoIndividual
	}
	return TypeProcedimentos
}
