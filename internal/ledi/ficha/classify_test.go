package ficha

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   ClassifyInput
		want Type
	}{
		{
			name: "odonto hint wins over physician CBO",
			in:   ClassifyInput{OriginHint: OriginOdonto, CBO: "225125"},
			want: TypeAtendimentoOdontologico,
		},
		{
			name: "domiciliar hint with physician is home care",
			in:   ClassifyInput{OriginHint: OriginDomiciliar, CBO: "225125"},
			want: TypeAtendimentoDomiciliar,
		},
		{
			name: "domiciliar hint with nurse is home care",
			in:   ClassifyInput{OriginHint: OriginDomiciliar, CBO: "223505"},
			want: TypeAtendimentoDomiciliar,
		},
		{
			name: "domiciliar hint with community agent is home visit",
			in:   ClassifyInput{OriginHint: OriginDomiciliar, CBO: "515105"},
			want: TypeVisitaDomiciliar,
		},
		{
			name: "vacinacao hint",
			in:   ClassifyInput{OriginHint: OriginVacinacao, CBO: "322205"},
			want: TypeVacinacao,
		},
		{
			name: "coletiva hint",
			in:   ClassifyInput{OriginHint: OriginColetiva},
			want: TypeAtividadeColetiva,
		},
		{
			name: "unknown hint falls through to heuristics",
			in:   ClassifyInput{OriginHint: "SOMETHING_NEW", CBO: "225125"},
			want: TypeAtendimentoIndividual,
		},
		{
			name: "dentist CBO",
			in:   ClassifyInput{CBO: "223208"},
			want: TypeAtendimentoOdontologico,
		},
		{
			name: "home location with agent is home visit",
			in:   ClassifyInput{CBO: "515105", LocalAtendimento: 4},
			want: TypeVisitaDomiciliar,
		},
		{
			name: "domiciliar procedure name with agent is home visit",
			in:   ClassifyInput{CBO: "515105", ProcedureName: "Visita domiciliar de rotina"},
			want: TypeVisitaDomiciliar,
		},
		{
			name: "home location with physician stays individual",
			in:   ClassifyInput{CBO: "225125", LocalAtendimento: 4},
			want: TypeAtendimentoIndividual,
		},
		{
			name: "collective flag",
			in:   ClassifyInput{CBO: "225125", IsCollective: true},
			want: TypeAtividadeColetiva,
		},
		{
			name: "activity type implies collective",
			in:   ClassifyInput{CBO: "322205", ActivityType: "4"},
			want: TypeAtividadeColetiva,
		},
		{
			name: "vaccination payload",
			in:   ClassifyInput{CBO: "322205", HasVaccination: true},
			want: TypeVacinacao,
		},
		{
			name: "physician defaults to individual",
			in:   ClassifyInput{CBO: "225125"},
			want: TypeAtendimentoIndividual,
		},
		{
			name: "nurse defaults to individual",
			in:   ClassifyInput{CBO: "223505"},
			want: TypeAtendimentoIndividual,
		},
		{
			name: "technician defaults to procedures",
			in:   ClassifyInput{CBO: "322205"},
			want: TypeProcedimentos,
		},
		{
			name: "empty input defaults to procedures",
			in:   ClassifyInput{},
			want: TypeProcedimentos,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestTransportCodes(t *testing.T) {
	codes := map[Type]int64{
		TypeAtendimentoIndividual:   4,
		TypeAtendimentoOdontologico: 5,
		TypeAtividadeColetiva:       6,
		TypeProcedimentos:           7,
		TypeVisitaDomiciliar:        8,
		TypeAtendimentoDomiciliar:   11,
		TypeVacinacao:               13,
	}
	for typ, want := range codes {
		require.Equal(t, want, typ.TransportCode(), "type %s", typ)
	}
	require.Zero(t, Type("bogus").TransportCode())
}
