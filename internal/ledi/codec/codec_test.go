package codec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

func testMeta() Meta {
	return Meta{
		CodIbge: "3550308",
		CNES:    "2337545",
		Originadora: ficha.Originadora{
			ContraChave: "chave-originadora",
			CPFCNPJ:     "00000000000191",
		},
		Remetente: ficha.Remetente{
			ContraChave: "chave-remetente",
			CNPJ:        "00000000000191",
		},
	}
}

func testHeader() ficha.VariasLotacoesHeader {
	return ficha.VariasLotacoesHeader{
		LotacaoFormPrincipal: ficha.LotacaoHeader{
			ProfissionalCNS:     "898001160660000",
			CBOCodigo2002:       "225125",
			CNES:                "2337545",
			INE:                 "0000123456",
			DataAtendimento:     1770000000000,
			CodigoIbgeMunicipio: "3550308",
		},
	}
}

func TestIndividualEnvelopeRoundTrip(t *testing.T) {
	ctx := context.Background()
	seq := int64(1)
	avaliado := true
	semAlteracao := false
	peso := 72.5
	master := &ficha.AtendimentoIndividualMaster{
		UUIDFicha:       "ficha-uuid-1",
		TpCdsOrigem:     3,
		HeaderTransport: testHeader(),
		Atendimentos: []ficha.AtendimentoIndividual{{
			NumeroProntuario:   "PRONT-1",
			CNSCidadao:         "700000000000001",
			CPFCidadao:         "12345678909",
			DataNascimento:     327628800000,
			LocalDeAtendimento: 1,
			Sexo:               1,
			Turno:              2,
			TipoAtendimento:    2,

			PesoAcompanhamentoNutricional: &peso,
			Condutas:                      []int64{1, 12},
			DataHoraInicialAtendimento:    1770000000000,
			DataHoraFinalAtendimento:      1770000900000,

			Medicoes: ficha.Medicoes{Peso: &peso},
			ProblemasCondicoes: []ficha.ProblemaCondicao{{
				UUIDProblema:         "prob-1",
				CoSequencialEvolucao: &seq,
				UUIDEvolucaoProblema: "evo-1",
				CID10:                "I10",
				Situacao:             "ATIVO",
				IsAvaliado:           &avaliado,
			}},
			Medicamentos: []ficha.Medicamento{{
				CodigoCatmat: "BR0267539",
				Dose:         "1 comprimido",
			}},
			Ivcf: &ficha.Ivcf{
				Resultado:        12,
				HasSgIdade:       &avaliado,
				HasSgCognicao:    &avaliado,
				HasSgMarcha:      &semAlteracao,
				HasSgComorbidade: &avaliado,
				DataResultado:    1770000000000,
			},
		}},
	}

	data, err := Encode(ctx, master, testMeta())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	env, err := DecodeEnvelope(ctx, data)
	require.NoError(t, err)
	require.Equal(t, "ficha-uuid-1", env.UUID)
	require.Equal(t, int64(4), env.TipoDado)
	require.Equal(t, "2337545", env.CNES)
	require.Equal(t, "3550308", env.CodIbge)
	require.Equal(t, Versao{Major: 7, Minor: 3, Revision: 3}, env.Versao)
	require.Equal(t, "chave-remetente", env.Remetente.ContraChave)
	require.Equal(t, "chave-originadora", env.Originadora.ContraChave)

	decoded, err := DecodeMaster(ctx, env.TipoDado, env.Payload)
	require.NoError(t, err)
	require.Equal(t, master, decoded)
}

func TestVacinacaoRoundTrip(t *testing.T) {
	ctx := context.Background()
	via := int64(2)
	master := &ficha.VacinacaoMaster{
		UUIDFicha:       "ficha-uuid-2",
		TpCdsOrigem:     3,
		HeaderTransport: testHeader(),
		Vacinacoes: []ficha.Vacinacao{{
			Turno:            1,
			CNSCidadao:       "700000000000001",
			DtNascimento:     327628800000,
			Sexo:             0,
			LocalAtendimento: 1,
			Vacinas: []ficha.Vacina{{
				Imunobiologico:      46,
				EstrategiaVacinacao: 1,
				Dose:                1,
				Lote:                "L2026-01",
				Fabricante:          "Butantan",
				ViaAdministracao:    &via,
			}},
			DataHoraInicialAtendimento: 1770000000000,
			DataHoraFinalAtendimento:   1770000600000,
		}},
	}

	body, err := EncodeMaster(ctx, master)
	require.NoError(t, err)

	decoded, err := DecodeMaster(ctx, master.FichaType().TransportCode(), body)
	require.NoError(t, err)
	require.Equal(t, master, decoded)
}

func TestColetivaRoundTrip(t *testing.T) {
	ctx := context.Background()
	inep := int64(35123456)
	altered := int32(1)
	peso := 80.0
	master := &ficha.AtividadeColetivaMaster{
		UUIDFicha:        "ficha-uuid-3",
		TpCdsOrigem:      3,
		HeaderTransport:  testHeader(),
		Inep:             &inep,
		NumParticipantes: 2,
		NumAvaliacoesAlteradas: &altered,
		Profissionais: []ficha.ProfissionalColetiva{
			{CNSProfissional: "898001160660011", CBOCodigo2002: "223505"},
		},
		AtividadeTipo: 5,
		PublicoAlvo:   []int64{6},
		Participantes: []ficha.Participante{
			{CNSParticipante: "700000000000002", DataNascimento: 631152000000, Sexo: 0, Peso: &peso},
			{CNSParticipante: "700000000000003", DataNascimento: 803174400000, Sexo: 1, AvaliacaoAlterada: true},
		},
		CnesLocalAtividade: "2337545",
		Procedimento:       "0101010010",
		Turno:              2,
	}

	body, err := EncodeMaster(ctx, master)
	require.NoError(t, err)

	decoded, err := DecodeMaster(ctx, master.FichaType().TransportCode(), body)
	require.NoError(t, err)
	require.Equal(t, master, decoded)
}

func TestDecodeMasterUnknownType(t *testing.T) {
	_, err := DecodeMaster(context.Background(), 99, nil)
	require.ErrorContains(t, err, "unknown tipoDadoSerializado")
}

func TestEncodeMasterUnsupported(t *testing.T) {
	_, err := EncodeMaster(context.Background(), nil)
	require.Error(t, err)
}

// Readers must skip fields added by newer layout revisions instead of failing.
func TestDecodeSkipsUnknownFields(t *testing.T) {
	ctx := context.Background()
	data, err := serialize(ctx, func(w *structWriter) {
		w.begin("DadoTransporteThrift")
		w.str(1, "uuidDadoSerializado", "abc")
		w.i64(2, "tipoDadoSerializado", 4)
		w.str(99, "futureField", "ignored")
		w.boolean(100, "anotherFutureField", true)
		w.end()
	})
	require.NoError(t, err)

	env, err := DecodeEnvelope(ctx, data)
	require.NoError(t, err)
	require.Equal(t, "abc", env.UUID)
	require.Equal(t, int64(4), env.TipoDado)
}

// The envelope type field must match the master's own transport code for every
// variant, or the receiver dispatches the payload to the wrong reader.
func TestEnvelopeTypeMatchesMaster(t *testing.T) {
	ctx := context.Background()
	masters := []ficha.Master{
		&ficha.AtendimentoIndividualMaster{UUIDFicha: "a", HeaderTransport: testHeader()},
		&ficha.AtendimentoOdontologicoMaster{UUIDFicha: "b", HeaderTransport: testHeader()},
		&ficha.AtividadeColetivaMaster{UUIDFicha: "c", HeaderTransport: testHeader()},
		&ficha.ProcedimentosMaster{UUIDFicha: "d", HeaderTransport: testHeader()},
		&ficha.VisitaDomiciliarMaster{UUIDFicha: "e", HeaderTransport: testHeader()},
		&ficha.AtendimentoDomiciliarMaster{UUIDFicha: "f", HeaderTransport: testHeader()},
		&ficha.VacinacaoMaster{UUIDFicha: "g", HeaderTransport: testHeader()},
	}
	for _, m := range masters {
		data, err := Encode(ctx, m, testMeta())
		require.NoError(t, err, "type %s", m.FichaType())

		env, err := DecodeEnvelope(ctx, data)
		require.NoError(t, err)
		require.Equal(t, m.FichaType().TransportCode(), env.TipoDado)
		require.Equal(t, m.FichaUUID(), env.UUID)

		decoded, err := DecodeMaster(ctx, env.TipoDado, env.Payload)
		require.NoError(t, err)
		require.Equal(t, m.FichaType(), decoded.FichaType())
	}
}
