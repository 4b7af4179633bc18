// Package codec serializes LEDI fichas to the Thrift binary wire format
// accepted by the PEC receiver and wraps them in the DadoTransporte
// envelope. Field ids follow the LEDI 7.3.3 layout; decoding support exists
// for receiver-side verification and tests.
package codec

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

// Layout version stamped on every envelope.
const (
	VersionMajor    = 7
	VersionMinor    = 3
	VersionRevision = 3
)

// Meta identifies the installation and territory on the transport envelope.
type Meta struct {
	CodIbge     string
	CNES        string
	Originadora ficha.Originadora
	Remetente   ficha.Remetente
}

// Versao is the layout version carried on the envelope.
type Versao struct {
	Major    int32
	Minor    int32
	Revision int32
}

// Envelope is a decoded DadoTransporte.
type Envelope struct {
	UUID        string
	TipoDado    int64
	CNES        string
	CodIbge     string
	Payload     []byte
	Originadora ficha.Originadora
	Remetente   ficha.Remetente
	Versao      Versao
}

// Encode serializes a ficha body and wraps it in a transport envelope. The
// envelope uuid mirrors the ficha uuid.
func Encode(ctx context.Context, m ficha.Master, meta Meta) ([]byte, error) {
	body, err := EncodeMaster(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s body: %w", m.FichaType(), err)
	}

	env, err := serialize(ctx, func(w *structWriter) {
		w.begin("DadoTransporteThrift")
		w.str(1, "uuidDadoSerializado", m.FichaUUID())
		w.i64(2, "tipoDadoSerializado", m.FichaType().TransportCode())
		w.str(3, "cnesDadoSerializado", meta.CNES)
		w.str(4, "codIbge", meta.CodIbge)
		w.binary(7, "dadoSerializado", body)
		w.structField(8, "remetente", func() { writeRemetente(w, meta.Remetente) })
		w.structField(9, "originadora", func() { writeOriginadora(w, meta.Originadora) })
		w.structField(10, "versao", func() { writeVersao(w) })
		w.end()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope for %s: %w", m.FichaUUID(), err)
	}
	return env, nil
}

// EncodeMaster serializes just the ficha body, without the envelope.
func EncodeMaster(ctx context.Context, m ficha.Master) ([]byte, error) {
	switch f := m.(type) {
	case *ficha.AtendimentoIndividualMaster:
		return serialize(ctx, func(w *structWriter) { writeAtendimentoIndividualMaster(w, f) })
	case *ficha.AtendimentoOdontologicoMaster:
		return serialize(ctx, func(w *structWriter) { writeAtendimentoOdontologicoMaster(w, f) })
	case *ficha.AtividadeColetivaMaster:
		return serialize(ctx, func(w *structWriter) { writeAtividadeColetivaMaster(w, f) })
	case *ficha.ProcedimentosMaster:
		return serialize(ctx, func(w *structWriter) { writeProcedimentosMaster(w, f) })
	case *ficha.VisitaDomiciliarMaster:
		return serialize(ctx, func(w *structWriter) { writeVisitaDomiciliarMaster(w, f) })
	case *ficha.AtendimentoDomiciliarMaster:
		return serialize(ctx, func(w *structWriter) { writeAtendimentoDomiciliarMaster(w, f) })
	case *ficha.VacinacaoMaster:
		return serialize(ctx, func(w *structWriter) { writeVacinacaoMaster(w, f) })
	default:
		return nil, fmt.Errorf("unsupported ficha master %T", m)
	}
}

// DecodeEnvelope reads a DadoTransporte envelope.
func DecodeEnvelope(ctx context.Context, data []byte) (*Envelope, error) {
	r := deserialize(ctx, data)
	env := &Envelope{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			env.UUID, err = r.str()
		case 2:
			env.TipoDado, err = r.i64()
		case 3:
			env.CNES, err = r.str()
		case 4:
			env.CodIbge, err = r.str()
		case 7:
			env.Payload, err = r.bin()
		case 8:
			err = readRemetente(r, &env.Remetente)
		case 9:
			err = readOriginadora(r, &env.Originadora)
		case 10:
			err = readVersao(r, &env.Versao)
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return env, nil
}

// DecodeMaster reads a ficha body given the envelope type code.
func DecodeMaster(ctx context.Context, tipoDado int64, payload []byte) (ficha.Master, error) {
	r := deserialize(ctx, payload)
	switch tipoDado {
	case ficha.TypeAtendimentoIndividual.TransportCode():
		return readAtendimentoIndividualMaster(r)
	case ficha.TypeAtendimentoOdontologico.TransportCode():
		return readAtendimentoOdontologicoMaster(r)
	case ficha.TypeAtividadeColetiva.TransportCode():
		return readAtividadeColetivaMaster(r)
	case ficha.TypeProcedimentos.TransportCode():
		return readProcedimentosMaster(r)
	case ficha.TypeVisitaDomiciliar.TransportCode():
		return readVisitaDomiciliarMaster(r)
	case ficha.TypeAtendimentoDomiciliar.TransportCode():
		return readAtendimentoDomiciliarMaster(r)
	case ficha.TypeVacinacao.TransportCode():
		return readVacinacaoMaster(r)
	default:
		return nil, fmt.Errorf("unknown tipoDadoSerializado %d", tipoDado)
	}
}

func writeOriginadora(w *structWriter, o ficha.Originadora) {
	w.begin("LediOriginadoraThrift")
	w.str(1, "contraChave", o.ContraChave)
	w.str(2, "cpfCnpj", o.CPFCNPJ)
	w.end()
}

func writeRemetente(w *structWriter, rem ficha.Remetente) {
	w.begin("LediRemetenteThrift")
	w.str(1, "contraChave", rem.ContraChave)
	w.str(2, "cnpj", rem.CNPJ)
	w.end()
}

func writeVersao(w *structWriter) {
	w.begin("VersaoThrift")
	w.i32(1, "major", VersionMajor)
	w.i32(2, "minor", VersionMinor)
	w.i32(3, "revision", VersionRevision)
	w.end()
}
