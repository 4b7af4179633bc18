package codec

import (
	"github.com/apache/thrift/lib/go/thrift"

	"github.com/apsbridge/go-ledi/internal/ledi/ficha"
)

func readOriginadora(r *structReader, o *ficha.Originadora) error {
	return r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			o.ContraChave, err = r.str()
		case 2:
			o.CPFCNPJ, err = r.str()
		default:
			return false, nil
		}
		return true, err
	})
}

func readRemetente(r *structReader, rem *ficha.Remetente) error {
	return r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			rem.ContraChave, err = r.str()
		case 2:
			rem.CNPJ, err = r.str()
		default:
			return false, nil
		}
		return true, err
	})
}

func readVersao(r *structReader, v *Versao) error {
	return r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			v.Major, err = r.i32()
		case 2:
			v.Minor, err = r.i32()
		case 3:
			v.Revision, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
}

func readLotacaoHeader(r *structReader) (ficha.LotacaoHeader, error) {
	var h ficha.LotacaoHeader
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			h.ProfissionalCNS, err = r.str()
		case 2:
			h.CBOCodigo2002, err = r.str()
		case 3:
			h.CNES, err = r.str()
		case 4:
			h.INE, err = r.str()
		case 5:
			h.DataAtendimento, err = r.i64()
		case 6:
			h.CodigoIbgeMunicipio, err = r.str()
		default:
			return false, nil
		}
		return true, err
	})
	return h, err
}

func readVariasLotacoesHeader(r *structReader) (ficha.VariasLotacoesHeader, error) {
	var h ficha.VariasLotacoesHeader
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		if id == 1 {
			principal, err := readLotacaoHeader(r)
			h.LotacaoFormPrincipal = principal
			return true, err
		}
		return false, nil
	})
	return h, err
}

func readProblemaCondicao(r *structReader) (ficha.ProblemaCondicao, error) {
	var pc ficha.ProblemaCondicao
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			pc.UUIDProblema, err = r.str()
		case 2:
			pc.CoSequencialEvolucao, err = r.optI64()
		case 3:
			pc.UUIDEvolucaoProblema, err = r.str()
		case 4:
			pc.CIAP, err = r.str()
		case 5:
			pc.CID10, err = r.str()
		case 6:
			pc.Situacao, err = r.str()
		case 7:
			pc.IsAvaliado, err = r.optBool()
		case 8:
			pc.DataInicioProblema, err = r.optI64()
		case 9:
			pc.DataFimProblema, err = r.optI64()
		default:
			return false, nil
		}
		return true, err
	})
	return pc, err
}

func readMedicoes(r *structReader) (ficha.Medicoes, error) {
	var m ficha.Medicoes
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.CircunferenciaAbdominal, err = r.optDouble()
		case 2:
			m.PerimetroPanturrilha, err = r.optDouble()
		case 3:
			m.PressaoArterialSistolica, err = r.optI64()
		case 4:
			m.PressaoArterialDiastolica, err = r.optI64()
		case 5:
			m.FrequenciaRespiratoria, err = r.optI64()
		case 6:
			m.FrequenciaCardiaca, err = r.optI64()
		case 7:
			m.Temperatura, err = r.optDouble()
		case 8:
			m.SaturacaoO2, err = r.optI64()
		case 9:
			m.GlicemiaCapilar, err = r.optI64()
		case 10:
			m.TipoGlicemiaCapilar, err = r.optI64()
		case 11:
			m.Peso, err = r.optDouble()
		case 12:
			m.Altura, err = r.optDouble()
		case 13:
			m.PerimetroCefalico, err = r.optDouble()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readMedicamento(r *structReader) (ficha.Medicamento, error) {
	var m ficha.Medicamento
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.CodigoCatmat, err = r.str()
		case 2:
			m.ViaAdministracao, err = r.optI64()
		case 3:
			m.Dose, err = r.str()
		case 4:
			m.DoseUnica, err = r.optBool()
		case 5:
			m.UsoContinuo, err = r.optBool()
		case 6:
			m.DoseFrequenciaTipo, err = r.optI64()
		case 7:
			m.DoseFrequencia, err = r.str()
		case 10:
			m.DtInicioTratamento, err = r.optI64()
		case 11:
			m.DuracaoTratamento, err = r.optI64()
		case 13:
			m.QuantidadeReceitada, err = r.optI64()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readEncaminhamento(r *structReader) (ficha.Encaminhamento, error) {
	var e ficha.Encaminhamento
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			e.Especialidade, err = r.optI64()
		case 2:
			e.HipoteseDiagnosticoCID10, err = r.str()
		case 3:
			e.HipoteseDiagnosticoCIAP2, err = r.str()
		case 4:
			e.ClassificacaoRisco, err = r.optI64()
		default:
			return false, nil
		}
		return true, err
	})
	return e, err
}

func readResultadosExame(r *structReader) (ficha.ResultadosExame, error) {
	var re ficha.ResultadosExame
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			re.Exame, err = r.str()
		case 2:
			re.DataSolicitacao, err = r.optI64()
		case 3:
			re.DataRealizacao, err = r.optI64()
		case 4:
			re.DataResultado, err = r.optI64()
		case 5:
			err = r.structListRead(func() error {
				var res ficha.ResultadoExame
				innerErr := r.read(func(rid int16, _ thrift.TType) (bool, error) {
					var e2 error
					switch rid {
					case 1:
						res.TipoResultado, e2 = r.optI64()
					case 2:
						res.ValorResultado, e2 = r.str()
					default:
						return false, nil
					}
					return true, e2
				})
				re.Resultados = append(re.Resultados, res)
				return innerErr
			})
		default:
			return false, nil
		}
		return true, err
	})
	return re, err
}

func readIvcf(r *structReader) (*ficha.Ivcf, error) {
	var v ficha.Ivcf
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			v.Resultado, err = r.i32()
		case 2:
			v.HasSgIdade, err = r.optBool()
		case 3:
			v.HasSgPercepcaoSaude, err = r.optBool()
		case 4:
			v.HasSgAvdInstrumental, err = r.optBool()
		case 5:
			v.HasSgAvdBasica, err = r.optBool()
		case 6:
			v.HasSgCognicao, err = r.optBool()
		case 7:
			v.HasSgHumor, err = r.optBool()
		case 8:
			v.HasSgAlcancePreensaoPinca, err = r.optBool()
		case 9:
			v.HasSgCapAerobicaMuscular, err = r.optBool()
		case 10:
			v.HasSgMarcha, err = r.optBool()
		case 11:
			v.HasSgContinencia, err = r.optBool()
		case 12:
			v.HasSgVisao, err = r.optBool()
		case 13:
			v.HasSgAudicao, err = r.optBool()
		case 14:
			v.HasSgComorbidade, err = r.optBool()
		case 15:
			v.DataResultado, err = r.i64()
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readExame(r *structReader) (ficha.Exame, error) {
	var e ficha.Exame
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			e.CodigoExame, err = r.str()
		case 2:
			e.SolicitadoAvaliado, err = r.strListRead()
		default:
			return false, nil
		}
		return true, err
	})
	return e, err
}

func readSolicitacaoOci(r *structReader) (ficha.SolicitacaoOci, error) {
	var s ficha.SolicitacaoOci
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		if id == 1 {
			var err error
			s.CodigoSigtap, err = r.str()
			return true, err
		}
		return false, nil
	})
	return s, err
}

func readProcedimentoQuantidade(r *structReader) (ficha.ProcedimentoQuantidade, error) {
	var p ficha.ProcedimentoQuantidade
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			p.CoMsProcedimento, err = r.str()
		case 2:
			p.Quantidade, err = r.i64()
		default:
			return false, nil
		}
		return true, err
	})
	return p, err
}

func readAtendimentoIndividualMaster(r *structReader) (*ficha.AtendimentoIndividualMaster, error) {
	m := &ficha.AtendimentoIndividualMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				a, aErr := readAtendimentoIndividual(r)
				m.Atendimentos = append(m.Atendimentos, a)
				return aErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readAtendimentoIndividual(r *structReader) (ficha.AtendimentoIndividual, error) {
	var a ficha.AtendimentoIndividual
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			a.NumeroProntuario, err = r.str()
		case 2:
			a.CNSCidadao, err = r.str()
		case 3:
			a.DataNascimento, err = r.i64()
		case 4:
			a.LocalDeAtendimento, err = r.i64()
		case 5:
			a.Sexo, err = r.i64()
		case 6:
			a.Turno, err = r.i64()
		case 7:
			a.TipoAtendimento, err = r.i64()
		case 8:
			a.PesoAcompanhamentoNutricional, err = r.optDouble()
		case 9:
			a.AlturaAcompanhamentoNutricional, err = r.optDouble()
		case 10:
			a.AleitamentoMaterno, err = r.optI64()
		case 11:
			a.DumDaGestante, err = r.optI64()
		case 12:
			a.IdadeGestacional, err = r.optI32()
		case 13:
			a.AtencaoDomiciliarModalidade, err = r.optI64()
		case 14:
			err = r.structListRead(func() error {
				e, eErr := readExame(r)
				a.Exames = append(a.Exames, e)
				return eErr
			})
		case 15:
			a.VacinaEmDia, err = r.boolean()
		case 16:
			a.FicouEmObservacao, err = r.boolean()
		case 17:
			a.RacionalidadeSaude, err = r.optI64()
		case 18:
			a.Condutas, err = r.i64ListRead()
		case 19:
			a.Pic, err = r.optI64()
		case 20:
			a.DataHoraInicialAtendimento, err = r.i64()
		case 21:
			a.Nasfs, err = r.i64ListRead()
		case 22:
			a.DataHoraFinalAtendimento, err = r.i64()
		case 23:
			a.CPFCidadao, err = r.str()
		case 24:
			a.StGravidezPlanejada, err = r.boolean()
		case 25:
			a.NuGestasPrevias, err = r.i32()
		case 26:
			a.NuPartos, err = r.i32()
		case 27:
			a.Medicoes, err = readMedicoes(r)
		case 28:
			err = r.structListRead(func() error {
				pc, pcErr := readProblemaCondicao(r)
				a.ProblemasCondicoes = append(a.ProblemasCondicoes, pc)
				return pcErr
			})
		case 29:
			a.Ivcf, err = readIvcf(r)
		case 30:
			err = r.structListRead(func() error {
				med, mErr := readMedicamento(r)
				a.Medicamentos = append(a.Medicamentos, med)
				return mErr
			})
		case 31:
			err = r.structListRead(func() error {
				e, eErr := readEncaminhamento(r)
				a.Encaminhamentos = append(a.Encaminhamentos, e)
				return eErr
			})
		case 32:
			err = r.structListRead(func() error {
				re, reErr := readResultadosExame(r)
				a.ResultadosExames = append(a.ResultadosExames, re)
				return reErr
			})
		case 33:
			err = r.structListRead(func() error {
				s, sErr := readSolicitacaoOci(r)
				a.SolicitacoesOci = append(a.SolicitacoesOci, s)
				return sErr
			})
		case 35:
			h, hErr := readLotacaoHeader(r)
			a.FinalizadorObservacao = &h
			err = hErr
		case 36:
			a.TipoParticipacaoCidadao, err = r.optI64()
		case 37:
			a.TipoParticipacaoProfissionalConvidado, err = r.optI64()
		case 38:
			a.Emultis, err = r.i64ListRead()
		default:
			return false, nil
		}
		return true, err
	})
	return a, err
}

func readAtendimentoOdontologicoMaster(r *structReader) (*ficha.AtendimentoOdontologicoMaster, error) {
	m := &ficha.AtendimentoOdontologicoMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				a, aErr := readAtendimentoOdontologico(r)
				m.Atendimentos = append(m.Atendimentos, a)
				return aErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readAtendimentoOdontologico(r *structReader) (ficha.AtendimentoOdontologico, error) {
	var a ficha.AtendimentoOdontologico
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			a.DtNascimento, err = r.i64()
		case 2:
			a.CNSCidadao, err = r.str()
		case 3:
			a.NumProntuario, err = r.str()
		case 4:
			a.Gestante, err = r.optBool()
		case 5:
			a.NecessidadesEspeciais, err = r.optBool()
		case 6:
			a.LocalAtendimento, err = r.i64()
		case 7:
			a.TipoAtendimento, err = r.i64()
		case 8:
			a.TiposEncamOdonto, err = r.i64ListRead()
		case 9:
			a.TiposFornecimOdonto, err = r.i64ListRead()
		case 10:
			a.TiposVigilanciaSaudeBucal, err = r.i64ListRead()
		case 11:
			a.TiposConsultaOdonto, err = r.i64ListRead()
		case 12:
			err = r.structListRead(func() error {
				p, pErr := readProcedimentoQuantidade(r)
				a.ProcedimentosRealizados = append(a.ProcedimentosRealizados, p)
				return pErr
			})
		case 14:
			a.Sexo, err = r.i64()
		case 15:
			a.Turno, err = r.i64()
		case 16:
			a.DataHoraInicialAtendimento, err = r.i64()
		case 17:
			a.DataHoraFinalAtendimento, err = r.i64()
		case 18:
			a.CPFCidadao, err = r.str()
		case 19:
			err = r.structListRead(func() error {
				med, mErr := readMedicamento(r)
				a.Medicamentos = append(a.Medicamentos, med)
				return mErr
			})
		case 20:
			err = r.structListRead(func() error {
				e, eErr := readEncaminhamento(r)
				a.Encaminhamentos = append(a.Encaminhamentos, e)
				return eErr
			})
		case 21:
			err = r.structListRead(func() error {
				re, reErr := readResultadosExame(r)
				a.ResultadosExames = append(a.ResultadosExames, re)
				return reErr
			})
		case 27:
			a.Medicoes, err = readMedicoes(r)
		case 28:
			err = r.structListRead(func() error {
				pc, pcErr := readProblemaCondicao(r)
				a.ProblemasCondicoes = append(a.ProblemasCondicoes, pc)
				return pcErr
			})
		case 29:
			a.Ivcf, err = readIvcf(r)
		case 30:
			err = r.structListRead(func() error {
				e, eErr := readExame(r)
				a.Exames = append(a.Exames, e)
				return eErr
			})
		case 31:
			err = r.structListRead(func() error {
				s, sErr := readSolicitacaoOci(r)
				a.SolicitacoesOci = append(a.SolicitacoesOci, s)
				return sErr
			})
		default:
			return false, nil
		}
		return true, err
	})
	return a, err
}

func readAtividadeColetivaMaster(r *structReader) (*ficha.AtividadeColetivaMaster, error) {
	m := &ficha.AtividadeColetivaMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			m.Inep, err = r.optI64()
		case 3:
			m.NumParticipantes, err = r.i32()
		case 4:
			m.NumAvaliacoesAlteradas, err = r.optI32()
		case 5:
			err = r.structListRead(func() error {
				var p ficha.ProfissionalColetiva
				pErr := r.read(func(pid int16, _ thrift.TType) (bool, error) {
					var e2 error
					switch pid {
					case 1:
						p.CNSProfissional, e2 = r.str()
					case 2:
						p.CBOCodigo2002, e2 = r.str()
					default:
						return false, nil
					}
					return true, e2
				})
				m.Profissionais = append(m.Profissionais, p)
				return pErr
			})
		case 6:
			m.AtividadeTipo, err = r.i64()
		case 7:
			m.TemasParaReuniao, err = r.i64ListRead()
		case 8:
			m.PublicoAlvo, err = r.i64ListRead()
		case 9:
			m.TemasParaSaude, err = r.i64ListRead()
		case 10:
			m.PraticasEmSaude, err = r.i64ListRead()
		case 11:
			err = r.structListRead(func() error {
				p, pErr := readParticipante(r)
				m.Participantes = append(m.Participantes, p)
				return pErr
			})
		case 12:
			m.UUIDFicha, err = r.str()
		case 13:
			m.TpCdsOrigem, err = r.i32()
		case 14:
			m.CnesLocalAtividade, err = r.str()
		case 15:
			m.Procedimento, err = r.str()
		case 16:
			m.Turno, err = r.i64()
		case 17:
			m.PseEducacao, err = r.optI64()
		case 18:
			m.PseSaude, err = r.optI64()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readParticipante(r *structReader) (ficha.Participante, error) {
	var p ficha.Participante
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			p.CNSParticipante, err = r.str()
		case 2:
			p.DataNascimento, err = r.i64()
		case 3:
			p.Sexo, err = r.i64()
		case 4:
			p.AvaliacaoAlterada, err = r.boolean()
		case 5:
			p.Peso, err = r.optDouble()
		case 6:
			p.Altura, err = r.optDouble()
		case 7:
			p.CessouHabitoFumar, err = r.boolean()
		case 8:
			p.AbandonouGrupo, err = r.boolean()
		default:
			return false, nil
		}
		return true, err
	})
	return p, err
}

func readProcedimentosMaster(r *structReader) (*ficha.ProcedimentosMaster, error) {
	m := &ficha.ProcedimentosMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				a, aErr := readAtendimentoProcedimentos(r)
				m.Atendimentos = append(m.Atendimentos, a)
				return aErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readAtendimentoProcedimentos(r *structReader) (ficha.AtendimentoProcedimentos, error) {
	var a ficha.AtendimentoProcedimentos
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			a.NumProntuario, err = r.str()
		case 2:
			a.CNSCidadao, err = r.str()
		case 3:
			a.DtNascimento, err = r.i64()
		case 4:
			a.Sexo, err = r.i64()
		case 5:
			a.LocalAtendimento, err = r.i64()
		case 6:
			a.Turno, err = r.i64()
		case 7:
			a.StatusEscutaInicialOrientacao, err = r.boolean()
		case 8:
			a.Procedimentos, err = r.strListRead()
		case 9:
			a.DataHoraInicialAtendimento, err = r.i64()
		case 10:
			a.DataHoraFinalAtendimento, err = r.i64()
		case 11:
			a.CPFCidadao, err = r.str()
		case 12:
			a.Medicoes, err = readMedicoes(r)
		case 13:
			a.Ivcf, err = readIvcf(r)
		default:
			return false, nil
		}
		return true, err
	})
	return a, err
}

func readVisitaDomiciliarMaster(r *structReader) (*ficha.VisitaDomiciliarMaster, error) {
	m := &ficha.VisitaDomiciliarMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				v, vErr := readVisitaDomiciliar(r)
				m.Visitas = append(m.Visitas, v)
				return vErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readVisitaDomiciliar(r *structReader) (ficha.VisitaDomiciliar, error) {
	var v ficha.VisitaDomiciliar
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			v.Turno, err = r.i64()
		case 2:
			v.NumProntuario, err = r.str()
		case 3:
			v.CNSCidadao, err = r.str()
		case 4:
			v.DtNascimento, err = r.i64()
		case 5:
			v.Sexo, err = r.i64()
		case 6:
			v.StatusVisitaCompartilhada, err = r.boolean()
		case 7:
			v.Desfecho, err = r.i64()
		case 8:
			v.MotivosVisita, err = r.i64ListRead()
		case 9:
			v.Microarea, err = r.str()
		case 10:
			v.StForaArea, err = r.boolean()
		case 11:
			v.TipoDeImovel, err = r.i64()
		case 12:
			v.PesoAcompanhamentoNutricional, err = r.optDouble()
		case 13:
			v.AlturaAcompanhamentoNutricional, err = r.optDouble()
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func readAtendimentoDomiciliarMaster(r *structReader) (*ficha.AtendimentoDomiciliarMaster, error) {
	m := &ficha.AtendimentoDomiciliarMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				a, aErr := readAtendimentoDomiciliar(r)
				m.Atendimentos = append(m.Atendimentos, a)
				return aErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readAtendimentoDomiciliar(r *structReader) (ficha.AtendimentoDomiciliar, error) {
	var a ficha.AtendimentoDomiciliar
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			a.Turno, err = r.i64()
		case 2:
			a.CNSCidadao, err = r.str()
		case 3:
			a.DataNascimento, err = r.i64()
		case 4:
			a.Sexo, err = r.i64()
		case 5:
			a.LocalDeAtendimento, err = r.i64()
		case 6:
			a.AtencaoDomiciliarModalidade, err = r.i64()
		case 7:
			a.TipoAtendimento, err = r.i64()
		case 8:
			a.CondicoesAvaliadas, err = r.i64ListRead()
		case 11:
			a.Procedimentos, err = r.strListRead()
		case 13:
			a.CondutaDesfecho, err = r.i64()
		case 15:
			a.CPFCidadao, err = r.str()
		case 16:
			err = r.structListRead(func() error {
				pc, pcErr := readProblemaCondicao(r)
				a.ProblemasCondicoes = append(a.ProblemasCondicoes, pc)
				return pcErr
			})
		default:
			return false, nil
		}
		return true, err
	})
	return a, err
}

func readVacinacaoMaster(r *structReader) (*ficha.VacinacaoMaster, error) {
	m := &ficha.VacinacaoMaster{}
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			m.HeaderTransport, err = readVariasLotacoesHeader(r)
		case 2:
			err = r.structListRead(func() error {
				v, vErr := readVacinacao(r)
				m.Vacinacoes = append(m.Vacinacoes, v)
				return vErr
			})
		case 3:
			m.UUIDFicha, err = r.str()
		case 4:
			m.TpCdsOrigem, err = r.i32()
		default:
			return false, nil
		}
		return true, err
	})
	return m, err
}

func readVacinacao(r *structReader) (ficha.Vacinacao, error) {
	var v ficha.Vacinacao
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			v.Turno, err = r.i64()
		case 2:
			v.NumProntuario, err = r.str()
		case 3:
			v.CNSCidadao, err = r.str()
		case 4:
			v.DtNascimento, err = r.i64()
		case 5:
			v.Sexo, err = r.i64()
		case 6:
			v.LocalAtendimento, err = r.i64()
		case 7:
			v.Viajante, err = r.boolean()
		case 8:
			err = r.structListRead(func() error {
				vac, vErr := readVacina(r)
				v.Vacinas = append(v.Vacinas, vac)
				return vErr
			})
		case 9:
			v.DataHoraInicialAtendimento, err = r.i64()
		case 10:
			v.DataHoraFinalAtendimento, err = r.i64()
		case 11:
			v.CPFCidadao, err = r.str()
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func readVacina(r *structReader) (ficha.Vacina, error) {
	var v ficha.Vacina
	err := r.read(func(id int16, _ thrift.TType) (bool, error) {
		var err error
		switch id {
		case 1:
			v.Imunobiologico, err = r.i64()
		case 2:
			v.EstrategiaVacinacao, err = r.i64()
		case 3:
			v.Dose, err = r.i64()
		case 4:
			v.Lote, err = r.str()
		case 5:
			v.Fabricante, err = r.str()
		case 6:
			v.ViaAdministracao, err = r.optI64()
		case 7:
			v.LocalAplicacao, err = r.optI64()
		case 8:
			v.EspecialidadeProfissionalPrescritor, err = r.str()
		case 9:
			v.MotivoIndicacao, err = r.str()
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}
