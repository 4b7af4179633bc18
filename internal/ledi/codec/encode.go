package codec

import "github.com/apsbridge/go-ledi/internal/ledi/ficha"

// --- headers ---

func writeLotacaoHeader(w *structWriter, h ficha.LotacaoHeader) {
	w.begin("LotacaoHeaderThrift")
	w.str(1, "profissionalCNS", h.ProfissionalCNS)
	w.str(2, "cboCodigo_2002", h.CBOCodigo2002)
	w.str(3, "cnes", h.CNES)
	w.str(4, "ine", h.INE)
	w.i64(5, "dataAtendimento", h.DataAtendimento)
	w.str(6, "codigoIbgeMunicipio", h.CodigoIbgeMunicipio)
	w.end()
}

func writeVariasLotacoesHeader(w *structWriter, h ficha.VariasLotacoesHeader) {
	w.begin("VariasLotacoesHeaderThrift")
	w.structField(1, "lotacaoFormPrincipal", func() { writeLotacaoHeader(w, h.LotacaoFormPrincipal) })
	w.end()
}

// --- clinical extensions ---

func writeProblemaCondicao(w *structWriter, pc ficha.ProblemaCondicao) {
	w.begin("ProblemaCondicaoThrift")
	w.str(1, "uuidProblema", pc.UUIDProblema)
	w.optI64(2, "coSequencialEvolucao", pc.CoSequencialEvolucao)
	w.str(3, "uuidEvolucaoProblema", pc.UUIDEvolucaoProblema)
	w.str(4, "ciap", pc.CIAP)
	w.str(5, "cid10", pc.CID10)
	w.str(6, "situacao", pc.Situacao)
	w.optBool(7, "isAvaliado", pc.IsAvaliado)
	w.optI64(8, "dataInicioProblema", pc.DataInicioProblema)
	w.optI64(9, "dataFimProblema", pc.DataFimProblema)
	w.end()
}

func writeMedicoes(w *structWriter, m ficha.Medicoes) {
	w.begin("MedicoesThrift")
	w.optDouble(1, "circunferenciaAbdominal", m.CircunferenciaAbdominal)
	w.optDouble(2, "perimetroPanturrilha", m.PerimetroPanturrilha)
	w.optI64(3, "pressaoArterialSistolica", m.PressaoArterialSistolica)
	w.optI64(4, "pressaoArterialDiastolica", m.PressaoArterialDiastolica)
	w.optI64(5, "frequenciaRespiratoria", m.FrequenciaRespiratoria)
	w.optI64(6, "frequenciaCardiaca", m.FrequenciaCardiaca)
	w.optDouble(7, "temperatura", m.Temperatura)
	w.optI64(8, "saturacaoO2", m.SaturacaoO2)
	w.optI64(9, "glicemiaCapilar", m.GlicemiaCapilar)
	w.optI64(10, "tipoGlicemiaCapilar", m.TipoGlicemiaCapilar)
	w.optDouble(11, "peso", m.Peso)
	w.optDouble(12, "altura", m.Altura)
	w.optDouble(13, "perimetroCefalico", m.PerimetroCefalico)
	w.end()
}

func writeMedicamento(w *structWriter, m ficha.Medicamento) {
	w.begin("MedicamentoThrift")
	w.str(1, "codigoCatmat", m.CodigoCatmat)
	w.optI64(2, "viaAdministracao", m.ViaAdministracao)
	w.str(3, "dose", m.Dose)
	w.optBool(4, "doseUnica", m.DoseUnica)
	w.optBool(5, "usoContinuo", m.UsoContinuo)
	w.optI64(6, "doseFrequenciaTipo", m.DoseFrequenciaTipo)
	w.str(7, "doseFrequencia", m.DoseFrequencia)
	w.optI64(10, "dtInicioTratamento", m.DtInicioTratamento)
	w.optI64(11, "duracaoTratamento", m.DuracaoTratamento)
	w.optI64(13, "quantidadeReceitada", m.QuantidadeReceitada)
	w.end()
}

func writeEncaminhamento(w *structWriter, e ficha.Encaminhamento) {
	w.begin("EncaminhamentoThrift")
	w.optI64(1, "especialidade", e.Especialidade)
	w.str(2, "hipoteseDiagnosticoCID10", e.HipoteseDiagnosticoCID10)
	w.str(3, "hipoteseDiagnosticoCIAP2", e.HipoteseDiagnosticoCIAP2)
	w.optI64(4, "classificacaoRisco", e.ClassificacaoRisco)
	w.end()
}

func writeResultadosExame(w *structWriter, re ficha.ResultadosExame) {
	w.begin("ResultadosExameThrift")
	w.str(1, "exame", re.Exame)
	w.optI64(2, "dataSolicitacao", re.DataSolicitacao)
	w.optI64(3, "dataRealizacao", re.DataRealizacao)
	w.optI64(4, "dataResultado", re.DataResultado)
	if re.Resultados != nil {
		w.structList(5, "resultadoExame", len(re.Resultados), func(i int) {
			res := re.Resultados[i]
			w.begin("ResultadoExameThrift")
			w.optI64(1, "tipoResultado", res.TipoResultado)
			w.str(2, "valorResultado", res.ValorResultado)
			w.end()
		})
	}
	w.end()
}

func writeIvcf(w *structWriter, v ficha.Ivcf) {
	w.begin("IvcfThrift")
	w.i32(1, "resultado", v.Resultado)
	w.optBool(2, "hasSgIdade", v.HasSgIdade)
	w.optBool(3, "hasSgPercepcaoSaude", v.HasSgPercepcaoSaude)
	w.optBool(4, "hasSgAvdInstrumental", v.HasSgAvdInstrumental)
	w.optBool(5, "hasSgAvdBasica", v.HasSgAvdBasica)
	w.optBool(6, "hasSgCognicao", v.HasSgCognicao)
	w.optBool(7, "hasSgHumor", v.HasSgHumor)
	w.optBool(8, "hasSgAlcancePreensaoPinca", v.HasSgAlcancePreensaoPinca)
	w.optBool(9, "hasSgCapAerobicaMuscular", v.HasSgCapAerobicaMuscular)
	w.optBool(10, "hasSgMarcha", v.HasSgMarcha)
	w.optBool(11, "hasSgContinencia", v.HasSgContinencia)
	w.optBool(12, "hasSgVisao", v.HasSgVisao)
	w.optBool(13, "hasSgAudicao", v.HasSgAudicao)
	w.optBool(14, "hasSgComorbidade", v.HasSgComorbidade)
	w.i64(15, "dataResultado", v.DataResultado)
	w.end()
}

func writeExame(w *structWriter, e ficha.Exame) {
	w.begin("ExameThrift")
	w.str(1, "codigoExame", e.CodigoExame)
	w.strList(2, "solicitadoAvaliado", e.SolicitadoAvaliado)
	w.end()
}

func writeSolicitacaoOci(w *structWriter, s ficha.SolicitacaoOci) {
	w.begin("SolicitacaoOciThrift")
	w.str(1, "codigoSigtap", s.CodigoSigtap)
	w.end()
}

func writeProcedimentoQuantidade(w *structWriter, p ficha.ProcedimentoQuantidade) {
	w.begin("ProcedimentoQuantidadeThrift")
	w.str(1, "coMsProcedimento", p.CoMsProcedimento)
	w.i64(2, "quantidade", p.Quantidade)
	w.end()
}

// --- Ficha de Atendimento Individual ---

func writeAtendimentoIndividualMaster(w *structWriter, m *ficha.AtendimentoIndividualMaster) {
	w.begin("FichaAtendimentoIndividualMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "atendimentosIndividuais", len(m.Atendimentos), func(i int) {
		writeAtendimentoIndividual(w, m.Atendimentos[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeAtendimentoIndividual(w *structWriter, a ficha.AtendimentoIndividual) {
	w.begin("FichaAtendimentoIndividualChildThrift")
	w.str(1, "numeroProntuario", a.NumeroProntuario)
	w.str(2, "cnsCidadao", a.CNSCidadao)
	w.i64(3, "dataNascimento", a.DataNascimento)
	w.i64(4, "localDeAtendimento", a.LocalDeAtendimento)
	w.i64(5, "sexo", a.Sexo)
	w.i64(6, "turno", a.Turno)
	w.i64(7, "tipoAtendimento", a.TipoAtendimento)
	w.optDouble(8, "pesoAcompanhamentoNutricional", a.PesoAcompanhamentoNutricional)
	w.optDouble(9, "alturaAcompanhamentoNutricional", a.AlturaAcompanhamentoNutricional)
	w.optI64(10, "aleitamentoMaterno", a.AleitamentoMaterno)
	w.optI64(11, "dumDaGestante", a.DumDaGestante)
	w.optI32(12, "idadeGestacional", a.IdadeGestacional)
	w.optI64(13, "atencaoDomiciliarModalidade", a.AtencaoDomiciliarModalidade)
	if a.Exames != nil {
		w.structList(14, "exame", len(a.Exames), func(i int) { writeExame(w, a.Exames[i]) })
	}
	w.boolean(15, "vacinaEmDia", a.VacinaEmDia)
	w.boolean(16, "ficouEmObservacao", a.FicouEmObservacao)
	w.optI64(17, "racionalidadeSaude", a.RacionalidadeSaude)
	w.i64List(18, "condutas", a.Condutas)
	w.optI64(19, "pic", a.Pic)
	w.i64(20, "dataHoraInicialAtendimento", a.DataHoraInicialAtendimento)
	w.i64List(21, "nasfs", a.Nasfs)
	w.i64(22, "dataHoraFinalAtendimento", a.DataHoraFinalAtendimento)
	w.str(23, "cpfCidadao", a.CPFCidadao)
	w.boolean(24, "stGravidezPlanejada", a.StGravidezPlanejada)
	w.i32(25, "nuGestasPrevias", a.NuGestasPrevias)
	w.i32(26, "nuPartos", a.NuPartos)
	if !a.Medicoes.IsZero() {
		w.structField(27, "medicoes", func() { writeMedicoes(w, a.Medicoes) })
	}
	if a.ProblemasCondicoes != nil {
		w.structList(28, "problemasCondicoes", len(a.ProblemasCondicoes), func(i int) {
			writeProblemaCondicao(w, a.ProblemasCondicoes[i])
		})
	}
	if a.Ivcf != nil {
		w.structField(29, "ivcf", func() { writeIvcf(w, *a.Ivcf) })
	}
	if a.Medicamentos != nil {
		w.structList(30, "medicamentos", len(a.Medicamentos), func(i int) {
			writeMedicamento(w, a.Medicamentos[i])
		})
	}
	if a.Encaminhamentos != nil {
		w.structList(31, "encaminhamentos", len(a.Encaminhamentos), func(i int) {
			writeEncaminhamento(w, a.Encaminhamentos[i])
		})
	}
	if a.ResultadosExames != nil {
		w.structList(32, "resultadosExames", len(a.ResultadosExames), func(i int) {
			writeResultadosExame(w, a.ResultadosExames[i])
		})
	}
	if a.SolicitacoesOci != nil {
		w.structList(33, "solicitacoesOci", len(a.SolicitacoesOci), func(i int) {
			writeSolicitacaoOci(w, a.SolicitacoesOci[i])
		})
	}
	if a.FinalizadorObservacao != nil {
		w.structField(35, "finalizadorObservacao", func() { writeLotacaoHeader(w, *a.FinalizadorObservacao) })
	}
	w.optI64(36, "tipoParticipacaoCidadao", a.TipoParticipacaoCidadao)
	w.optI64(37, "tipoParticipacaoProfissionalConvidado", a.TipoParticipacaoProfissionalConvidado)
	w.i64List(38, "emultis", a.Emultis)
	w.end()
}

// --- Ficha de Atendimento Odontológico ---

func writeAtendimentoOdontologicoMaster(w *structWriter, m *ficha.AtendimentoOdontologicoMaster) {
	w.begin("FichaAtendimentoOdontologicoMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "atendimentosOdontologicos", len(m.Atendimentos), func(i int) {
		writeAtendimentoOdontologico(w, m.Atendimentos[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeAtendimentoOdontologico(w *structWriter, a ficha.AtendimentoOdontologico) {
	w.begin("FichaAtendimentoOdontologicoChildThrift")
	w.i64(1, "dtNascimento", a.DtNascimento)
	w.str(2, "cnsCidadao", a.CNSCidadao)
	w.str(3, "numProntuario", a.NumProntuario)
	w.optBool(4, "gestante", a.Gestante)
	w.optBool(5, "necessidadesEspeciais", a.NecessidadesEspeciais)
	w.i64(6, "localAtendimento", a.LocalAtendimento)
	w.i64(7, "tipoAtendimento", a.TipoAtendimento)
	w.i64List(8, "tiposEncamOdonto", a.TiposEncamOdonto)
	w.i64List(9, "tiposFornecimOdonto", a.TiposFornecimOdonto)
	w.i64List(10, "tiposVigilanciaSaudeBucal", a.TiposVigilanciaSaudeBucal)
	w.i64List(11, "tiposConsultaOdonto", a.TiposConsultaOdonto)
	if a.ProcedimentosRealizados != nil {
		w.structList(12, "procedimentosRealizados", len(a.ProcedimentosRealizados), func(i int) {
			writeProcedimentoQuantidade(w, a.ProcedimentosRealizados[i])
		})
	}
	w.i64(14, "sexo", a.Sexo)
	w.i64(15, "turno", a.Turno)
	w.i64(16, "dataHoraInicialAtendimento", a.DataHoraInicialAtendimento)
	w.i64(17, "dataHoraFinalAtendimento", a.DataHoraFinalAtendimento)
	w.str(18, "cpfCidadao", a.CPFCidadao)
	if a.Medicamentos != nil {
		w.structList(19, "medicamentos", len(a.Medicamentos), func(i int) {
			writeMedicamento(w, a.Medicamentos[i])
		})
	}
	if a.Encaminhamentos != nil {
		w.structList(20, "encaminhamentos", len(a.Encaminhamentos), func(i int) {
			writeEncaminhamento(w, a.Encaminhamentos[i])
		})
	}
	if a.ResultadosExames != nil {
		w.structList(21, "resultadosExames", len(a.ResultadosExames), func(i int) {
			writeResultadosExame(w, a.ResultadosExames[i])
		})
	}
	if !a.Medicoes.IsZero() {
		w.structField(27, "medicoes", func() { writeMedicoes(w, a.Medicoes) })
	}
	if a.ProblemasCondicoes != nil {
		w.structList(28, "problemasCondicoes", len(a.ProblemasCondicoes), func(i int) {
			writeProblemaCondicao(w, a.ProblemasCondicoes[i])
		})
	}
	if a.Ivcf != nil {
		w.structField(29, "ivcf", func() { writeIvcf(w, *a.Ivcf) })
	}
	if a.Exames != nil {
		w.structList(30, "exame", len(a.Exames), func(i int) { writeExame(w, a.Exames[i]) })
	}
	if a.SolicitacoesOci != nil {
		w.structList(31, "solicitacoesOci", len(a.SolicitacoesOci), func(i int) {
			writeSolicitacaoOci(w, a.SolicitacoesOci[i])
		})
	}
	w.end()
}

// --- Ficha de Atividade Coletiva ---

func writeAtividadeColetivaMaster(w *structWriter, m *ficha.AtividadeColetivaMaster) {
	w.begin("FichaAtividadeColetivaMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.optI64(2, "inep", m.Inep)
	w.i32(3, "numParticipantes", m.NumParticipantes)
	w.optI32(4, "numAvaliacoesAlteradas", m.NumAvaliacoesAlteradas)
	if m.Profissionais != nil {
		w.structList(5, "profissionais", len(m.Profissionais), func(i int) {
			p := m.Profissionais[i]
			w.begin("ProfissionalColetivaThrift")
			w.str(1, "cnsProfissional", p.CNSProfissional)
			w.str(2, "cboCodigo_2002", p.CBOCodigo2002)
			w.end()
		})
	}
	w.i64(6, "atividadeTipo", m.AtividadeTipo)
	w.i64List(7, "temasParaReuniao", m.TemasParaReuniao)
	w.i64List(8, "publicoAlvo", m.PublicoAlvo)
	w.i64List(9, "temasParaSaude", m.TemasParaSaude)
	w.i64List(10, "praticasEmSaude", m.PraticasEmSaude)
	if m.Participantes != nil {
		w.structList(11, "participantes", len(m.Participantes), func(i int) {
			writeParticipante(w, m.Participantes[i])
		})
	}
	w.str(12, "uuidFicha", m.UUIDFicha)
	w.i32(13, "tpCdsOrigem", m.TpCdsOrigem)
	w.str(14, "cnesLocalAtividade", m.CnesLocalAtividade)
	w.str(15, "procedimento", m.Procedimento)
	w.i64(16, "turno", m.Turno)
	w.optI64(17, "pseEducacao", m.PseEducacao)
	w.optI64(18, "pseSaude", m.PseSaude)
	w.end()
}

func writeParticipante(w *structWriter, p ficha.Participante) {
	w.begin("ParticipanteRowThrift")
	w.str(1, "cnsParticipante", p.CNSParticipante)
	w.i64(2, "dataNascimento", p.DataNascimento)
	w.i64(3, "sexo", p.Sexo)
	w.boolean(4, "avaliacaoAlterada", p.AvaliacaoAlterada)
	w.optDouble(5, "peso", p.Peso)
	w.optDouble(6, "altura", p.Altura)
	w.boolean(7, "cessouHabitoFumar", p.CessouHabitoFumar)
	w.boolean(8, "abandonouGrupo", p.AbandonouGrupo)
	w.end()
}

// --- Ficha de Procedimentos ---

func writeProcedimentosMaster(w *structWriter, m *ficha.ProcedimentosMaster) {
	w.begin("FichaProcedimentoMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "atendProcedimentos", len(m.Atendimentos), func(i int) {
		writeAtendimentoProcedimentos(w, m.Atendimentos[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeAtendimentoProcedimentos(w *structWriter, a ficha.AtendimentoProcedimentos) {
	w.begin("FichaProcedimentoChildThrift")
	w.str(1, "numProntuario", a.NumProntuario)
	w.str(2, "cnsCidadao", a.CNSCidadao)
	w.i64(3, "dtNascimento", a.DtNascimento)
	w.i64(4, "sexo", a.Sexo)
	w.i64(5, "localAtendimento", a.LocalAtendimento)
	w.i64(6, "turno", a.Turno)
	w.boolean(7, "statusEscutaInicialOrientacao", a.StatusEscutaInicialOrientacao)
	w.strList(8, "procedimentos", a.Procedimentos)
	w.i64(9, "dataHoraInicialAtendimento", a.DataHoraInicialAtendimento)
	w.i64(10, "dataHoraFinalAtendimento", a.DataHoraFinalAtendimento)
	w.str(11, "cpfCidadao", a.CPFCidadao)
	if !a.Medicoes.IsZero() {
		w.structField(12, "medicoes", func() { writeMedicoes(w, a.Medicoes) })
	}
	if a.Ivcf != nil {
		w.structField(13, "ivcf", func() { writeIvcf(w, *a.Ivcf) })
	}
	w.end()
}

// --- Ficha de Visita Domiciliar ---

func writeVisitaDomiciliarMaster(w *structWriter, m *ficha.VisitaDomiciliarMaster) {
	w.begin("FichaVisitaDomiciliarMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "visitasDomiciliares", len(m.Visitas), func(i int) {
		writeVisitaDomiciliar(w, m.Visitas[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeVisitaDomiciliar(w *structWriter, v ficha.VisitaDomiciliar) {
	w.begin("FichaVisitaDomiciliarChildThrift")
	w.i64(1, "turno", v.Turno)
	w.str(2, "numProntuario", v.NumProntuario)
	w.str(3, "cnsCidadao", v.CNSCidadao)
	w.i64(4, "dtNascimento", v.DtNascimento)
	w.i64(5, "sexo", v.Sexo)
	w.boolean(6, "statusVisitaCompartilhadaOutroProfissional", v.StatusVisitaCompartilhada)
	w.i64(7, "desfecho", v.Desfecho)
	w.i64List(8, "motivosVisita", v.MotivosVisita)
	w.str(9, "microarea", v.Microarea)
	w.boolean(10, "stForaArea", v.StForaArea)
	w.i64(11, "tipoDeImovel", v.TipoDeImovel)
	w.optDouble(12, "pesoAcompanhamentoNutricional", v.PesoAcompanhamentoNutricional)
	w.optDouble(13, "alturaAcompanhamentoNutricional", v.AlturaAcompanhamentoNutricional)
	w.end()
}

// --- Ficha de Atendimento Domiciliar ---

func writeAtendimentoDomiciliarMaster(w *structWriter, m *ficha.AtendimentoDomiciliarMaster) {
	w.begin("FichaAtendimentoDomiciliarMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "atendimentosDomiciliares", len(m.Atendimentos), func(i int) {
		writeAtendimentoDomiciliar(w, m.Atendimentos[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeAtendimentoDomiciliar(w *structWriter, a ficha.AtendimentoDomiciliar) {
	w.begin("FichaAtendimentoDomiciliarChildThrift")
	w.i64(1, "turno", a.Turno)
	w.str(2, "cnsCidadao", a.CNSCidadao)
	w.i64(3, "dataNascimento", a.DataNascimento)
	w.i64(4, "sexo", a.Sexo)
	w.i64(5, "localDeAtendimento", a.LocalDeAtendimento)
	w.i64(6, "atencaoDomiciliarModalidade", a.AtencaoDomiciliarModalidade)
	w.i64(7, "tipoAtendimento", a.TipoAtendimento)
	w.i64List(8, "condicoesAvaliadas", a.CondicoesAvaliadas)
	w.strList(11, "procedimentos", a.Procedimentos)
	w.i64(13, "condutaDesfecho", a.CondutaDesfecho)
	w.str(15, "cpfCidadao", a.CPFCidadao)
	if a.ProblemasCondicoes != nil {
		w.structList(16, "problemasCondicoes", len(a.ProblemasCondicoes), func(i int) {
			writeProblemaCondicao(w, a.ProblemasCondicoes[i])
		})
	}
	w.end()
}

// --- Ficha de Vacinação ---

func writeVacinacaoMaster(w *structWriter, m *ficha.VacinacaoMaster) {
	w.begin("FichaVacinacaoMasterThrift")
	w.structField(1, "headerTransport", func() { writeVariasLotacoesHeader(w, m.HeaderTransport) })
	w.structList(2, "vacinacoes", len(m.Vacinacoes), func(i int) {
		writeVacinacao(w, m.Vacinacoes[i])
	})
	w.str(3, "uuidFicha", m.UUIDFicha)
	w.i32(4, "tpCdsOrigem", m.TpCdsOrigem)
	w.end()
}

func writeVacinacao(w *structWriter, v ficha.Vacinacao) {
	w.begin("FichaVacinacaoChildThrift")
	w.i64(1, "turno", v.Turno)
	w.str(2, "numProntuario", v.NumProntuario)
	w.str(3, "cnsCidadao", v.CNSCidadao)
	w.i64(4, "dtNascimento", v.DtNascimento)
	w.i64(5, "sexo", v.Sexo)
	w.i64(6, "localAtendimento", v.LocalAtendimento)
	w.boolean(7, "viajante", v.Viajante)
	w.structList(8, "vacinas", len(v.Vacinas), func(i int) { writeVacina(w, v.Vacinas[i]) })
	w.i64(9, "dataHoraInicialAtendimento", v.DataHoraInicialAtendimento)
	w.i64(10, "dataHoraFinalAtendimento", v.DataHoraFinalAtendimento)
	w.str(11, "cpfCidadao", v.CPFCidadao)
	w.end()
}

func writeVacina(w *structWriter, v ficha.Vacina) {
	w.begin("VacinaRowThrift")
	w.i64(1, "imunobiologico", v.Imunobiologico)
	w.i64(2, "estrategiaVacinacao", v.EstrategiaVacinacao)
	w.i64(3, "dose", v.Dose)
	w.str(4, "lote", v.Lote)
	w.str(5, "fabricante", v.Fabricante)
	w.optI64(6, "viaAdministracao", v.ViaAdministracao)
	w.optI64(7, "localAplicacao", v.LocalAplicacao)
	w.str(8, "especialidadeProfissionalPrescritor", v.EspecialidadeProfissionalPrescritor)
	w.str(9, "motivoIndicacao", v.MotivoIndicacao)
	w.end()
}
