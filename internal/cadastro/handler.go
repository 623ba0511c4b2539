package cadastro

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/cpf"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/pateo-sistemas/api-estacionamento/internal/movimentacao"
	"github.com/pateo-sistemas/api-estacionamento/internal/placa"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB            *gorm.DB
	Repository    Repository
	Movimentacoes movimentacao.Repository
	Historico     historico.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Movimentacoes: movimentacao.NewRepository(),
		Historico:     historico.NewRepository(),
	}
}

// POST /cadastro
// Se o cadastro traz placa, registra também a entrada no pátio. São duas
// escritas separadas: o cadastro vale mesmo que o veículo já esteja dentro.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var c Cadastro
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if c.Placa != "" && !placa.Valida(c.Placa) {
		http.Error(w, "Placa inválida! Ex: ABC1234 ou ABC1D23", http.StatusBadRequest)
		return
	}
	if c.CPF != "" && !cpf.Valido(c.CPF) {
		http.Error(w, "CPF inválido", http.StatusBadRequest)
		return
	}

	usuario := auth.UsuarioDaRequisicao(r)
	c.EmpresaID = auth.EmpresaDaRequisicao(r)
	if c.Placa != "" {
		c.Placa = placa.Normalizar(c.Placa)
	}

	if err := h.Repository.Criar(h.DB, &c); err != nil {
		http.Error(w, "Erro ao salvar cadastro", http.StatusInternalServerError)
		return
	}

	if c.Placa != "" {
		tipo := c.TipoVeiculo
		if tipo == "" {
			tipo = "Carro"
		}
		m := movimentacao.Movimentacao{
			Placa:          c.Placa,
			Tipo:           tipo,
			Responsavel:    cpf.NormalizarNome(c.Nome),
			CPFResponsavel: cpf.Normalizar(c.CPF),
			EmpresaID:      c.EmpresaID,
		}
		if err := h.Movimentacoes.RegistrarEntrada(h.DB, &m); err != nil {
			// veículo já dentro não invalida o cadastro
			if !errors.Is(err, movimentacao.ErrJaEstacionado) {
				logrus.WithError(err).WithField("placa", c.Placa).
					Warn("cadastro salvo, mas entrada automática falhou")
			}
		}
	}

	h.Historico.Registrar(h.DB, usuario, "NOVO CADASTRO", fmt.Sprintf("Nome: %s", c.Nome), c.EmpresaID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "Cadastro realizado com sucesso!"})
}

// GET /cadastros?busca=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.Listar(h.DB, auth.EmpresaDaRequisicao(r), r.URL.Query().Get("busca"))
	if err != nil {
		http.Error(w, "Erro ao listar cadastros", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// GET /cadastro/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, uint(id), auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Cadastro não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// PUT /cadastro/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var dados Cadastro
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if dados.Placa != "" {
		dados.Placa = placa.Normalizar(dados.Placa)
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.Atualizar(h.DB, uint(id), empresaID, &dados); err != nil {
		if errors.Is(err, ErrNaoEncontrado) {
			http.Error(w, "Cadastro não encontrado para atualizar.", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao atualizar cadastro", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "ATUALIZAR CADASTRO",
		fmt.Sprintf("ID: %d", id), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Cadastro atualizado com sucesso!"})
}

// DELETE /cadastro/{id}
func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.Excluir(h.DB, uint(id), empresaID); err != nil {
		if errors.Is(err, ErrNaoEncontrado) {
			http.Error(w, "Cadastro não encontrado.", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao excluir cadastro", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EXCLUIR CADASTRO",
		fmt.Sprintf("ID: %d", id), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Cadastro excluído com sucesso!"})
}
