package movimentacao

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/cpf"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/pateo-sistemas/api-estacionamento/internal/placa"
	"gorm.io/gorm"
)

type entradaRequest struct {
	Placa          string `json:"placa"`
	Tipo           string `json:"tipo"`
	Responsavel    string `json:"responsavel"`
	CPFResponsavel string `json:"cpf_responsavel"`
}

type saidaRequest struct {
	Placa string `json:"placa"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Historico  historico.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Historico:  historico.NewRepository(),
	}
}

// POST /entrada
func (h *Handler) Entrada(w http.ResponseWriter, r *http.Request) {
	var req entradaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if !placa.Valida(req.Placa) {
		http.Error(w, "Placa inválida! Ex: ABC1234 ou ABC1D23", http.StatusBadRequest)
		return
	}
	if req.CPFResponsavel != "" && !cpf.Valido(req.CPFResponsavel) {
		http.Error(w, "CPF do responsável inválido", http.StatusBadRequest)
		return
	}

	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)

	m := Movimentacao{
		Placa:          placa.Normalizar(req.Placa),
		Tipo:           req.Tipo,
		Responsavel:    cpf.NormalizarNome(req.Responsavel),
		CPFResponsavel: cpf.Normalizar(req.CPFResponsavel),
		EmpresaID:      empresaID,
	}

	if err := h.Repository.RegistrarEntrada(h.DB, &m); err != nil {
		if errors.Is(err, ErrJaEstacionado) {
			http.Error(w, "Veículo já está no estacionamento", http.StatusConflict)
			return
		}
		http.Error(w, "Erro ao registrar entrada", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, usuario, "ENTRADA VEÍCULO",
		fmt.Sprintf("Placa: %s | Tipo: %s", m.Placa, m.Tipo), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "entrada registrada", "placa": m.Placa})
}

// POST /saida
func (h *Handler) Saida(w http.ResponseWriter, r *http.Request) {
	var req saidaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if !placa.Valida(req.Placa) {
		http.Error(w, "Placa inválida!", http.StatusBadRequest)
		return
	}

	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)
	normalizada := placa.Normalizar(req.Placa)

	if err := h.Repository.RegistrarSaida(h.DB, normalizada, empresaID); err != nil {
		if errors.Is(err, ErrNaoEncontrado) {
			http.Error(w, "Veículo não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao registrar saída", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, usuario, "SAÍDA VEÍCULO",
		fmt.Sprintf("Placa: %s", normalizada), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "saida registrada", "placa": normalizada})
}

// GET /veiculos
func (h *Handler) Veiculos(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarPatio(h.DB, auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao listar veículos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// GET /saidas
func (h *Handler) Saidas(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarSaidas(h.DB, auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao listar saídas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// POST /reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)

	if err := h.Repository.Resetar(h.DB, empresaID); err != nil {
		http.Error(w, "Erro ao resetar veículos", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, usuario, "RESET BANCO", "Limpou todos os veículos do pátio.", empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Veículos da sua empresa foram resetados com sucesso"})
}

// GET /estatisticas
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	est, err := h.Repository.Estatisticas(h.DB, auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao calcular estatísticas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(est)
}

// GET /relatorio/{tipo}  (tipo: diario | mensal)
func (h *Handler) Relatorio(w http.ResponseWriter, r *http.Request) {
	lista, _, err := h.listarRelatorio(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// GET /relatorio/{tipo}/exportar
func (h *Handler) ExportarRelatorio(w http.ResponseWriter, r *http.Request) {
	lista, nome, err := h.listarRelatorio(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.Write([]string{"Placa", "Tipo", "Entrada", "Saída"})
	for _, m := range lista {
		saida := ""
		if m.Saida != nil {
			saida = *m.Saida
		}
		cw.Write([]string{m.Placa, m.Tipo, m.Entrada, saida})
	}
	cw.Flush()
}

func (h *Handler) listarRelatorio(r *http.Request) ([]Movimentacao, string, error) {
	empresaID := auth.EmpresaDaRequisicao(r)
	agora := time.Now()

	var like, nome string
	switch mux.Vars(r)["tipo"] {
	case "diario":
		filtro := agora.Format("02-01-2006")
		like = filtro + "%"
		nome = fmt.Sprintf("relatorio_diario_%s.csv", filtro)
	case "mensal":
		filtro := agora.Format("01-2006")
		like = "%-" + filtro + "%"
		nome = fmt.Sprintf("relatorio_mensal_%s.csv", filtro)
	default:
		return nil, "", errors.New("Tipo de relatório inválido")
	}

	lista, err := h.Repository.ListarPorEntradaLike(h.DB, empresaID, like)
	if err != nil {
		return nil, "", errors.New("Erro ao montar relatório")
	}
	return lista, nome, nil
}
