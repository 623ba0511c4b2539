package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"gorm.io/gorm"
)

type mensagemRequest struct {
	Texto       string `json:"texto"`
	ProtocoloID uint   `json:"protocolo_id"`
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

// GET /chat/meu-protocolo
// Devolve o protocolo em andamento do usuário logado com as mensagens,
// ou {"protocolo": null} se não há conversa aberta.
func (h *Handler) MeuProtocolo(w http.ResponseWriter, r *http.Request) {
	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)

	w.Header().Set("Content-Type", "application/json")

	p, err := h.Repository.ProtocoloAberto(h.DB, usuario, empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			json.NewEncoder(w).Encode(map[string]interface{}{"protocolo": nil})
			return
		}
		http.Error(w, "Erro ao buscar protocolo", http.StatusInternalServerError)
		return
	}

	msgs, err := h.Repository.Mensagens(h.DB, p.ID, empresaID)
	if err != nil {
		http.Error(w, "Erro ao buscar mensagens", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"protocolo": p,
		"mensagens": msgs,
	})
}

// POST /chat/mensagens
func (h *Handler) EnviarMensagem(w http.ResponseWriter, r *http.Request) {
	var req mensagemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	req.Texto = strings.TrimSpace(req.Texto)
	if req.Texto == "" {
		http.Error(w, "Mensagem vazia.", http.StatusBadRequest)
		return
	}

	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)

	protocoloID, err := h.Repository.EnviarMensagem(h.DB, usuario, req.Texto, empresaID, req.ProtocoloID)
	if err != nil {
		http.Error(w, "Erro ao enviar mensagem", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "enviada",
		"protocolo_id": protocoloID,
	})
}

// GET /chat/protocolos — painel do suporte, lista global.
func (h *Handler) Protocolos(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarProtocolos(h.DB)
	if err != nil {
		http.Error(w, "Erro ao listar protocolos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// GET /chat/protocolos/{id}/mensagens
func (h *Handler) MensagensDoProtocolo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if _, err := h.Repository.BuscarProtocolo(h.DB, uint(id), empresaID); err != nil {
		http.Error(w, "Protocolo não encontrado.", http.StatusNotFound)
		return
	}

	msgs, err := h.Repository.Mensagens(h.DB, uint(id), empresaID)
	if err != nil {
		http.Error(w, "Erro ao buscar mensagens", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

// GET /chat/historico — protocolos antigos do próprio usuário.
func (h *Handler) HistoricoDoUsuario(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.HistoricoDoUsuario(h.DB,
		auth.UsuarioDaRequisicao(r), auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao buscar histórico", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// POST /chat/protocolos/{id}/encerrar
// O suporte encerra: o protocolo vai para avaliando e o cliente é
// convidado a dar uma nota antes do fechamento definitivo.
func (h *Handler) Encerrar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.AtualizarStatus(h.DB, uint(id), StatusAvaliando, empresaID); err != nil {
		http.Error(w, "Erro ao encerrar protocolo", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "ENCERRAR CHAT",
		fmt.Sprintf("Protocolo #%d", id), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Protocolo em avaliação."})
}

// POST /chat/protocolos/{id}/avaliar
// A nota enviada é recebida e descartada; só a transição para fechado
// é persistida.
func (h *Handler) Avaliar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var corpo struct {
		Nota int `json:"nota"`
	}
	json.NewDecoder(r.Body).Decode(&corpo)

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.AtualizarStatus(h.DB, uint(id), StatusFechado, empresaID); err != nil {
		http.Error(w, "Erro ao fechar protocolo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Atendimento finalizado. Obrigado!"})
}

// POST /chat/protocolos/fechar-lote
func (h *Handler) FecharEmLote(w http.ResponseWriter, r *http.Request) {
	var corpo struct {
		IDs []uint `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	total, err := h.Repository.FecharEmLote(h.DB, corpo.IDs, empresaID)
	if err != nil {
		http.Error(w, "Erro ao encerrar protocolos", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "ENCERRAR CHATS EM LOTE",
		fmt.Sprintf("%d protocolos", total), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": fmt.Sprintf("%d protocolos encerrados.", total),
	})
}

// GET /chat/ultimo-id — id global da última mensagem, para polling.
func (h *Handler) UltimoID(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repository.UltimoIDMensagem(h.DB)
	if err != nil {
		http.Error(w, "Erro ao consultar mensagens", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]uint{"ultimo_id": id})
}
