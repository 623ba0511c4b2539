package configuracao

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"gorm.io/gorm"
)

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

// GET /config/css — público: o frontend aplica o CSS antes do login.
func (h *Handler) BuscarCSS(w http.ResponseWriter, r *http.Request) {
	css, err := h.Repository.Buscar(h.DB, ChaveCSS)
	if err != nil {
		http.Error(w, "Erro ao buscar configuração", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(css))
}

// POST /config/css
func (h *Handler) GravarCSS(w http.ResponseWriter, r *http.Request) {
	var corpo struct {
		CSS string `json:"css"`
	}
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Gravar(h.DB, ChaveCSS, corpo.CSS); err != nil {
		http.Error(w, "Erro ao gravar configuração", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EDITAR CSS",
		fmt.Sprintf("%d bytes", len(corpo.CSS)), auth.EmpresaDaRequisicao(r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "CSS atualizado."})
}

// GET /config/visual — público, devolve o JSON gravado como está.
func (h *Handler) BuscarVisual(w http.ResponseWriter, r *http.Request) {
	valor, err := h.Repository.Buscar(h.DB, ChaveVisual)
	if err != nil {
		http.Error(w, "Erro ao buscar configuração", http.StatusInternalServerError)
		return
	}
	if valor == "" {
		valor = "{}"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(valor))
}

// POST /config/visual
func (h *Handler) GravarVisual(w http.ResponseWriter, r *http.Request) {
	var corpo json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Gravar(h.DB, ChaveVisual, string(corpo)); err != nil {
		http.Error(w, "Erro ao gravar configuração", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EDITAR VISUAL",
		"Preferências visuais atualizadas.", auth.EmpresaDaRequisicao(r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Configuração visual atualizada."})
}

// GET /app-version — público, usado pelo frontend para avisar sobre
// atualização disponível.
func (h *Handler) VersaoApp(w http.ResponseWriter, r *http.Request) {
	versao, err := h.Repository.Buscar(h.DB, ChaveVersaoApp)
	if err != nil {
		http.Error(w, "Erro ao buscar versão", http.StatusInternalServerError)
		return
	}
	if versao == "" {
		versao = VersaoPadrao
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": versao})
}

// POST /dev/publish-update
func (h *Handler) PublicarAtualizacao(w http.ResponseWriter, r *http.Request) {
	var corpo struct {
		Versao string `json:"versao"`
	}
	if err := json.NewDecoder(r.Body).Decode(&corpo); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	corpo.Versao = strings.TrimSpace(corpo.Versao)
	if corpo.Versao == "" {
		http.Error(w, "Versão vazia.", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Gravar(h.DB, ChaveVersaoApp, corpo.Versao); err != nil {
		http.Error(w, "Erro ao publicar versão", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "PUBLICAR ATUALIZAÇÃO",
		"Versão "+corpo.Versao, auth.EmpresaDaRequisicao(r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": fmt.Sprintf("Versão %s publicada.", corpo.Versao),
	})
}
