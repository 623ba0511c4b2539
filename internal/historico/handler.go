package historico

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// GET /api/historico?usuario=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	empresaID := auth.EmpresaDaRequisicao(r)
	acoes, err := h.Repository.Listar(h.DB, empresaID, r.URL.Query().Get("usuario"))
	if err != nil {
		http.Error(w, "Erro ao listar histórico", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acoes)
}

// GET /api/historico/usuarios
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	empresaID := auth.EmpresaDaRequisicao(r)
	usuarios, err := h.Repository.ListarUsuarios(h.DB, empresaID)
	if err != nil {
		http.Error(w, "Erro ao listar usuários do histórico", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuarios)
}

// GET /api/historico/exportar?usuario=
// Baixa o histórico completo (sem o limite de 100) como CSV separado por
// ponto e vírgula, padrão que o Excel brasileiro reconhece.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	empresaID := auth.EmpresaDaRequisicao(r)
	usuario := r.URL.Query().Get("usuario")

	var acoes []Acao
	q := h.DB.Where("empresa_id = ?", empresaID)
	if usuario != "" {
		q = q.Where("usuario = ?", usuario)
	}
	if err := q.Order("id DESC").Find(&acoes).Error; err != nil {
		http.Error(w, "Erro ao exportar histórico", http.StatusInternalServerError)
		return
	}

	nome := "historico_completo.csv"
	if usuario != "" {
		nome = fmt.Sprintf("historico_%s.csv", sanitizarNomeArquivo(usuario))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.Write([]string{"Data/Hora", "Usuário", "Ação", "Detalhes"})
	for _, a := range acoes {
		cw.Write([]string{a.DataHora, a.Usuario, a.Acao, a.Detalhes})
	}
	cw.Flush()

	h.Repository.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EXPORTAÇÃO",
		detalheExportacao(usuario), empresaID)
}

func detalheExportacao(usuario string) string {
	if usuario != "" {
		return fmt.Sprintf("Exportou histórico de ações do usuário '%s'.", usuario)
	}
	return "Exportou histórico de ações completo."
}

func sanitizarNomeArquivo(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
