package usuario

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/empresa"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CNPJ     string `json:"cnpj"`
}

type usuarioRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Empresas   empresa.Repository
	Historico  historico.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Empresas:   empresa.NewRepository(),
		Historico:  historico.NewRepository(),
	}
}

// POST /login
// Sem CNPJ o login cai na empresa padrão (contas admin/dev).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	empresaID := empresa.EmpresaPadraoID
	if req.CNPJ != "" {
		e, err := h.Empresas.BuscarPorCNPJ(h.DB, req.CNPJ)
		if err != nil {
			http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
			return
		}
		empresaID = e.ID
	}

	u, err := h.Repository.Autenticar(h.DB, req.Username, req.Password, empresaID)
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := auth.GerarToken(u.Username, u.Role, u.EmpresaID)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.NomeCookieSessao,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessaoTTL.Seconds()),
	})

	h.Historico.Registrar(h.DB, u.Username, "LOGIN", "Acesso ao sistema realizado.", u.EmpresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":    token,
		"username": u.Username,
		"role":     u.Role,
	})
}

// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	usuario := auth.UsuarioDaRequisicao(r)
	if usuario != "" {
		h.Historico.Registrar(h.DB, usuario, "LOGOUT", "Saída do sistema.", auth.EmpresaDaRequisicao(r))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.NomeCookieSessao,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "sessão encerrada"})
}

// GET /me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	usuario := auth.UsuarioDaRequisicao(r)
	w.Header().Set("Content-Type", "application/json")
	if usuario == "" {
		json.NewEncoder(w).Encode(map[string]interface{}{"authenticated": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"authenticated": true,
		"username":      usuario,
		"role":          auth.RoleDaRequisicao(r),
	})
}

// GET /usuarios
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.Listar(h.DB, auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// POST /usuarios
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req usuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = "operador"
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if _, err := h.Repository.Criar(h.DB, req.Username, req.Password, req.Role, empresaID); err != nil {
		if errors.Is(err, ErrDuplicado) {
			http.Error(w, "Nome de usuário já existe nesta empresa.", http.StatusConflict)
			return
		}
		http.Error(w, "Erro ao criar usuário", http.StatusInternalServerError)
		return
	}

	if err := LogCSV(req.Username, req.Password, req.Role, "CRIADO"); err != nil {
		logrus.WithError(err).Warn("falha ao registrar usuário no CSV de backup")
	}
	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "CRIAR USUÁRIO",
		fmt.Sprintf("Novo user: %s | Cargo: %s", req.Username, req.Role), empresaID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "Usuário criado com sucesso!"})
}

// PUT /usuarios/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var req usuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.Atualizar(h.DB, uint(id), req.Username, req.Password, req.Role, empresaID); err != nil {
		switch {
		case errors.Is(err, ErrDuplicado):
			http.Error(w, "Nome de usuário já existe.", http.StatusConflict)
		case errors.Is(err, ErrNaoEncontrado):
			http.Error(w, "Usuário não encontrado.", http.StatusNotFound)
		default:
			http.Error(w, "Erro ao atualizar usuário", http.StatusInternalServerError)
		}
		return
	}

	senhaCSV := req.Password
	if senhaCSV == "" {
		senhaCSV = SenhaMantida
	}
	if err := LogCSV(req.Username, senhaCSV, req.Role, "ATUALIZADO"); err != nil {
		logrus.WithError(err).Warn("falha ao registrar usuário no CSV de backup")
	}
	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EDITAR USUÁRIO",
		fmt.Sprintf("ID: %d", id), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Usuário atualizado com sucesso!"})
}

// DELETE /usuarios/{id}
func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	if err := h.Repository.Excluir(h.DB, uint(id), empresaID); err != nil {
		if errors.Is(err, ErrProtegido) {
			http.Error(w, "Não é possível excluir o superusuário admin.", http.StatusForbidden)
			return
		}
		http.Error(w, "Erro ao excluir usuário", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EXCLUIR USUÁRIO",
		fmt.Sprintf("ID: %d", id), empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Usuário excluído."})
}

// POST /usuarios/importar
func (h *Handler) Importar(w http.ResponseWriter, r *http.Request) {
	empresaID := auth.EmpresaDaRequisicao(r)
	count, err := ImportarCSV(h.DB, empresaID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Erro ao importar: %v", err), http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "IMPORTAR USUÁRIOS", "Via CSV Backup", empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": fmt.Sprintf("Sincronização concluída! %d registros processados.", count),
	})
}

// POST /usuarios/exportar
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	if err := ExportarCSV(h.DB); err != nil {
		http.Error(w, "Erro ao exportar CSV", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Backup CSV atualizado", "arquivo": CaminhoBackupCSV()})
}
