package arquivo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Uploads maiores que isso são recusados.
const tamanhoMaximoUpload = 50 << 20

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

type arquivoResposta struct {
	Arquivo
	TamanhoLegivel string `json:"tamanho_legivel"`
}

func responderErro(w http.ResponseWriter, mensagem string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"erro": mensagem})
}

// GET /api/arquivos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.Listar(h.DB, auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Erro ao listar arquivos", http.StatusInternalServerError)
		return
	}

	resposta := make([]arquivoResposta, 0, len(lista))
	for _, a := range lista {
		resposta = append(resposta, arquivoResposta{Arquivo: a, TamanhoLegivel: TamanhoLegivel(a.Tamanho)})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resposta)
}

// POST /api/arquivos
// O arquivo é gravado em disco com nome aleatório; o nome original só
// existe no banco, então um upload não sobrescreve outro.
// Falhas de upload voltam como 200 com a chave "erro", que é o contrato
// que o painel já espera.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, tamanhoMaximoUpload)
	if err := r.ParseMultipartForm(tamanhoMaximoUpload); err != nil {
		responderErro(w, "Arquivo grande demais ou formulário inválido.")
		return
	}

	enviado, cabecalho, err := r.FormFile("arquivo")
	if err != nil {
		responderErro(w, "Campo 'arquivo' ausente.")
		return
	}
	defer enviado.Close()

	dir := DiretorioUploads()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		responderErro(w, "Erro ao preparar diretório de uploads.")
		return
	}

	nomeDisco := uuid.New().String() + filepath.Ext(cabecalho.Filename)
	caminho := filepath.Join(dir, nomeDisco)

	destino, err := os.Create(caminho)
	if err != nil {
		responderErro(w, "Erro ao gravar arquivo.")
		return
	}
	tamanho, err := io.Copy(destino, enviado)
	destino.Close()
	if err != nil {
		os.Remove(caminho)
		responderErro(w, "Erro ao gravar arquivo.")
		return
	}

	usuario := auth.UsuarioDaRequisicao(r)
	empresaID := auth.EmpresaDaRequisicao(r)
	registro := &Arquivo{
		NomeOriginal: cabecalho.Filename,
		CaminhoSalvo: caminho,
		Tamanho:      tamanho,
		DataUpload:   time.Now().In(fusoSaoPaulo).Format(LayoutDataUpload),
		Uploader:     usuario,
		EmpresaID:    empresaID,
	}
	if err := h.Repository.Salvar(h.DB, registro); err != nil {
		os.Remove(caminho)
		responderErro(w, "Erro ao registrar arquivo.")
		return
	}

	h.Historico.Registrar(h.DB, usuario, "UPLOAD ARQUIVO",
		fmt.Sprintf("%s (%s)", cabecalho.Filename, TamanhoLegivel(tamanho)), empresaID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(arquivoResposta{Arquivo: *registro, TamanhoLegivel: TamanhoLegivel(tamanho)})
}

// GET /api/arquivos/{id}/download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	a, err := h.Repository.BuscarPorID(h.DB, uint(id), auth.EmpresaDaRequisicao(r))
	if err != nil {
		http.Error(w, "Arquivo não encontrado.", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(a.CaminhoSalvo); err != nil {
		http.Error(w, "Arquivo não encontrado.", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.NomeOriginal))
	http.ServeFile(w, r, a.CaminhoSalvo)
}

// DELETE /api/arquivos/{id}
// Remove o registro e tenta apagar o arquivo em disco; se o disco já
// perdeu o arquivo, a exclusão do registro vale mesmo assim.
func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	empresaID := auth.EmpresaDaRequisicao(r)
	a, err := h.Repository.BuscarPorID(h.DB, uint(id), empresaID)
	if err != nil {
		if errors.Is(err, ErrNaoEncontrado) {
			http.Error(w, "Arquivo não encontrado.", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao buscar arquivo", http.StatusInternalServerError)
		return
	}

	if err := h.Repository.Excluir(h.DB, uint(id), empresaID); err != nil {
		http.Error(w, "Erro ao excluir arquivo", http.StatusInternalServerError)
		return
	}
	if err := os.Remove(a.CaminhoSalvo); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("caminho", a.CaminhoSalvo).Warn("falha ao remover arquivo do disco")
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "EXCLUIR ARQUIVO", a.NomeOriginal, empresaID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "Arquivo excluído."})
}
