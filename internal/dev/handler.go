package dev

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pateo-sistemas/api-estacionamento/internal/arquivo"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	utilsdb "github.com/pateo-sistemas/api-estacionamento/internal/utils/db"
	"gorm.io/gorm"
)

// Handler expõe as ferramentas administrativas do painel dev: console
// SQL direto no banco e backup completo em ZIP.
type Handler struct {
	DB        *gorm.DB
	Historico historico.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Historico: historico.NewRepository()}
}

type sqlRequest struct {
	Query string `json:"query"`
}

// POST /dev/sql
// Consultas devolvem colunas e linhas; comandos devolvem o total de
// linhas afetadas. Erros de SQL voltam como 200 com a chave "erro",
// que é o contrato que o painel já espera.
func (h *Handler) ExecutarSQL(w http.ResponseWriter, r *http.Request) {
	var req sqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		http.Error(w, "Consulta vazia.", http.StatusBadRequest)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "CONSOLE SQL",
		primeirosCaracteres(query, 120), auth.EmpresaDaRequisicao(r))

	w.Header().Set("Content-Type", "application/json")

	if ehConsulta(query) {
		colunas, resultados, err := h.consultar(query)
		if err != nil {
			json.NewEncoder(w).Encode(map[string]string{"erro": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"colunas":    colunas,
			"resultados": resultados,
		})
		return
	}

	res := h.DB.Exec(query)
	if res.Error != nil {
		json.NewEncoder(w).Encode(map[string]string{"erro": res.Error.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"linhas_afetadas": res.RowsAffected,
	})
}

func ehConsulta(query string) bool {
	inicio := strings.ToUpper(strings.Fields(query)[0])
	return inicio == "SELECT" || inicio == "PRAGMA" || inicio == "EXPLAIN" || inicio == "WITH"
}

func (h *Handler) consultar(query string) ([]string, []map[string]interface{}, error) {
	rows, err := h.DB.Raw(query).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	colunas, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	resultados := []map[string]interface{}{}
	for rows.Next() {
		valores := make([]interface{}, len(colunas))
		destinos := make([]interface{}, len(colunas))
		for i := range valores {
			destinos[i] = &valores[i]
		}
		if err := rows.Scan(destinos...); err != nil {
			return nil, nil, err
		}

		linha := make(map[string]interface{}, len(colunas))
		for i, nome := range colunas {
			if b, ok := valores[i].([]byte); ok {
				linha[nome] = string(b)
			} else {
				linha[nome] = valores[i]
			}
		}
		resultados = append(resultados, linha)
	}
	return colunas, resultados, rows.Err()
}

func primeirosCaracteres(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// GET /dev/backup
// Gera um ZIP com o arquivo do banco e o diretório de uploads e envia
// como download. Com Postgres não há arquivo local: só os uploads vão.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	nome := fmt.Sprintf("backup_%s.zip", time.Now().Format("2006-01-02_15-04-05"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))

	zw := zip.NewWriter(w)
	defer zw.Close()

	if caminho := utilsdb.CaminhoBanco(); caminho != "" {
		if err := adicionarAoZip(zw, caminho, filepath.Base(caminho)); err != nil && !os.IsNotExist(err) {
			return
		}
	}

	dir := arquivo.DiretorioUploads()
	filepath.Walk(dir, func(caminho string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, caminho)
		if err != nil {
			return nil
		}
		adicionarAoZip(zw, caminho, filepath.Join("uploads", rel))
		return nil
	})

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "BACKUP COMPLETO",
		nome, auth.EmpresaDaRequisicao(r))
}

func adicionarAoZip(zw *zip.Writer, caminho, nomeInterno string) error {
	origem, err := os.Open(caminho)
	if err != nil {
		return err
	}
	defer origem.Close()

	destino, err := zw.Create(nomeInterno)
	if err != nil {
		return err
	}
	_, err = io.Copy(destino, origem)
	return err
}
