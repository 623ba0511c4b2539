package dev

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&historico.Acao{}))
	return db
}

func comSessaoDev(r *http.Request) *http.Request {
	return r.WithContext(auth.ContextoComSessao(r.Context(), "dev@sistema", "dev", 1))
}

func executar(t *testing.T, h *Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	corpo := fmt.Sprintf(`{"query": %q}`, query)
	req := httptest.NewRequest(http.MethodPost, "/dev/sql", strings.NewReader(corpo))
	rec := httptest.NewRecorder()
	h.ExecutarSQL(rec, comSessaoDev(req))
	return rec
}

func TestExecutarSQLSelect(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	rec := executar(t, h, "SELECT 1 AS um, 'oi' AS texto")
	require.Equal(t, http.StatusOK, rec.Code)
	corpo := rec.Body.String()
	assert.Contains(t, corpo, `"colunas"`)
	assert.Contains(t, corpo, `"um"`)
	assert.Contains(t, corpo, `"oi"`)
}

func TestExecutarSQLComando(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	rec := executar(t, h, "CREATE TABLE teste_console (id INTEGER)")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "linhas_afetadas")

	rec = executar(t, h, "INSERT INTO teste_console VALUES (1)")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"linhas_afetadas":1`)
}

func TestExecutarSQLErroVolta200ComChaveErro(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	rec := executar(t, h, "SELECT * FROM tabela_que_nao_existe")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"erro"`)
}

func TestBackupIncluiUploads(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("conteúdo"), 0o644))

	h := NewHandler(db)
	req := httptest.NewRequest(http.MethodGet, "/dev/backup", nil)
	rec := httptest.NewRecorder()
	h.Backup(rec, comSessaoDev(req))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".zip")

	leitor, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	nomes := make([]string, 0, len(leitor.File))
	for _, f := range leitor.File {
		nomes = append(nomes, f.Name)
	}
	assert.Contains(t, nomes, filepath.Join("uploads", "doc.txt"))
}
