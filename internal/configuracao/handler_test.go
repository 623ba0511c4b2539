package configuracao

import (
	"fmt"
	"net/http"
	"net/http/httptest"
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
	require.NoError(t, db.AutoMigrate(&Configuracao{}, &historico.Acao{}))
	return db
}

func comSessaoDev(r *http.Request) *http.Request {
	return r.WithContext(auth.ContextoComSessao(r.Context(), "dev@sistema", "dev", 1))
}

func TestGravarCSSSobrescreve(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	for _, css := range []string{"body { color: red }", "body { color: blue }"} {
		req := httptest.NewRequest(http.MethodPost, "/config/css",
			strings.NewReader(fmt.Sprintf(`{"css": %q}`, css)))
		rec := httptest.NewRecorder()
		h.GravarCSS(rec, comSessaoDev(req))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/config/css", nil)
	rec := httptest.NewRecorder()
	h.BuscarCSS(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body { color: blue }", rec.Body.String())

	var total int64
	db.Model(&Configuracao{}).Count(&total)
	assert.Equal(t, int64(1), total)
}

func TestVersaoAppPadraoEPublicada(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/app-version", nil)
	rec := httptest.NewRecorder()
	h.VersaoApp(rec, req)
	assert.Contains(t, rec.Body.String(), VersaoPadrao)

	pub := httptest.NewRequest(http.MethodPost, "/dev/publicar-atualizacao",
		strings.NewReader(`{"versao": "2.3.1"}`))
	recPub := httptest.NewRecorder()
	h.PublicarAtualizacao(recPub, comSessaoDev(pub))
	require.Equal(t, http.StatusOK, recPub.Code)

	rec2 := httptest.NewRecorder()
	h.VersaoApp(rec2, httptest.NewRequest(http.MethodGet, "/app-version", nil))
	assert.Contains(t, rec2.Body.String(), "2.3.1")
}

func TestVisualVazioDevolveObjetoVazio(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	rec := httptest.NewRecorder()
	h.BuscarVisual(rec, httptest.NewRequest(http.MethodGet, "/config/visual", nil))
	assert.JSONEq(t, "{}", rec.Body.String())
}
