package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comSessao(r *http.Request, usuario, role string) *http.Request {
	return r.WithContext(auth.ContextoComSessao(r.Context(), usuario, role, 1))
}

func TestMensagensDeOutroUsuarioExigemSuporte(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&historico.Acao{}))
	h := NewHandler(db)

	_, err := h.Repository.EnviarMensagem(db, "carla", "meu carro sumiu do painel", 1, 0)
	require.NoError(t, err)

	gated := auth.Exigir(auth.AcaoChatProtocolos, h.MensagensDoProtocolo)

	// operador do mesmo tenant não lê a conversa de outro usuário
	req := httptest.NewRequest(http.MethodGet, "/chat/protocolos/1/mensagens", nil)
	req = mux.SetURLVars(comSessao(req, "joao", "operador"), map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	gated(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "meu carro sumiu")

	// o suporte lê
	req = httptest.NewRequest(http.MethodGet, "/chat/protocolos/1/mensagens", nil)
	req = mux.SetURLVars(comSessao(req, "dev@sistema", "dev"), map[string]string{"id": "1"})
	rec = httptest.NewRecorder()
	gated(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meu carro sumiu")
}

func TestGerenteEncerraMasNaoFechaEmLote(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&historico.Acao{}))
	h := NewHandler(db)

	id, err := h.Repository.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)

	encerrar := auth.Exigir(auth.AcaoChatEncerrar, h.Encerrar)
	req := httptest.NewRequest(http.MethodPost, "/chat/protocolos/1/encerrar", nil)
	req = mux.SetURLVars(comSessao(req, "beto", "gerente"), map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	encerrar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	p, err := h.Repository.BuscarProtocolo(db, id, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusAvaliando, p.Status)

	lote := auth.Exigir(auth.AcaoChatFecharLote, h.FecharEmLote)
	req = httptest.NewRequest(http.MethodPost, "/chat/protocolos/fechar-lote",
		strings.NewReader(`{"ids": [1]}`))
	rec = httptest.NewRecorder()
	lote(rec, comSessao(req, "beto", "gerente"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// o protocolo continua em avaliação
	p, err = h.Repository.BuscarProtocolo(db, id, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusAvaliando, p.Status)
}
