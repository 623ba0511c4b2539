package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIdaEVolta(t *testing.T) {
	tok, err := GerarToken("maria", "gerente", 2)
	assert.NoError(t, err)

	claims, err := ValidarToken(tok)
	assert.NoError(t, err)
	assert.Equal(t, "maria", claims.Usuario)
	assert.Equal(t, "gerente", claims.Role)
	assert.Equal(t, uint(2), claims.EmpresaID)
}

func TestValidarTokenAdulterado(t *testing.T) {
	tok, _ := GerarToken("maria", "gerente", 1)
	_, err := ValidarToken(tok + "x")
	assert.Error(t, err)
}

func TestPermitido(t *testing.T) {
	assert.True(t, Permitido(AcaoUsuariosGerir, "gerente"))
	assert.True(t, Permitido(AcaoDevSQL, "admin"))
	assert.False(t, Permitido(AcaoDevSQL, "operador"))
	assert.False(t, Permitido(AcaoConfigEditar, "admin"))
	assert.True(t, Permitido(AcaoConfigEditar, "dev"))
	assert.False(t, Permitido("acao.inexistente", "dev"))

	// gerente encerra protocolo individual mas não fecha em lote nem lê
	// protocolos de outros usuários
	assert.True(t, Permitido(AcaoChatEncerrar, "gerente"))
	assert.False(t, Permitido(AcaoChatFecharLote, "gerente"))
	assert.False(t, Permitido(AcaoChatProtocolos, "gerente"))
	assert.True(t, Permitido(AcaoChatFecharLote, "admin"))
}

func TestExigirBloqueiaRoleErrada(t *testing.T) {
	chamado := false
	h := Exigir(AcaoDevSQL, func(w http.ResponseWriter, r *http.Request) { chamado = true })

	req := httptest.NewRequest(http.MethodPost, "/dev/sql", nil)
	req = req.WithContext(ContextoComSessao(req.Context(), "joao", "operador", 1))
	w := httptest.NewRecorder()
	h(w, req)

	assert.False(t, chamado)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMiddlewareComCookie(t *testing.T) {
	tok, _ := GerarToken("ana", "admin", 3)

	var usuario string
	var empresa uint
	h := MiddlewareAutenticacao(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario = UsuarioDaRequisicao(r)
		empresa = EmpresaDaRequisicao(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/veiculos", nil)
	req.AddCookie(&http.Cookie{Name: NomeCookieSessao, Value: tok})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", usuario)
	assert.Equal(t, uint(3), empresa)
}

func TestMiddlewareSemToken(t *testing.T) {
	h := MiddlewareAutenticacao(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado")
	}))
	req := httptest.NewRequest(http.MethodGet, "/veiculos", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
