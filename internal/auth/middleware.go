package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUsuario   ctxKey = "usuario"
	CtxRole      ctxKey = "role"
	CtxEmpresaID ctxKey = "empresaID"
)

// NomeCookieSessao é o cookie HttpOnly que carrega o token de sessão.
const NomeCookieSessao = "sessao"

// MiddlewareAutenticacao aceita o token via cookie de sessão ou header
// Authorization: Bearer e injeta usuário, role e empresa no contexto.
func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		raw := ""
		if c, err := r.Cookie(NomeCookieSessao); err == nil {
			raw = c.Value
		}
		if raw == "" {
			h := r.Header.Get("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if raw == "" {
			http.Error(w, "Você precisa estar logado para realizar esta ação.", http.StatusUnauthorized)
			return
		}

		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Sessão inválida ou expirada.", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), CtxUsuario, claims.Usuario)
		ctx = context.WithValue(ctx, CtxRole, claims.Role)
		ctx = context.WithValue(ctx, CtxEmpresaID, claims.EmpresaID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsuarioDaRequisicao lê o usuário logado do contexto.
func UsuarioDaRequisicao(r *http.Request) string {
	u, _ := r.Context().Value(CtxUsuario).(string)
	return u
}

// RoleDaRequisicao lê o papel do usuário logado do contexto.
func RoleDaRequisicao(r *http.Request) string {
	role, _ := r.Context().Value(CtxRole).(string)
	return role
}

// EmpresaDaRequisicao lê a empresa (tenant) do contexto.
func EmpresaDaRequisicao(r *http.Request) uint {
	id, _ := r.Context().Value(CtxEmpresaID).(uint)
	return id
}

// ContextoComSessao monta um contexto autenticado; usado nos testes de handler.
func ContextoComSessao(ctx context.Context, usuario, role string, empresaID uint) context.Context {
	ctx = context.WithValue(ctx, CtxUsuario, usuario)
	ctx = context.WithValue(ctx, CtxRole, role)
	return context.WithValue(ctx, CtxEmpresaID, empresaID)
}
