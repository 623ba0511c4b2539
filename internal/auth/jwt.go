package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims da sessão: quem é o usuário, o papel dele e a empresa (tenant).
type Claims struct {
	Usuario   string `json:"usuario"`
	Role      string `json:"role"`
	EmpresaID uint   `json:"empresaId"`
	jwt.RegisteredClaims
}

// Tempo de vida da sessão
const SessaoTTL = 24 * time.Hour

func segredo() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		// chave padrão apenas para desenvolvimento local
		s = "chave-padrao-desenvolvimento-123"
	}
	return []byte(s)
}

// GerarToken gera um JWT HS256 com validade de 24h.
func GerarToken(usuario, role string, empresaID uint) (string, error) {
	claims := &Claims{
		Usuario:   usuario,
		Role:      role,
		EmpresaID: empresaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usuario,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessaoTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(segredo())
}

// ValidarToken valida o token e retorna as claims.
func ValidarToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return segredo(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("não foi possível extrair claims")
	}
	return claims, nil
}
