package placa

import (
	"regexp"
	"strings"
)

// Padrões aceitos: placa antiga (ABC1234) e padrão Mercosul (ABC1D23).
var (
	padraoAntigo   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	padraoMercosul = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// Normalizar deixa a placa em maiúsculas e remove hífens e espaços.
func Normalizar(placa string) string {
	placa = strings.ToUpper(placa)
	placa = strings.ReplaceAll(placa, "-", "")
	placa = strings.ReplaceAll(placa, " ", "")
	return placa
}

// Valida normaliza e confere a placa contra os dois padrões vigentes.
func Valida(placa string) bool {
	p := Normalizar(placa)
	return padraoAntigo.MatchString(p) || padraoMercosul.MatchString(p)
}
