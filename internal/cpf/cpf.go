package cpf

import (
	"strings"
	"unicode"
)

// Normalizar remove tudo que não for dígito.
func Normalizar(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valido confere os dois dígitos verificadores do CPF.
// Sequências com todos os dígitos iguais (ex: 111.111.111-11) são inválidas
// mesmo tendo checksum correto.
func Valido(cpf string) bool {
	c := Normalizar(cpf)
	if len(c) != 11 {
		return false
	}

	iguais := true
	for i := 1; i < len(c); i++ {
		if c[i] != c[0] {
			iguais = false
			break
		}
	}
	if iguais {
		return false
	}

	if digitoVerificador(c[:9]) != int(c[9]-'0') {
		return false
	}
	return digitoVerificador(c[:10]) == int(c[10]-'0')
}

// Soma ponderada módulo 11: peso começa em len+1 e desce até 2.
func digitoVerificador(prefixo string) int {
	soma := 0
	peso := len(prefixo) + 1
	for i := 0; i < len(prefixo); i++ {
		soma += int(prefixo[i]-'0') * peso
		peso--
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

// Pronomes de tratamento descartados do nome do responsável.
var honorificos = map[string]bool{
	"sr": true, "sra": true, "srta": true, "dr": true, "dra": true,
}

// NormalizarNome limpa o nome do responsável: mantém apenas letras e
// espaços, descarta pronome de tratamento inicial e deixa cada palavra
// com a primeira letra maiúscula.
func NormalizarNome(nome string) string {
	var b strings.Builder
	for _, r := range nome {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	palavras := strings.Fields(b.String())
	if len(palavras) > 1 && honorificos[strings.ToLower(palavras[0])] {
		palavras = palavras[1:]
	}

	for i, p := range palavras {
		runes := []rune(strings.ToLower(p))
		runes[0] = unicode.ToUpper(runes[0])
		palavras[i] = string(runes)
	}
	return strings.Join(palavras, " ")
}
