package movimentacao

import "errors"

var (
	// ErrJaEstacionado indica que já existe movimento aberto para a placa.
	ErrJaEstacionado = errors.New("veículo já está no estacionamento")
	// ErrNaoEncontrado indica que nenhum movimento aberto casou com a placa.
	ErrNaoEncontrado = errors.New("veículo não encontrado")
)
