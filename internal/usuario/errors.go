package usuario

import "errors"

var (
	// ErrDuplicado indica colisão de username dentro da empresa.
	ErrDuplicado = errors.New("nome de usuário já existe nesta empresa")
	// ErrNaoEncontrado indica que nenhuma conta casou com id+empresa.
	ErrNaoEncontrado = errors.New("usuário não encontrado")
	// ErrProtegido indica tentativa de excluir o superusuário admin.
	ErrProtegido = errors.New("não é possível excluir o superusuário admin")
	// ErrCredenciaisInvalidas cobre tanto conta inexistente quanto senha
	// errada, para a resposta não revelar qual dos dois.
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
)
