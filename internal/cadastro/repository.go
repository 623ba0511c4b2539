package cadastro

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNaoEncontrado indica que nenhum cadastro casou com id+empresa.
var ErrNaoEncontrado = errors.New("cadastro não encontrado")

type Repository interface {
	Criar(db *gorm.DB, c *Cadastro) error
	Listar(db *gorm.DB, empresaID uint, busca string) ([]Cadastro, error)
	BuscarPorID(db *gorm.DB, id, empresaID uint) (*Cadastro, error)
	Atualizar(db *gorm.DB, id, empresaID uint, novosDados *Cadastro) error
	Excluir(db *gorm.DB, id, empresaID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Cadastro) error {
	return db.Create(c).Error
}

// Listar devolve os cadastros da empresa ordenados por nome; com busca,
// filtra por substring (case-insensitive) de nome ou placa.
func (r *repositoryImpl) Listar(db *gorm.DB, empresaID uint, busca string) ([]Cadastro, error) {
	var lista []Cadastro
	q := db.Where("empresa_id = ?", empresaID)
	if busca != "" {
		// LOWER dos dois lados: o LIKE do Postgres é case-sensitive,
		// diferente do SQLite
		padrao := "%" + busca + "%"
		q = q.Where("LOWER(nome) LIKE LOWER(?) OR LOWER(placa) LIKE LOWER(?)", padrao, padrao)
	}
	err := q.Order("nome").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id, empresaID uint) (*Cadastro, error) {
	var c Cadastro
	err := db.Where("id = ? AND empresa_id = ?", id, empresaID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNaoEncontrado
	}
	return &c, err
}

// Atualizar substitui a linha inteira pelo payload novo.
func (r *repositoryImpl) Atualizar(db *gorm.DB, id, empresaID uint, novosDados *Cadastro) error {
	res := db.Model(&Cadastro{}).
		Where("id = ? AND empresa_id = ?", id, empresaID).
		Select("Nome", "DataNascimento", "Telefone", "CEP", "Endereco", "Numero",
			"Cargo", "Email", "CPF", "Empresa", "Placa", "TipoVeiculo").
		Updates(novosDados)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

func (r *repositoryImpl) Excluir(db *gorm.DB, id, empresaID uint) error {
	res := db.Where("id = ? AND empresa_id = ?", id, empresaID).Delete(&Cadastro{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}
