package arquivo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNaoEncontrado = errors.New("arquivo não encontrado")

type Repository interface {
	Salvar(db *gorm.DB, a *Arquivo) error
	Listar(db *gorm.DB, empresaID uint) ([]Arquivo, error)
	BuscarPorID(db *gorm.DB, id, empresaID uint) (*Arquivo, error)
	Excluir(db *gorm.DB, id, empresaID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Arquivo) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, empresaID uint) ([]Arquivo, error) {
	var lista []Arquivo
	err := db.Where("empresa_id = ?", empresaID).Order("id DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id, empresaID uint) (*Arquivo, error) {
	var a Arquivo
	err := db.Where("id = ? AND empresa_id = ?", id, empresaID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) Excluir(db *gorm.DB, id, empresaID uint) error {
	res := db.Where("id = ? AND empresa_id = ?", id, empresaID).Delete(&Arquivo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}
