package configuracao

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Buscar(db *gorm.DB, chave string) (string, error)
	Gravar(db *gorm.DB, chave, valor string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Buscar devolve o valor da chave, ou vazio sem erro quando a chave
// nunca foi gravada.
func (r *repositoryImpl) Buscar(db *gorm.DB, chave string) (string, error) {
	var c Configuracao
	err := db.Where("chave = ?", chave).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Valor, nil
}

func (r *repositoryImpl) Gravar(db *gorm.DB, chave, valor string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor"}),
	}).Create(&Configuracao{Chave: chave, Valor: valor}).Error
}
