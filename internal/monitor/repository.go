package monitor

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, a *Amostra) error
	HistoricoDoDia(db *gorm.DB, dia string) ([]Amostra, error)
	Limpar(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Amostra) error {
	return db.Create(a).Error
}

// HistoricoDoDia filtra pelo prefixo de data (AAAA-MM-DD) da amostra.
func (r *repositoryImpl) HistoricoDoDia(db *gorm.DB, dia string) ([]Amostra, error) {
	var lista []Amostra
	err := db.Where("data_hora LIKE ?", dia+"%").Order("id ASC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Limpar(db *gorm.DB) (int64, error) {
	res := db.Where("1 = 1").Delete(&Amostra{})
	return res.RowsAffected, res.Error
}
