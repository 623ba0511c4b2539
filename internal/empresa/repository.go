package empresa

import "gorm.io/gorm"

type Repository interface {
	BuscarPorCNPJ(db *gorm.DB, cnpj string) (*Empresa, error)
	BuscarPorID(db *gorm.DB, id uint) (*Empresa, error)
	GarantirPadrao(db *gorm.DB) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorCNPJ(db *gorm.DB, cnpj string) (*Empresa, error) {
	var e Empresa
	err := db.Where("cnpj = ?", cnpj).First(&e).Error
	return &e, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Empresa, error) {
	var e Empresa
	err := db.First(&e, id).Error
	return &e, err
}

// GarantirPadrao cria a empresa padrão (ID 1) se ela ainda não existir.
func (r *repositoryImpl) GarantirPadrao(db *gorm.DB) error {
	var e Empresa
	err := db.First(&e, EmpresaPadraoID).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	padrao := Empresa{NomeEmpresa: "Empresa Padrão", CNPJ: "00000000000000"}
	padrao.ID = EmpresaPadraoID
	return db.Create(&padrao).Error
}
