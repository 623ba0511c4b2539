package empresa

import "gorm.io/gorm"

// Empresa é o tenant: toda tabela de dados carrega o EmpresaID dela.
type Empresa struct {
	gorm.Model
	NomeEmpresa string `gorm:"not null" json:"nomeEmpresa"`
	CNPJ        string `gorm:"unique;not null" json:"cnpj"`
}

// EmpresaPadraoID é o tenant seed usado pelas contas admin/dev.
const EmpresaPadraoID uint = 1
