package cadastro

// Cadastro é o registro de pessoa/veículo no diretório da empresa.
type Cadastro struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Nome           string `json:"nome"`
	DataNascimento string `json:"data_nascimento"`
	Telefone       string `json:"telefone"`
	CEP            string `gorm:"column:cep" json:"cep"`
	Endereco       string `json:"endereco"`
	Numero         string `json:"numero"`
	Cargo          string `json:"cargo"`
	Email          string `json:"email"`
	CPF            string `gorm:"column:cpf" json:"cpf"`
	Empresa        string `json:"empresa"`
	Placa          string `json:"placa"`
	TipoVeiculo    string `json:"tipo_veiculo"`
	EmpresaID      uint   `gorm:"not null;index" json:"-"`
}

func (Cadastro) TableName() string { return "cadastros" }
