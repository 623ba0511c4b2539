package historico

// Acao é uma linha de auditoria: quem fez o quê, quando, em qual empresa.
type Acao struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Usuario   string `json:"usuario"`
	Acao      string `json:"acao"`
	Detalhes  string `json:"detalhes"`
	DataHora  string `json:"data_hora"`
	EmpresaID uint   `gorm:"index" json:"-"`
}

func (Acao) TableName() string { return "historico_acoes" }

// LayoutDataHora é o formato salvo em DataHora.
const LayoutDataHora = "02/01/2006 15:04:05"
