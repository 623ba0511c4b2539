package movimentacao

// Movimentacao é uma estadia de veículo no pátio: criada na entrada,
// alterada uma única vez na saída (Saida deixa de ser nula), nunca
// apagada individualmente — só pelo reset da empresa.
// O índice único parcial garante no banco a invariante de no máximo um
// movimento aberto por placa e empresa, mesmo com entradas concorrentes.
type Movimentacao struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Placa          string  `gorm:"not null;index;uniqueIndex:idx_movimentacoes_abertas,where:saida IS NULL" json:"placa"`
	Tipo           string  `gorm:"not null" json:"tipo"`
	Entrada        string  `gorm:"not null" json:"entrada"`
	Saida          *string `json:"saida"`
	Responsavel    string  `json:"responsavel"`
	CPFResponsavel string  `gorm:"column:cpf_responsavel" json:"cpf_responsavel"`
	EmpresaID      uint    `gorm:"not null;index;uniqueIndex:idx_movimentacoes_abertas" json:"-"`
}

func (Movimentacao) TableName() string { return "movimentacoes" }

// LayoutMovimento é o formato das colunas Entrada/Saida.
const LayoutMovimento = "02-01-2006 15:04:05"

// Estatisticas são os contadores exibidos no painel.
type Estatisticas struct {
	NoPatio    int `json:"no_patio"`
	SairamHoje int `json:"sairam_hoje"`
	Visitantes int `json:"visitantes"`
	Pendentes  int `json:"pendentes"`
}
