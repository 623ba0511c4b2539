package chat

import "time"

// Status de um protocolo de atendimento. Fluxo: aberto → avaliando →
// fechado, com atalho aberto → fechado pelo encerramento em lote.
// Não existe transição para fora de fechado.
const (
	StatusAberto    = "aberto"
	StatusAvaliando = "avaliando"
	StatusFechado   = "fechado"
)

// Protocolo é a conversa/ticket entre um usuário cliente e o suporte.
// Um usuário tem no máximo um protocolo em aberto/avaliando por vez; o
// índice único parcial faz o banco garantir isso sob concorrência.
type Protocolo struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UsuarioCliente string `gorm:"not null;uniqueIndex:idx_protocolos_ativos,where:status <> 'fechado'" json:"usuario_cliente"`
	Assunto        string `json:"assunto"`
	DataInicio     string `gorm:"not null" json:"data_inicio"`
	Status         string `gorm:"not null;default:aberto" json:"status"`
	EmpresaID      uint   `gorm:"not null;index;uniqueIndex:idx_protocolos_ativos" json:"-"`
}

func (Protocolo) TableName() string { return "chat_protocolos" }

// Mensagem é uma linha de conversa dentro de um protocolo.
type Mensagem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProtocoloID uint   `gorm:"not null;index" json:"protocolo_id"`
	Usuario     string `gorm:"not null" json:"usuario"`
	Texto       string `gorm:"not null" json:"texto"`
	DataHora    string `gorm:"not null" json:"data_hora"`
	EmpresaID   uint   `gorm:"not null;index" json:"-"`
}

func (Mensagem) TableName() string { return "chat_mensagens" }

// LayoutDataHora é o carimbo curto exibido no chat.
const LayoutDataHora = "02/01 15:04"

var fusoSaoPaulo *time.Location

func init() {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.Local
	}
	fusoSaoPaulo = loc
}

func agoraFormatado() string {
	return time.Now().In(fusoSaoPaulo).Format(LayoutDataHora)
}
