package configuracao

// Configuracao é um par chave/valor de ajustes do sistema (CSS custom,
// preferências visuais, versão publicada do app).
type Configuracao struct {
	Chave string `gorm:"primaryKey" json:"chave"`
	Valor string `json:"valor"`
}

func (Configuracao) TableName() string { return "configuracoes" }

// Chaves conhecidas.
const (
	ChaveCSS       = "css_custom"
	ChaveVisual    = "config_visual"
	ChaveVersaoApp = "app_version"
)

// VersaoPadrao devolvida enquanto nenhuma publicação foi feita.
const VersaoPadrao = "1.0.0"
