package arquivo

import (
	"fmt"
	"os"
	"time"
)

// Arquivo é o registro de um upload feito pelo painel. O conteúdo fica
// em disco; o banco guarda só os metadados.
type Arquivo struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	NomeOriginal string `gorm:"not null" json:"nome_original"`
	CaminhoSalvo string `gorm:"not null" json:"-"`
	Tamanho      int64  `json:"tamanho"`
	DataUpload   string `json:"data_upload"`
	Uploader     string `json:"uploader"`
	EmpresaID    uint   `gorm:"not null;index" json:"-"`
}

func (Arquivo) TableName() string { return "arquivos" }

// LayoutDataUpload é o carimbo exibido na listagem de arquivos.
const LayoutDataUpload = "02/01/2006 15:04"

var fusoSaoPaulo *time.Location

func init() {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.Local
	}
	fusoSaoPaulo = loc
}

// DiretorioUploads é onde os arquivos enviados ficam no disco.
func DiretorioUploads() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

// TamanhoLegivel formata bytes como B, KB ou MB com uma casa decimal.
func TamanhoLegivel(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
