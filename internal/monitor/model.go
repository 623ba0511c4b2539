package monitor

import "time"

// Amostra é uma medição periódica de saúde do servidor. Diferente do
// resto do sistema, é global: não pertence a nenhuma empresa.
type Amostra struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	DataHora   string  `gorm:"not null;index" json:"data_hora"`
	CPUUsage   float64 `json:"cpu_usage"`
	RAMUsage   float64 `json:"ram_usage"`
	DiskUsage  float64 `json:"disk_usage"`
	PingLocal  float64 `json:"ping_local_ms"`
	PingRemoto float64 `json:"ping_remoto_ms"`
}

func (Amostra) TableName() string { return "historico_performance" }

// LayoutDataHora das amostras; o prefixo AAAA-MM-DD permite filtrar
// por dia com LIKE.
const LayoutDataHora = "2006-01-02T15:04:05-07:00"

func agoraFormatado() string {
	return time.Now().Format(LayoutDataHora)
}
