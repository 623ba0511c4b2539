package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	utilsdb "github.com/pateo-sistemas/api-estacionamento/internal/utils/db"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Coletor    *Coletor
	Historico  historico.Repository
}

func NewHandler(db *gorm.DB, coletor *Coletor) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Coletor:    coletor,
		Historico:  historico.NewRepository(),
	}
}

// GET /api/monitor/history?data=AAAA-MM-DD (sem data, usa o dia de hoje)
func (h *Handler) HistoricoDia(w http.ResponseWriter, r *http.Request) {
	dia := r.URL.Query().Get("data")
	if dia == "" {
		dia = time.Now().Format("2006-01-02")
	}

	lista, err := h.Repository.HistoricoDoDia(h.DB, dia)
	if err != nil {
		http.Error(w, "Erro ao consultar histórico de performance", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// POST /api/monitor/history/clear
func (h *Handler) Limpar(w http.ResponseWriter, r *http.Request) {
	total, err := h.Repository.Limpar(h.DB)
	if err != nil {
		http.Error(w, "Erro ao limpar histórico", http.StatusInternalServerError)
		return
	}

	h.Historico.Registrar(h.DB, auth.UsuarioDaRequisicao(r), "LIMPAR MONITOR",
		fmt.Sprintf("%d amostras removidas", total), auth.EmpresaDaRequisicao(r))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": fmt.Sprintf("%d amostras removidas.", total),
	})
}

// GET /api/server-status — fotografia da saúde do servidor.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	upload, download := h.Coletor.VazaoRede()

	var tamanhoBanco int64
	if caminho := utilsdb.CaminhoBanco(); caminho != "" {
		if info, err := os.Stat(caminho); err == nil {
			tamanhoBanco = info.Size()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"uptime_segundos": int64(h.Coletor.Uptime().Seconds()),
		"banco_bytes":     tamanhoBanco,
		"cpu_percent":     percentualCPU(),
		"ram_percent":     percentualRAM(),
		"disco_percent":   percentualDisco(),
		"ping_local_ms":   medirPing(urlPingLocal()),
		"ping_remoto_ms":  medirPing(urlPingRemoto()),
		"upload_kb_s":     upload,
		"download_kb_s":   download,
		"top_processos":   topProcessos(),
	})
}
