package monitor

import (
	"context"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IntervaloPadrao entre amostras de performance.
const IntervaloPadrao = 5 * time.Minute

// timeoutPing curto para a consulta de status não travar atrás de uma
// rede lenta.
const timeoutPing = 3 * time.Second

// Coletor guarda o estado de vida do processo usado pelo status:
// instante de partida e os últimos contadores de rede, para calcular
// vazão por diferença entre duas leituras.
type Coletor struct {
	Repository Repository

	inicio time.Time

	mu          sync.Mutex
	ultimoNet   gopsnet.IOCountersStat
	ultimoNetEm time.Time
}

func NewColetor() *Coletor {
	c := &Coletor{
		Repository: NewRepository(),
		inicio:     time.Now(),
	}
	if contadores, err := gopsnet.IOCounters(false); err == nil && len(contadores) > 0 {
		c.ultimoNet = contadores[0]
		c.ultimoNetEm = time.Now()
	}
	return c
}

// Iniciar dispara a coleta periódica em segundo plano. Falhas de uma
// amostra são registradas e a próxima segue normalmente.
func (c *Coletor) Iniciar(ctx context.Context, db *gorm.DB, intervalo time.Duration) {
	if intervalo <= 0 {
		intervalo = IntervaloPadrao
	}
	go func() {
		ticker := time.NewTicker(intervalo)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.coletar(db); err != nil {
					logrus.WithError(err).Warn("falha ao coletar amostra de performance")
				}
			}
		}
	}()
}

func (c *Coletor) coletar(db *gorm.DB) error {
	a := &Amostra{
		DataHora:   agoraFormatado(),
		CPUUsage:   percentualCPU(),
		RAMUsage:   percentualRAM(),
		DiskUsage:  percentualDisco(),
		PingLocal:  medirPing(urlPingLocal()),
		PingRemoto: medirPing(urlPingRemoto()),
	}
	return c.Repository.Salvar(db, a)
}

func percentualCPU() float64 {
	valores, err := cpu.Percent(time.Second, false)
	if err != nil || len(valores) == 0 {
		return 0
	}
	return valores[0]
}

func percentualRAM() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.UsedPercent
}

func percentualDisco() float64 {
	uso, err := disk.Usage("/")
	if err != nil {
		return 0
	}
	return uso.UsedPercent
}

func urlPingLocal() string {
	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}
	return "http://127.0.0.1:" + porta + "/app-version"
}

func urlPingRemoto() string {
	if url := os.Getenv("PING_URL"); url != "" {
		return url
	}
	return "https://www.google.com"
}

// medirPing mede o tempo de um GET; devolve -1 quando o destino não
// responde dentro do timeout.
func medirPing(url string) float64 {
	cliente := http.Client{Timeout: timeoutPing}
	inicio := time.Now()
	resp, err := cliente.Get(url)
	if err != nil {
		return -1
	}
	resp.Body.Close()
	return float64(time.Since(inicio).Milliseconds())
}

// Uptime desde a partida do processo.
func (c *Coletor) Uptime() time.Duration {
	return time.Since(c.inicio)
}

// VazaoRede calcula KB/s de envio e recebimento pela diferença entre a
// leitura atual e a anterior, e avança o estado para a próxima chamada.
func (c *Coletor) VazaoRede() (uploadKBs, downloadKBs float64) {
	contadores, err := gopsnet.IOCounters(false)
	if err != nil || len(contadores) == 0 {
		return 0, 0
	}
	agora := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	atual := contadores[0]
	if !c.ultimoNetEm.IsZero() {
		segundos := agora.Sub(c.ultimoNetEm).Seconds()
		uploadKBs = vazaoKBs(atual.BytesSent, c.ultimoNet.BytesSent, segundos)
		downloadKBs = vazaoKBs(atual.BytesRecv, c.ultimoNet.BytesRecv, segundos)
	}
	c.ultimoNet = atual
	c.ultimoNetEm = agora
	return uploadKBs, downloadKBs
}

// vazaoKBs converte a diferença entre duas leituras de contador em KB/s.
// Contador que andou para trás (interface reiniciada zera os bytes) só
// rebaseia a medição em vez de estourar o unsigned.
func vazaoKBs(atual, anterior uint64, segundos float64) float64 {
	if segundos <= 0 || atual < anterior {
		return 0
	}
	return float64(atual-anterior) / 1024 / segundos
}

type processoTop struct {
	Nome       string  `json:"nome"`
	MemPercent float64 `json:"mem_percent"`
}

// topProcessos lista os cinco processos que mais usam memória.
func topProcessos() []processoTop {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	lista := make([]processoTop, 0, len(procs))
	for _, p := range procs {
		pct, err := p.MemoryPercent()
		if err != nil {
			continue
		}
		nome, err := p.Name()
		if err != nil {
			continue
		}
		lista = append(lista, processoTop{Nome: nome, MemPercent: float64(pct)})
	}

	sort.Slice(lista, func(i, j int) bool { return lista[i].MemPercent > lista[j].MemPercent })
	if len(lista) > 5 {
		lista = lista[:5]
	}
	return lista
}
