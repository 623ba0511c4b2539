package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pateo-sistemas/api-estacionamento/internal/arquivo"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/cadastro"
	"github.com/pateo-sistemas/api-estacionamento/internal/chat"
	"github.com/pateo-sistemas/api-estacionamento/internal/configuracao"
	"github.com/pateo-sistemas/api-estacionamento/internal/dev"
	"github.com/pateo-sistemas/api-estacionamento/internal/empresa"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/pateo-sistemas/api-estacionamento/internal/monitor"
	"github.com/pateo-sistemas/api-estacionamento/internal/movimentacao"
	"github.com/pateo-sistemas/api-estacionamento/internal/usuario"
	utilsdb "github.com/pateo-sistemas/api-estacionamento/internal/utils/db"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()

	db, err := utilsdb.Conectar()
	if err != nil {
		logrus.WithError(err).Fatal("erro ao conectar no banco")
	}

	if err := db.AutoMigrate(
		&empresa.Empresa{},
		&usuario.Usuario{},
		&movimentacao.Movimentacao{},
		&cadastro.Cadastro{},
		&chat.Protocolo{},
		&chat.Mensagem{},
		&arquivo.Arquivo{},
		&historico.Acao{},
		&monitor.Amostra{},
		&configuracao.Configuracao{},
	); err != nil {
		logrus.WithError(err).Fatal("erro no AutoMigrate")
	}

	if err := usuario.Seed(db); err != nil {
		logrus.WithError(err).Fatal("erro ao provisionar contas iniciais")
	}

	coletor := monitor.NewColetor()
	coletor.Iniciar(context.Background(), db, monitor.IntervaloPadrao)

	// Handlers
	usuarioHandler := usuario.NewHandler(db)
	movimentacaoHandler := movimentacao.NewHandler(db)
	cadastroHandler := cadastro.NewHandler(db)
	chatHandler := chat.NewHandler(db)
	arquivoHandler := arquivo.NewHandler(db)
	historicoHandler := historico.NewHandler(db)
	monitorHandler := monitor.NewHandler(db, coletor)
	configHandler := configuracao.NewHandler(db)
	devHandler := dev.NewHandler(db)

	// Router
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/config/css", configHandler.BuscarCSS).Methods("GET")
	r.HandleFunc("/config/visual", configHandler.BuscarVisual).Methods("GET")
	r.HandleFunc("/app-version", configHandler.VersaoApp).Methods("GET")

	// Rotas autenticadas
	priv := r.NewRoute().Subrouter()
	priv.Use(auth.MiddlewareAutenticacao)

	priv.HandleFunc("/logout", usuarioHandler.Logout).Methods("GET", "POST")
	priv.HandleFunc("/me", usuarioHandler.Me).Methods("GET")

	// Pátio
	priv.HandleFunc("/entrada", movimentacaoHandler.Entrada).Methods("POST")
	priv.HandleFunc("/saida", movimentacaoHandler.Saida).Methods("POST")
	priv.HandleFunc("/veiculos", movimentacaoHandler.Veiculos).Methods("GET")
	priv.HandleFunc("/saidas", movimentacaoHandler.Saidas).Methods("GET")
	priv.HandleFunc("/reset", movimentacaoHandler.Reset).Methods("POST")
	priv.HandleFunc("/estatisticas", movimentacaoHandler.Estatisticas).Methods("GET")
	priv.HandleFunc("/relatorio/{tipo}", movimentacaoHandler.Relatorio).Methods("GET")
	priv.HandleFunc("/relatorio/{tipo}/exportar", movimentacaoHandler.ExportarRelatorio).Methods("GET")

	// Cadastros
	priv.HandleFunc("/cadastros", cadastroHandler.Criar).Methods("POST")
	priv.HandleFunc("/cadastros", cadastroHandler.Listar).Methods("GET")
	priv.HandleFunc("/cadastros/{id}", cadastroHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/cadastros/{id}", cadastroHandler.Atualizar).Methods("PUT")
	priv.HandleFunc("/cadastros/{id}", cadastroHandler.Excluir).Methods("DELETE")

	// Usuários
	priv.HandleFunc("/usuarios", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Listar)).Methods("GET")
	priv.HandleFunc("/usuarios", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Criar)).Methods("POST")
	priv.HandleFunc("/usuarios/{id}", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Atualizar)).Methods("PUT")
	priv.HandleFunc("/usuarios/{id}", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Excluir)).Methods("DELETE")
	priv.HandleFunc("/usuarios/importar", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Importar)).Methods("POST")
	priv.HandleFunc("/usuarios/exportar", auth.Exigir(auth.AcaoUsuariosGerir, usuarioHandler.Exportar)).Methods("POST")

	// Chat de suporte
	priv.HandleFunc("/chat/meu-protocolo", chatHandler.MeuProtocolo).Methods("GET")
	priv.HandleFunc("/chat/mensagens", chatHandler.EnviarMensagem).Methods("POST")
	priv.HandleFunc("/chat/historico", chatHandler.HistoricoDoUsuario).Methods("GET")
	priv.HandleFunc("/chat/ultimo-id", chatHandler.UltimoID).Methods("GET")
	priv.HandleFunc("/chat/protocolos", auth.Exigir(auth.AcaoChatProtocolos, chatHandler.Protocolos)).Methods("GET")
	priv.HandleFunc("/chat/protocolos/fechar-lote", auth.Exigir(auth.AcaoChatFecharLote, chatHandler.FecharEmLote)).Methods("POST")
	priv.HandleFunc("/chat/protocolos/{id}/mensagens", auth.Exigir(auth.AcaoChatProtocolos, chatHandler.MensagensDoProtocolo)).Methods("GET")
	priv.HandleFunc("/chat/protocolos/{id}/encerrar", auth.Exigir(auth.AcaoChatEncerrar, chatHandler.Encerrar)).Methods("POST")
	priv.HandleFunc("/chat/protocolos/{id}/avaliar", chatHandler.Avaliar).Methods("POST")

	// Arquivos
	priv.HandleFunc("/api/arquivos", arquivoHandler.Listar).Methods("GET")
	priv.HandleFunc("/api/arquivos", arquivoHandler.Upload).Methods("POST")
	priv.HandleFunc("/api/arquivos/{id}/download", arquivoHandler.Download).Methods("GET")
	priv.HandleFunc("/api/arquivos/{id}", arquivoHandler.Excluir).Methods("DELETE")

	// Histórico de ações
	priv.HandleFunc("/api/historico", auth.Exigir(auth.AcaoHistoricoVer, historicoHandler.Listar)).Methods("GET")
	priv.HandleFunc("/api/historico/usuarios", auth.Exigir(auth.AcaoHistoricoVer, historicoHandler.ListarUsuarios)).Methods("GET")
	priv.HandleFunc("/api/historico/exportar", auth.Exigir(auth.AcaoHistoricoVer, historicoHandler.Exportar)).Methods("GET")

	// Monitor
	priv.HandleFunc("/api/monitor/history", monitorHandler.HistoricoDia).Methods("GET")
	priv.HandleFunc("/api/monitor/history/clear", auth.Exigir(auth.AcaoMonitorLimpar, monitorHandler.Limpar)).Methods("POST")
	priv.HandleFunc("/api/server-status", monitorHandler.Status).Methods("GET")

	// Configuração e painel dev
	priv.HandleFunc("/config/css", auth.Exigir(auth.AcaoConfigEditar, configHandler.GravarCSS)).Methods("POST")
	priv.HandleFunc("/config/visual", auth.Exigir(auth.AcaoConfigEditar, configHandler.GravarVisual)).Methods("POST")
	priv.HandleFunc("/dev/publish-update", auth.Exigir(auth.AcaoDevPublicar, configHandler.PublicarAtualizacao)).Methods("POST")
	priv.HandleFunc("/dev/sql", auth.Exigir(auth.AcaoDevSQL, devHandler.ExecutarSQL)).Methods("POST")
	priv.HandleFunc("/dev/backup", auth.Exigir(auth.AcaoDevBackup, devHandler.Backup)).Methods("GET")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	logrus.WithField("porta", porta).Info("servidor iniciado")
	logrus.Fatal(http.ListenAndServe(":"+porta, handler))
}
