package db

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CaminhoSQLitePadrao é o arquivo usado quando DATABASE_URL não está definida.
const CaminhoSQLitePadrao = "estacionamento.db"

// Conectar abre o banco. Por padrão usa o arquivo SQLite local; se
// DATABASE_URL estiver definida, conecta no Postgres indicado.
func Conectar() (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	caminho := os.Getenv("DATABASE_PATH")
	if caminho == "" {
		caminho = CaminhoSQLitePadrao
	}
	return gorm.Open(sqlite.Open(caminho), cfg)
}

// CaminhoBanco devolve o caminho do arquivo SQLite em uso, ou vazio quando
// o banco é Postgres (sem arquivo local para medir).
func CaminhoBanco() string {
	if os.Getenv("DATABASE_URL") != "" {
		return ""
	}
	if caminho := os.Getenv("DATABASE_PATH"); caminho != "" {
		return caminho
	}
	return CaminhoSQLitePadrao
}
