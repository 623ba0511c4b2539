package usuario

import (
	"os"

	"github.com/pateo-sistemas/api-estacionamento/internal/empresa"
	"github.com/pateo-sistemas/api-estacionamento/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Contas provisionadas automaticamente. As duas primeiras ficam fora das
// listagens; a terceira tem a senha reimposta a cada boot para o login
// nunca se perder entre atualizações.
const (
	UsernameAdmin = "admin"
	UsernameDev   = "dev@sistema"
	usernameFixo  = "rother"
	senhaFixa     = "784512"
)

// Seed garante empresa padrão e contas iniciais. Idempotente: roda em
// todo boot.
func Seed(db *gorm.DB) error {
	if err := empresa.NewRepository().GarantirPadrao(db); err != nil {
		return err
	}

	if err := garantirConta(db, UsernameAdmin, senhaInicial("ADMIN_PASSWORD", "admin"), "admin"); err != nil {
		return err
	}
	if err := garantirConta(db, UsernameDev, senhaInicial("DEV_PASSWORD", "trocar-dev-123"), "dev"); err != nil {
		return err
	}

	// Conta fixa: sempre sobrescreve a senha, criando se não existir.
	hash, err := utils.HashSenha(senhaFixa)
	if err != nil {
		return err
	}
	var fixo Usuario
	err = db.Where("username = ? AND empresa_id = ?", usernameFixo, empresa.EmpresaPadraoID).
		First(&fixo).Error
	switch err {
	case nil:
		err = db.Model(&fixo).Updates(map[string]interface{}{
			"password_hash": hash,
			"role":          "operador",
		}).Error
	case gorm.ErrRecordNotFound:
		err = db.Create(&Usuario{
			Username:     usernameFixo,
			PasswordHash: hash,
			Role:         "operador",
			EmpresaID:    empresa.EmpresaPadraoID,
		}).Error
	}
	if err != nil {
		return err
	}

	// Reescreve o CSV de backup para manter a planilha em sincronia.
	if err := ExportarCSV(db); err != nil {
		logrus.WithError(err).Warn("falha ao exportar backup CSV de usuários")
	}
	return nil
}

func garantirConta(db *gorm.DB, username, senha, role string) error {
	var u Usuario
	err := db.Where("username = ? AND empresa_id = ?", username, empresa.EmpresaPadraoID).
		First(&u).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	hash, err := utils.HashSenha(senha)
	if err != nil {
		return err
	}
	return db.Create(&Usuario{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		EmpresaID:    empresa.EmpresaPadraoID,
	}).Error
}

func senhaInicial(envVar, padrao string) string {
	if s := os.Getenv(envVar); s != "" {
		return s
	}
	return padrao
}
