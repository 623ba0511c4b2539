package historico

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Repository interface {
	Registrar(db *gorm.DB, usuario, acao, detalhes string, empresaID uint)
	Listar(db *gorm.DB, empresaID uint, usuario string) ([]Acao, error)
	ListarUsuarios(db *gorm.DB, empresaID uint) ([]string, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Registrar grava a ação em melhor esforço: falha de auditoria nunca pode
// derrubar a operação que a disparou, então o erro é só logado.
func (r *repositoryImpl) Registrar(db *gorm.DB, usuario, acao, detalhes string, empresaID uint) {
	linha := Acao{
		Usuario:   usuario,
		Acao:      acao,
		Detalhes:  detalhes,
		DataHora:  time.Now().Format(LayoutDataHora),
		EmpresaID: empresaID,
	}
	if err := db.Create(&linha).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"usuario": usuario,
			"acao":    acao,
		}).Warn("falha ao salvar histórico de ações")
	}
}

// Listar devolve as últimas 100 ações da empresa, mais recentes primeiro,
// com filtro opcional por usuário.
func (r *repositoryImpl) Listar(db *gorm.DB, empresaID uint, usuario string) ([]Acao, error) {
	var acoes []Acao
	q := db.Where("empresa_id = ?", empresaID)
	if usuario != "" {
		q = q.Where("usuario = ?", usuario)
	}
	err := q.Order("id DESC").Limit(100).Find(&acoes).Error
	return acoes, err
}

// ListarUsuarios devolve os usuários distintos com registros no histórico.
func (r *repositoryImpl) ListarUsuarios(db *gorm.DB, empresaID uint) ([]string, error) {
	var usuarios []string
	err := db.Model(&Acao{}).
		Where("empresa_id = ?", empresaID).
		Distinct("usuario").
		Order("usuario ASC").
		Pluck("usuario", &usuarios).Error
	return usuarios, err
}
