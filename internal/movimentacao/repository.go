package movimentacao

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	RegistrarEntrada(db *gorm.DB, m *Movimentacao) error
	RegistrarSaida(db *gorm.DB, placa string, empresaID uint) error
	ListarPatio(db *gorm.DB, empresaID uint) ([]Movimentacao, error)
	ListarSaidas(db *gorm.DB, empresaID uint) ([]Movimentacao, error)
	Resetar(db *gorm.DB, empresaID uint) error
	Estatisticas(db *gorm.DB, empresaID uint) (*Estatisticas, error)
	ListarPorEntradaLike(db *gorm.DB, empresaID uint, like string) ([]Movimentacao, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// RegistrarEntrada insere um movimento aberto. A verificação de "já está
// no pátio" responde o caso comum; se duas entradas concorrentes passarem
// pela verificação, o índice único parcial barra a segunda e o conflito
// vira ErrJaEstacionado do mesmo jeito.
func (r *repositoryImpl) RegistrarEntrada(db *gorm.DB, m *Movimentacao) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var existente Movimentacao
		err := tx.Where("placa = ? AND saida IS NULL AND empresa_id = ?", m.Placa, m.EmpresaID).
			First(&existente).Error
		if err == nil {
			return ErrJaEstacionado
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if m.Entrada == "" {
			m.Entrada = time.Now().Format(LayoutMovimento)
		}
		return tx.Create(m).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrJaEstacionado
	}
	return err
}

// RegistrarSaida fecha o movimento aberto da placa carimbando a hora de saída.
func (r *repositoryImpl) RegistrarSaida(db *gorm.DB, placa string, empresaID uint) error {
	saida := time.Now().Format(LayoutMovimento)
	res := db.Model(&Movimentacao{}).
		Where("placa = ? AND saida IS NULL AND empresa_id = ?", placa, empresaID).
		Update("saida", saida)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

func (r *repositoryImpl) ListarPatio(db *gorm.DB, empresaID uint) ([]Movimentacao, error) {
	var lista []Movimentacao
	err := db.Where("saida IS NULL AND empresa_id = ?", empresaID).Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarSaidas(db *gorm.DB, empresaID uint) ([]Movimentacao, error) {
	var lista []Movimentacao
	err := db.Where("saida IS NOT NULL AND empresa_id = ?", empresaID).
		Order("id DESC").Find(&lista).Error
	return lista, err
}

// Resetar apaga todos os movimentos da empresa. Irreversível.
func (r *repositoryImpl) Resetar(db *gorm.DB, empresaID uint) error {
	return db.Where("empresa_id = ?", empresaID).Delete(&Movimentacao{}).Error
}

// Estatisticas percorre os movimentos da empresa uma única vez.
// Timestamps que não parseiam são ignorados nos contadores de pendentes e
// sairam_hoje, mas continuam contando em no_patio/visitantes.
func (r *repositoryImpl) Estatisticas(db *gorm.DB, empresaID uint) (*Estatisticas, error) {
	var todos []Movimentacao
	if err := db.Where("empresa_id = ?", empresaID).Find(&todos).Error; err != nil {
		return nil, err
	}

	agora := time.Now()
	hoje := agora.Format("02-01-2006")
	est := &Estatisticas{}

	for _, m := range todos {
		if m.Saida == nil {
			est.NoPatio++

			if strings.EqualFold(strings.TrimSpace(m.Tipo), "visitante") {
				est.Visitantes++
			}

			entrada, err := time.ParseInLocation(LayoutMovimento, m.Entrada, time.Local)
			if err == nil && agora.Sub(entrada) > 24*time.Hour {
				est.Pendentes++
			}
		} else {
			saida, err := time.ParseInLocation(LayoutMovimento, *m.Saida, time.Local)
			if err == nil && saida.Format("02-01-2006") == hoje {
				est.SairamHoje++
			}
		}
	}
	return est, nil
}

// ListarPorEntradaLike alimenta os relatórios diário/mensal: casa a coluna
// Entrada com um padrão LIKE ("25-12-2025%" para o dia, "%-12-2025%" para o mês).
func (r *repositoryImpl) ListarPorEntradaLike(db *gorm.DB, empresaID uint, like string) ([]Movimentacao, error) {
	var lista []Movimentacao
	err := db.Where("empresa_id = ? AND entrada LIKE ?", empresaID, like).Find(&lista).Error
	return lista, err
}
