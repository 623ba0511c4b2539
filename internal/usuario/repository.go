package usuario

import (
	"strings"

	"github.com/pateo-sistemas/api-estacionamento/internal/utils"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, username, senha, role string, empresaID uint) (*Usuario, error)
	Autenticar(db *gorm.DB, username, senha string, empresaID uint) (*Usuario, error)
	Listar(db *gorm.DB, empresaID uint) ([]Usuario, error)
	Atualizar(db *gorm.DB, id uint, username, senha, role string, empresaID uint) error
	Excluir(db *gorm.DB, id, empresaID uint) error
	BuscarPorUsername(db *gorm.DB, username string, empresaID uint) (*Usuario, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, username, senha, role string, empresaID uint) (*Usuario, error) {
	var existente Usuario
	if err := db.Where("username = ? AND empresa_id = ?", username, empresaID).
		First(&existente).Error; err == nil {
		return nil, ErrDuplicado
	}

	hash, err := utils.HashSenha(senha)
	if err != nil {
		return nil, err
	}
	u := Usuario{Username: username, PasswordHash: hash, Role: role, EmpresaID: empresaID}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Autenticar devolve o mesmo erro para conta inexistente e senha errada.
func (r *repositoryImpl) Autenticar(db *gorm.DB, username, senha string, empresaID uint) (*Usuario, error) {
	var u Usuario
	if err := db.Where("username = ? AND empresa_id = ?", username, empresaID).
		First(&u).Error; err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	if !utils.VerificarSenha(u.PasswordHash, senha) {
		return nil, ErrCredenciaisInvalidas
	}
	return &u, nil
}

// Listar omite as contas provisionadas (admin e a conta do desenvolvedor).
func (r *repositoryImpl) Listar(db *gorm.DB, empresaID uint) ([]Usuario, error) {
	var lista []Usuario
	err := db.Where("empresa_id = ? AND username NOT IN ?", empresaID,
		[]string{UsernameAdmin, UsernameDev}).
		Order("username").Find(&lista).Error
	return lista, err
}

// Atualizar troca username/role e, se a senha vier preenchida, o hash.
func (r *repositoryImpl) Atualizar(db *gorm.DB, id uint, username, senha, role string, empresaID uint) error {
	var colisao Usuario
	if err := db.Where("username = ? AND id != ? AND empresa_id = ?", username, id, empresaID).
		First(&colisao).Error; err == nil {
		return ErrDuplicado
	}

	valores := map[string]interface{}{"username": username, "role": role}
	if strings.TrimSpace(senha) != "" {
		hash, err := utils.HashSenha(senha)
		if err != nil {
			return err
		}
		valores["password_hash"] = hash
	}

	res := db.Model(&Usuario{}).
		Where("id = ? AND empresa_id = ?", id, empresaID).
		Updates(valores)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

// Excluir recusa a remoção do admin principal.
func (r *repositoryImpl) Excluir(db *gorm.DB, id, empresaID uint) error {
	var alvo Usuario
	if err := db.First(&alvo, id).Error; err == nil && alvo.Username == UsernameAdmin {
		return ErrProtegido
	}
	return db.Where("id = ? AND empresa_id = ?", id, empresaID).Delete(&Usuario{}).Error
}

func (r *repositoryImpl) BuscarPorUsername(db *gorm.DB, username string, empresaID uint) (*Usuario, error) {
	var u Usuario
	err := db.Where("username = ? AND empresa_id = ?", username, empresaID).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNaoEncontrado
	}
	return &u, err
}
