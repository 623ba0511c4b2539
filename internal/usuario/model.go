package usuario

// Usuario é uma conta de login. Username é único dentro da empresa.
// Roles reconhecidas: operador, gerente, admin, dev, vigilante.
type Usuario struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"not null;uniqueIndex:idx_usuario_empresa" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:operador" json:"role"`
	EmpresaID    uint   `gorm:"not null;uniqueIndex:idx_usuario_empresa" json:"-"`
}

func (Usuario) TableName() string { return "usuarios" }
