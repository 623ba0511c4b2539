package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Protocolo{}, &Mensagem{}))
	return db
}

func TestIndiceImpedeSegundoProtocoloAtivo(t *testing.T) {
	db := setupTestDB(t)

	primeiro := Protocolo{UsuarioCliente: "carla", Assunto: "a", DataInicio: "01/01 10:00", Status: StatusAberto, EmpresaID: 1}
	require.NoError(t, db.Create(&primeiro).Error)

	// insert direto, sem passar pelo find-or-create: o banco barra
	dup := Protocolo{UsuarioCliente: "carla", Assunto: "b", DataInicio: "01/01 10:00", Status: StatusAberto, EmpresaID: 1}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)

	// protocolos fechados não contam para o índice
	require.NoError(t, db.Model(&primeiro).Update("status", StatusFechado).Error)
	depois := Protocolo{UsuarioCliente: "carla", Assunto: "c", DataInicio: "01/01 11:00", Status: StatusAberto, EmpresaID: 1}
	assert.NoError(t, db.Create(&depois).Error)
}

func TestEnviarMensagemReaproveitaProtocoloAberto(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	p1, err := repo.EnviarMensagem(db, "carla", "primeira mensagem", 1, 0)
	require.NoError(t, err)
	p2, err := repo.EnviarMensagem(db, "carla", "segunda mensagem", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	var total int64
	db.Model(&Protocolo{}).Count(&total)
	assert.Equal(t, int64(1), total)

	msgs, err := repo.Mensagens(db, p1, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "primeira mensagem", msgs[0].Texto)
	assert.Equal(t, "segunda mensagem", msgs[1].Texto)
}

func TestEnviarMensagemCriaNovoProtocoloAposFechado(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	p1, err := repo.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)
	require.NoError(t, repo.AtualizarStatus(db, p1, StatusFechado, 1))

	p2, err := repo.EnviarMensagem(db, "carla", "outro problema", 1, 0)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestEnviarMensagemEmProtocoloFechadoEhAceita(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	p, err := repo.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)
	require.NoError(t, repo.AtualizarStatus(db, p, StatusFechado, 1))

	// resposta tardia do suporte vai para o protocolo fechado mesmo
	mesmo, err := repo.EnviarMensagem(db, "suporte", "segue a resposta", 1, p)
	require.NoError(t, err)
	assert.Equal(t, p, mesmo)

	msgs, err := repo.Mensagens(db, p, 1)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestAssuntoCortadoEmCinquentaCaracteres(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	longa := "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeXYZ"
	id, err := repo.EnviarMensagem(db, "carla", longa, 1, 0)
	require.NoError(t, err)

	p, err := repo.BuscarProtocolo(db, id, 1)
	require.NoError(t, err)
	assert.Equal(t, longa[:50]+"...", p.Assunto)
}

func TestProtocoloAbertoIncluiAvaliando(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	id, err := repo.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)
	require.NoError(t, repo.AtualizarStatus(db, id, StatusAvaliando, 1))

	p, err := repo.ProtocoloAberto(db, "carla", 1)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	require.NoError(t, repo.AtualizarStatus(db, id, StatusFechado, 1))
	_, err = repo.ProtocoloAberto(db, "carla", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFecharEmLoteRespeitaEmpresa(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	a, err := repo.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)
	b, err := repo.EnviarMensagem(db, "joao", "oi", 1, 0)
	require.NoError(t, err)
	outra, err := repo.EnviarMensagem(db, "maria", "oi", 2, 0)
	require.NoError(t, err)

	total, err := repo.FecharEmLote(db, []uint{a, b, outra, 999}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// o protocolo da outra empresa continua aberto
	p, err := repo.BuscarProtocolo(db, outra, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusAberto, p.Status)
}

func TestUltimoIDMensagem(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	id, err := repo.UltimoIDMensagem(db)
	require.NoError(t, err)
	assert.Equal(t, uint(0), id)

	_, err = repo.EnviarMensagem(db, "carla", "oi", 1, 0)
	require.NoError(t, err)
	_, err = repo.EnviarMensagem(db, "carla", "tudo bem?", 1, 0)
	require.NoError(t, err)

	id, err = repo.UltimoIDMensagem(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
}
