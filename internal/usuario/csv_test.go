package usuario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportarEImportarCSV(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("BACKUP_CSV", filepath.Join(t.TempDir(), "usuarios_backup.csv"))

	repo := NewRepository()
	_, err := repo.Criar(db, "carla", "senha-carla", "gerente", 1)
	require.NoError(t, err)

	require.NoError(t, ExportarCSV(db))

	conteudo, err := os.ReadFile(CaminhoBackupCSV())
	require.NoError(t, err)
	texto := string(conteudo)
	assert.Contains(t, texto, "carla")
	assert.Contains(t, texto, SenhaMantida)
	assert.NotContains(t, texto, "senha-carla")

	// importar com MANTIDA não troca a senha
	count, err := ImportarCSV(db, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.Autenticar(db, "carla", "senha-carla", 1)
	assert.NoError(t, err)
}

func TestImportarCSVCriaContaComSenhaReal(t *testing.T) {
	db := setupTestDB(t)
	caminho := filepath.Join(t.TempDir(), "usuarios_backup.csv")
	t.Setenv("BACKUP_CSV", caminho)

	linhas := strings.Join([]string{
		"Data;Acao;Login;Senha;Cargo",
		"01/01/2026 10:00:00;CRIADO;novato;senha123;operador",
		"01/01/2026 10:00:00;SINC_AUTO;fantasma;MANTIDA;operador",
	}, "\n")
	require.NoError(t, os.WriteFile(caminho, []byte(linhas), 0o644))

	count, err := ImportarCSV(db, 1)
	require.NoError(t, err)
	// fantasma não existe e veio sem senha real: ignorado
	assert.Equal(t, 1, count)

	repo := NewRepository()
	_, err = repo.Autenticar(db, "novato", "senha123", 1)
	assert.NoError(t, err)
	_, err = repo.BuscarPorUsername(db, "fantasma", 1)
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestLogCSVAcrescentaLinhas(t *testing.T) {
	caminho := filepath.Join(t.TempDir(), "usuarios_backup.csv")
	t.Setenv("BACKUP_CSV", caminho)

	require.NoError(t, LogCSV("u1", "s1", "operador", "CRIADO"))
	require.NoError(t, LogCSV("u2", SenhaMantida, "gerente", "ATUALIZADO"))

	conteudo, err := os.ReadFile(caminho)
	require.NoError(t, err)
	linhas := strings.Split(strings.TrimSpace(string(conteudo)), "\n")
	// cabeçalho + duas linhas
	assert.Len(t, linhas, 3)
	assert.Equal(t, "Data;Acao;Login;Senha;Cargo", linhas[0])
}
