package usuario

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
)

// SenhaMantida marca no CSV que a senha não deve ser alterada na importação.
const SenhaMantida = "MANTIDA"

var cabecalhoCSV = []string{"Data", "Acao", "Login", "Senha", "Cargo"}

// CaminhoBackupCSV é o arquivo de backup/sincronização de usuários.
func CaminhoBackupCSV() string {
	if c := os.Getenv("BACKUP_CSV"); c != "" {
		return c
	}
	return "usuarios_backup.csv"
}

// ExportarCSV reescreve o arquivo com todos os usuários atuais, senha
// redigida como MANTIDA. Separador ponto e vírgula para o Excel brasileiro.
func ExportarCSV(db *gorm.DB) error {
	var usuarios []Usuario
	if err := db.Find(&usuarios).Error; err != nil {
		return err
	}

	f, err := os.Create(CaminhoBackupCSV())
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(cabecalhoCSV); err != nil {
		return err
	}

	dataHora := time.Now().Format("02/01/2006 15:04:05")
	for _, u := range usuarios {
		if err := w.Write([]string{dataHora, "SINC_AUTO", u.Username, SenhaMantida, u.Role}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LogCSV acrescenta uma linha de auditoria ao arquivo de backup.
func LogCSV(username, senha, role, acao string) error {
	caminho := CaminhoBackupCSV()
	_, statErr := os.Stat(caminho)
	novo := os.IsNotExist(statErr)

	f, err := os.OpenFile(caminho, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if novo {
		if err := w.Write(cabecalhoCSV); err != nil {
			return err
		}
	}
	if err := w.Write([]string{time.Now().Format("02/01/2006 15:04:05"), acao, username, senha, role}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ImportarCSV lê o backup e cria/atualiza as contas da empresa.
// Senha MANTIDA (ou vazia) preserva o hash existente; contas novas só são
// criadas quando o CSV traz uma senha real.
func ImportarCSV(db *gorm.DB, empresaID uint) (int, error) {
	f, err := os.Open(CaminhoBackupCSV())
	if err != nil {
		return 0, fmt.Errorf("arquivo %s não encontrado", CaminhoBackupCSV())
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	linhas, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(linhas) == 0 {
		return 0, nil
	}

	colunas := map[string]int{}
	for i, nome := range linhas[0] {
		colunas[nome] = i
	}
	campo := func(linha []string, nome string) string {
		i, ok := colunas[nome]
		if !ok || i >= len(linha) {
			return ""
		}
		return linha[i]
	}

	repo := NewRepository()
	count := 0
	for _, linha := range linhas[1:] {
		login := campo(linha, "Login")
		if login == "" {
			continue
		}
		senha := campo(linha, "Senha")
		role := campo(linha, "Cargo")

		existente, err := repo.BuscarPorUsername(db, login, empresaID)
		if err == nil {
			err = repo.Atualizar(db, existente.ID, login, senhaParaAtualizar(senha), role, empresaID)
			if err != nil {
				return count, err
			}
			count++
			continue
		}

		if senha != "" && senha != SenhaMantida {
			if _, err := repo.Criar(db, login, senha, role, empresaID); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func senhaParaAtualizar(senha string) string {
	if senha == SenhaMantida {
		return ""
	}
	return senha
}
