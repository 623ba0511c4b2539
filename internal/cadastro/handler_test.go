package cadastro

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pateo-sistemas/api-estacionamento/internal/auth"
	"github.com/pateo-sistemas/api-estacionamento/internal/historico"
	"github.com/pateo-sistemas/api-estacionamento/internal/movimentacao"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Cadastro{}, &movimentacao.Movimentacao{}, &historico.Acao{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func novaRequisicao(t *testing.T, metodo, alvo, corpo string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(metodo, alvo, strings.NewReader(corpo))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextoComSessao(req.Context(), "gerente1", "gerente", 1))
}

func comVarID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestCriarCadastroComPlacaRegistraEntrada(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := novaRequisicao(t, http.MethodPost, "/cadastro",
		`{"nome":"joão silva","cpf":"52998224725","placa":"abc1234"}`)
	w := httptest.NewRecorder()
	h.Criar(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("esperava 201, veio %d body=%s", w.Code, w.Body.String())
	}

	var c Cadastro
	if err := db.First(&c).Error; err != nil {
		t.Fatalf("buscar cadastro: %v", err)
	}
	if c.Placa != "ABC1234" {
		t.Fatalf("placa não normalizada no cadastro: %q", c.Placa)
	}

	var m movimentacao.Movimentacao
	if err := db.First(&m).Error; err != nil {
		t.Fatalf("entrada automática não criada: %v", err)
	}
	if m.Placa != "ABC1234" || m.Saida != nil {
		t.Fatalf("movimento errado: %+v", m)
	}
	if m.Tipo != "Carro" {
		t.Fatalf("tipo padrão deveria ser Carro, veio %q", m.Tipo)
	}
	if m.Responsavel != "João Silva" {
		t.Fatalf("responsável não normalizado: %q", m.Responsavel)
	}
}

func TestCriarCadastroSemPlacaNaoRegistraEntrada(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := novaRequisicao(t, http.MethodPost, "/cadastro", `{"nome":"maria souza"}`)
	w := httptest.NewRecorder()
	h.Criar(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("esperava 201, veio %d", w.Code)
	}
	var total int64
	db.Model(&movimentacao.Movimentacao{}).Count(&total)
	if total != 0 {
		t.Fatalf("não deveria existir movimento, veio %d", total)
	}
}

func TestCriarCadastroCPFInvalido(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := novaRequisicao(t, http.MethodPost, "/cadastro", `{"nome":"ana","cpf":"11111111111"}`)
	w := httptest.NewRecorder()
	h.Criar(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", w.Code)
	}
}

func TestBuscaPorNomeOuPlaca(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository()

	repo.Criar(db, &Cadastro{Nome: "Carlos Pereira", Placa: "AAA1111", EmpresaID: 1})
	repo.Criar(db, &Cadastro{Nome: "Beatriz Lima", Placa: "BBB2222", EmpresaID: 1})
	repo.Criar(db, &Cadastro{Nome: "Outro Tenant", Placa: "AAA1111", EmpresaID: 2})

	lista, err := repo.Listar(db, 1, "carlos")
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(lista) != 1 || lista[0].Nome != "Carlos Pereira" {
		t.Fatalf("busca por nome errada: %+v", lista)
	}

	lista, err = repo.Listar(db, 1, "BBB")
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(lista) != 1 || lista[0].Placa != "BBB2222" {
		t.Fatalf("busca por placa errada: %+v", lista)
	}

	// maiúsculas no termo não mudam o resultado
	lista, err = repo.Listar(db, 1, "CARLOS")
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(lista) != 1 || lista[0].Nome != "Carlos Pereira" {
		t.Fatalf("busca deveria ignorar caixa: %+v", lista)
	}

	lista, err = repo.Listar(db, 1, "")
	if err != nil {
		t.Fatalf("listar: %v", err)
	}
	if len(lista) != 2 {
		t.Fatalf("listagem completa deveria ter 2, veio %d", len(lista))
	}
	// ordenada por nome
	if lista[0].Nome != "Beatriz Lima" {
		t.Fatalf("ordenação errada: %+v", lista)
	}
}

func TestAtualizarEExcluirInexistente(t *testing.T) {
	db := setupTestDB(t)
	h := NewHandler(db)

	req := novaRequisicao(t, http.MethodPut, "/cadastro/99", `{"nome":"x"}`)
	req = comVarID(req, "99")
	w := httptest.NewRecorder()
	h.Atualizar(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("atualizar: esperava 404, veio %d", w.Code)
	}

	req = novaRequisicao(t, http.MethodDelete, "/cadastro/99", "")
	req = comVarID(req, "99")
	w = httptest.NewRecorder()
	h.Excluir(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("excluir: esperava 404, veio %d", w.Code)
	}
}
