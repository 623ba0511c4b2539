package auth

import "net/http"

// Ações protegidas por papel. Tabela única para as rotas não repetirem
// listas de roles à mão.
const (
	AcaoHistoricoVer   = "historico.ver"
	AcaoUsuariosGerir  = "usuarios.gerir"
	AcaoChatProtocolos = "chat.protocolos"
	AcaoChatEncerrar   = "chat.encerrar"
	AcaoChatFecharLote = "chat.fechar-lote"
	AcaoMonitorLimpar  = "monitor.limpar"
	AcaoDevSQL         = "dev.sql"
	AcaoDevBackup      = "dev.backup"
	AcaoDevPublicar    = "dev.publicar"
	AcaoConfigEditar   = "config.editar"
)

// Permissoes mapeia cada ação para os papéis autorizados. O encerramento
// individual aceita gerente; o em lote e a leitura de protocolos alheios
// são só do suporte (admin/dev).
var Permissoes = map[string][]string{
	AcaoHistoricoVer:   {"gerente", "admin", "dev"},
	AcaoUsuariosGerir:  {"gerente", "admin", "dev"},
	AcaoChatProtocolos: {"admin", "dev"},
	AcaoChatEncerrar:   {"gerente", "admin", "dev"},
	AcaoChatFecharLote: {"admin", "dev"},
	AcaoMonitorLimpar:  {"admin", "dev"},
	AcaoDevSQL:         {"admin", "dev"},
	AcaoDevBackup:      {"admin", "dev"},
	AcaoDevPublicar:    {"dev"},
	AcaoConfigEditar:   {"dev"},
}

// Permitido responde se o papel pode executar a ação.
func Permitido(acao, role string) bool {
	for _, r := range Permissoes[acao] {
		if r == role {
			return true
		}
	}
	return false
}

// Exigir protege um handler com a tabela de permissões.
func Exigir(acao string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !Permitido(acao, RoleDaRequisicao(r)) {
			http.Error(w, "Acesso negado", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
