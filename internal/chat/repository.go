package chat

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	EnviarMensagem(db *gorm.DB, usuario, texto string, empresaID uint, protocoloID uint) (uint, error)
	ProtocoloAberto(db *gorm.DB, usuario string, empresaID uint) (*Protocolo, error)
	BuscarProtocolo(db *gorm.DB, id, empresaID uint) (*Protocolo, error)
	Mensagens(db *gorm.DB, protocoloID, empresaID uint) ([]Mensagem, error)
	ListarProtocolos(db *gorm.DB) ([]Protocolo, error)
	HistoricoDoUsuario(db *gorm.DB, usuario string, empresaID uint) ([]Protocolo, error)
	AtualizarStatus(db *gorm.DB, id uint, status string, empresaID uint) error
	FecharEmLote(db *gorm.DB, ids []uint, empresaID uint) (int64, error)
	UltimoIDMensagem(db *gorm.DB) (uint, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// EnviarMensagem anexa a mensagem ao protocolo indicado; sem protocolo,
// reaproveita o aberto/avaliando do usuário ou cria um novo com a primeira
// mensagem. Se duas primeiras mensagens concorrentes tentarem criar o
// protocolo, o índice único parcial barra a segunda e ela é reenviada
// para achar o protocolo vencedor.
// Mensagem em protocolo fechado é aceita de propósito: o suporte pode
// responder depois do encerramento.
func (r *repositoryImpl) EnviarMensagem(db *gorm.DB, usuario, texto string, empresaID uint, protocoloID uint) (uint, error) {
	destino, err := r.enviarMensagem(db, usuario, texto, empresaID, protocoloID)
	if protocoloID == 0 && errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.enviarMensagem(db, usuario, texto, empresaID, 0)
	}
	return destino, err
}

func (r *repositoryImpl) enviarMensagem(db *gorm.DB, usuario, texto string, empresaID uint, protocoloID uint) (uint, error) {
	destino := protocoloID
	err := db.Transaction(func(tx *gorm.DB) error {
		if destino == 0 {
			var aberto Protocolo
			err := tx.Where("usuario_cliente = ? AND empresa_id = ? AND status IN ?",
				usuario, empresaID, []string{StatusAberto, StatusAvaliando}).
				Order("id DESC").First(&aberto).Error
			switch {
			case err == nil:
				destino = aberto.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				novo := Protocolo{
					UsuarioCliente: usuario,
					Assunto:        assuntoDe(texto),
					DataInicio:     agoraFormatado(),
					Status:         StatusAberto,
					EmpresaID:      empresaID,
				}
				if err := tx.Create(&novo).Error; err != nil {
					return err
				}
				destino = novo.ID
			default:
				return err
			}
		}

		m := Mensagem{
			ProtocoloID: destino,
			Usuario:     usuario,
			Texto:       texto,
			DataHora:    agoraFormatado(),
			EmpresaID:   empresaID,
		}
		return tx.Create(&m).Error
	})
	return destino, err
}

// Assunto é o começo da primeira mensagem, cortado em 50 caracteres.
func assuntoDe(texto string) string {
	runes := []rune(texto)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return texto
}

func (r *repositoryImpl) ProtocoloAberto(db *gorm.DB, usuario string, empresaID uint) (*Protocolo, error) {
	var p Protocolo
	err := db.Where("usuario_cliente = ? AND empresa_id = ? AND status IN ?",
		usuario, empresaID, []string{StatusAberto, StatusAvaliando}).
		Order("id DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) BuscarProtocolo(db *gorm.DB, id, empresaID uint) (*Protocolo, error) {
	var p Protocolo
	err := db.Where("id = ? AND empresa_id = ?", id, empresaID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Mensagens(db *gorm.DB, protocoloID, empresaID uint) ([]Mensagem, error) {
	var msgs []Mensagem
	err := db.Where("protocolo_id = ? AND empresa_id = ?", protocoloID, empresaID).
		Order("id ASC").Find(&msgs).Error
	return msgs, err
}

// ListarProtocolos devolve todos os protocolos do sistema para o painel
// do suporte, mais recentes primeiro.
func (r *repositoryImpl) ListarProtocolos(db *gorm.DB) ([]Protocolo, error) {
	var lista []Protocolo
	err := db.Order("id DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) HistoricoDoUsuario(db *gorm.DB, usuario string, empresaID uint) ([]Protocolo, error) {
	var lista []Protocolo
	err := db.Where("usuario_cliente = ? AND empresa_id = ?", usuario, empresaID).
		Order("id DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) AtualizarStatus(db *gorm.DB, id uint, status string, empresaID uint) error {
	return db.Model(&Protocolo{}).
		Where("id = ? AND empresa_id = ?", id, empresaID).
		Update("status", status).Error
}

// FecharEmLote fecha os protocolos indicados que pertencem à empresa e
// devolve quantos realmente mudaram.
func (r *repositoryImpl) FecharEmLote(db *gorm.DB, ids []uint, empresaID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Model(&Protocolo{}).
		Where("id IN ? AND empresa_id = ?", ids, empresaID).
		Update("status", StatusFechado)
	return res.RowsAffected, res.Error
}

// UltimoIDMensagem é o máximo global de id de mensagem, usado pelo
// polling do frontend para detectar atividade nova.
func (r *repositoryImpl) UltimoIDMensagem(db *gorm.DB) (uint, error) {
	var max int64
	err := db.Model(&Mensagem{}).Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	return uint(max), err
}
