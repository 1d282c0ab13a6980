package domain

import "time"

// AuditAction tags what happened to a ticket.
type AuditAction string

const (
	AuditCreated        AuditAction = "CRIADO"
	AuditUpdated        AuditAction = "ATUALIZADO"
	AuditAssigned       AuditAction = "ATRIBUIDO"
	AuditUnassigned     AuditAction = "DESATRIBUIDO"
	AuditCommentAdded   AuditAction = "COMENTARIO_ADICIONADO"
	AuditCommentEdited  AuditAction = "COMENTARIO_EDITADO"
	AuditCommentDeleted AuditAction = "COMENTARIO_DELETADO"
)

// AuditEntry is an append-only record of a state-changing action on a ticket.
// Entries are never mutated; they are removed only by the parent ticket's
// cascade delete.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"acao"`
	Details   string      `json:"detalhes"`
	TicketID  string      `json:"chamadoId"`
	UserID    string      `json:"usuarioId"`
	CreatedAt time.Time   `json:"criadoEm"`

	User *UserSummary `json:"usuario,omitempty"`
}
