package dto

import (
	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"titulo" validate:"required,min=5,max=200"`
	Description string                `json:"descricao" validate:"required,min=10,max=5000"`
	Priority    domain.TicketPriority `json:"prioridade" validate:"required,oneof=BAIXA MEDIA ALTA CRITICA"`
	Category    string                `json:"categoria" validate:"required,min=2,max=50"`
}

// UpdateTicketRequest is a partial patch; absent fields are untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"titulo" validate:"omitempty,min=5,max=200"`
	Description *string                `json:"descricao" validate:"omitempty,min=10,max=5000"`
	Priority    *domain.TicketPriority `json:"prioridade" validate:"omitempty,oneof=BAIXA MEDIA ALTA CRITICA"`
	Status      *domain.TicketStatus   `json:"status" validate:"omitempty,oneof=ABERTO EM_ANDAMENTO AGUARDANDO_RESPOSTA RESOLVIDO FECHADO CANCELADO"`
	Category    *string                `json:"categoria" validate:"omitempty,min=2,max=50"`
	AssigneeID  *string                `json:"atribuidoId" validate:"omitempty,uuid"`
}

// AssignTicketRequest sets or clears the assignee.
type AssignTicketRequest struct {
	AssigneeID *string `json:"atribuidoId" validate:"omitempty,uuid"`
}

// TicketPageResponse is a paginated ticket listing.
type TicketPageResponse struct {
	Items      []domain.Ticket `json:"dados"`
	Total      int64           `json:"total"`
	Page       int             `json:"pagina"`
	TotalPages int             `json:"totalPaginas"`
}

// TicketDetailResponse embeds the ticket plus its comment thread (ascending)
// and audit trail (descending).
type TicketDetailResponse struct {
	domain.Ticket
	Comments []domain.Comment    `json:"comentarios"`
	History  []domain.AuditEntry `json:"historicoAcoes"`
}
