package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are the wire
// values of the public API.
type TicketStatus string

const (
	TicketStatusOpen             TicketStatus = "ABERTO"
	TicketStatusInProgress       TicketStatus = "EM_ANDAMENTO"
	TicketStatusAwaitingResponse TicketStatus = "AGUARDANDO_RESPOSTA"
	TicketStatusResolved         TicketStatus = "RESOLVIDO"
	TicketStatusClosed           TicketStatus = "FECHADO"
	TicketStatusCancelled        TicketStatus = "CANCELADO"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "BAIXA"
	TicketPriorityMedium   TicketPriority = "MEDIA"
	TicketPriorityHigh     TicketPriority = "ALTA"
	TicketPriorityCritical TicketPriority = "CRITICA"
)

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusAwaitingResponse,
		TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for helpdesk requests (chamados). Comments and
// audit entries are owned by the ticket and cascade on delete.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"titulo"`
	Description string         `json:"descricao"`
	Priority    TicketPriority `json:"prioridade"`
	Status      TicketStatus   `json:"status"`
	Category    string         `json:"categoria"`
	CreatorID   string         `json:"criadorId"`
	AssigneeID  *string        `json:"atribuidoId"`
	ResolvedAt  *time.Time     `json:"resolvidoEm"`
	CreatedAt   time.Time      `json:"criadoEm"`
	UpdatedAt   time.Time      `json:"atualizadoEm"`

	Creator  *UserSummary `json:"criador,omitempty"`
	Assignee *UserSummary `json:"atribuido,omitempty"`
}
