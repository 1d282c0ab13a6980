package events

import (
	"time"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// EventType enumerates the observable domain events.
type EventType string

const (
	EventTicketCreated        EventType = "ticket:created"
	EventTicketUpdated        EventType = "ticket:updated"
	EventTicketStatusChanged  EventType = "ticket:status-changed"
	EventTicketComment        EventType = "ticket:comment"
	EventTicketCommentDeleted EventType = "ticket:comment-deleted"
)

// Event is a domain event emitted by the services. Payload shape depends on
// the event type.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"evento"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"dados"`
}

// StatusChangedPayload accompanies ticket:status-changed.
type StatusChangedPayload struct {
	TicketID  string              `json:"chamadoId"`
	NewStatus domain.TicketStatus `json:"novoStatus"`
	ChangedBy string              `json:"alteradoPor"`
}

// CommentPayload accompanies ticket:comment.
type CommentPayload struct {
	domain.Comment
	TicketID string `json:"chamadoId"`
}

// CommentDeletedPayload accompanies ticket:comment-deleted.
type CommentDeletedPayload struct {
	CommentID string `json:"comentarioId"`
	TicketID  string `json:"chamadoId"`
}
