package domain

import "time"

// CommentMaxLength bounds comment content; CommentEditWindow is how long a
// non-admin author may edit their own comment.
const (
	CommentMaxLength  = 2000
	CommentEditWindow = 30 * time.Minute
)

// Comment is a threaded message on a ticket.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"conteudo"`
	AuthorID  string    `json:"autorId"`
	TicketID  string    `json:"chamadoId"`
	CreatedAt time.Time `json:"criadoEm"`
	UpdatedAt time.Time `json:"atualizadoEm"`

	Author *UserSummary `json:"autor,omitempty"`
}
