package dto

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content  string `json:"conteudo" validate:"required,min=1,max=2000"`
	TicketID string `json:"chamadoId" validate:"required,uuid"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Content string `json:"conteudo" validate:"required,min=1,max=2000"`
}
