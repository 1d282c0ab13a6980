package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-br/chamado-service/internal/api/dto"
	"github.com/helpdesk-br/chamado-service/internal/auth"
	"github.com/helpdesk-br/chamado-service/internal/service"
	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs the handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// Create handles POST /api/comentarios.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.UserContext(), actor, req.TicketID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"mensagem": "Comentário criado com sucesso",
		"dados":    comment,
	})
}

// ListByTicket handles GET /api/chamados/:chamadoId/comentarios.
func (h *CommentsHandler) ListByTicket(c *fiber.Ctx) error {
	comments, err := h.service.ListByTicket(c.UserContext(), c.Params("chamadoId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Comentários listados com sucesso",
		"dados":    comments,
	})
}

// Update handles PUT /api/comentarios/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Comentário atualizado com sucesso",
		"dados":    comment,
	})
}

// Delete handles DELETE /api/comentarios/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mensagem": "Comentário deletado com sucesso"})
}
