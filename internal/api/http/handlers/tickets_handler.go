package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-br/chamado-service/internal/api/dto"
	"github.com/helpdesk-br/chamado-service/internal/auth"
	"github.com/helpdesk-br/chamado-service/internal/domain"
	"github.com/helpdesk-br/chamado-service/internal/service"
	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /api/chamados.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.Create(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"mensagem": "Chamado criado com sucesso",
		"dados":    ticket,
	})
}

// List handles GET /api/chamados.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	input, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.UserContext(), *input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Chamados listados com sucesso",
		"dados": dto.TicketPageResponse{
			Items:      page.Items,
			Total:      page.Total,
			Page:       page.Page,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/chamados/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, comments, history, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	if history == nil {
		history = []domain.AuditEntry{}
	}
	return c.JSON(fiber.Map{
		"mensagem": "Chamado obtido com sucesso",
		"dados": dto.TicketDetailResponse{
			Ticket:   *ticket,
			Comments: comments,
			History:  history,
		},
	})
}

// Update handles PUT /api/chamados/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.Update(c.UserContext(), actor, c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Category:    req.Category,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Chamado atualizado com sucesso",
		"dados":    ticket,
	})
}

// Delete handles DELETE /api/chamados/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mensagem": "Chamado deletado com sucesso"})
}

// Assign handles POST /api/chamados/:id/atribuir.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("usuário não autenticado")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.service.Assign(c.UserContext(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}

	mensagem := "Chamado desatribuído com sucesso"
	if req.AssigneeID != nil {
		mensagem = "Chamado atribuído com sucesso"
	}
	return c.JSON(fiber.Map{"mensagem": mensagem, "dados": ticket})
}

func parseTicketListQuery(c *fiber.Ctx) (*service.TicketListInput, error) {
	input := service.TicketListInput{}

	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(strings.TrimSpace(raw))
		if !domain.ValidStatus(status) {
			return nil, apperrors.NewValidationError("status inválido", nil)
		}
		input.Status = &status
	}
	if raw := c.Query("prioridade"); raw != "" {
		priority := domain.TicketPriority(strings.TrimSpace(raw))
		if !domain.ValidPriority(priority) {
			return nil, apperrors.NewValidationError("prioridade inválida", nil)
		}
		input.Priority = &priority
	}
	if raw := c.Query("categoria"); raw != "" {
		input.Category = &raw
	}
	if raw := c.Query("criadorId"); raw != "" {
		input.CreatorID = &raw
	}
	if raw := c.Query("atribuidoId"); raw != "" {
		input.AssigneeID = &raw
	}
	if from, err := parseQueryTime(c.Query("dataInicio")); err != nil {
		return nil, err
	} else if from != nil {
		input.CreatedFrom = from
	}
	if to, err := parseQueryTime(c.Query("dataFim")); err != nil {
		return nil, err
	} else if to != nil {
		input.CreatedTo = to
	}

	input.Page = parseQueryInt(c.Query("pagina"), 1)
	input.PageSize = parseQueryInt(c.Query("limite"), 10)
	input.SortField = c.Query("ordenarPor", "criadoEm")
	input.SortAsc = strings.EqualFold(c.Query("ordem"), "asc")

	return &input, nil
}

func parseQueryTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("data inválida, use RFC3339", nil)
	}
	return &t, nil
}

func parseQueryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
