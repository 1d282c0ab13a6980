package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-br/chamado-service/internal/api/dto"
	"github.com/helpdesk-br/chamado-service/internal/service"
	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

// UsersHandler exposes the admin user management endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List handles GET /api/usuarios.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page := parseQueryInt(c.Query("pagina"), 1)
	pageSize := parseQueryInt(c.Query("limite"), 10)

	result, err := h.service.List(c.UserContext(), page, pageSize)
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewUserResponse(&result.Items[i]))
	}
	return c.JSON(fiber.Map{
		"mensagem": "Usuários listados com sucesso",
		"dados": dto.UserPageResponse{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /api/usuarios/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Usuário obtido com sucesso",
		"dados":    dto.NewUserResponse(user),
	})
}

// Update handles PUT /api/usuarios/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.service.Update(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mensagem": "Usuário atualizado com sucesso",
		"dados":    dto.NewUserResponse(user),
	})
}

// Deactivate handles DELETE /api/usuarios/:id. Users are never hard-deleted;
// their tickets and comments must survive.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mensagem": "Usuário desativado com sucesso"})
}
