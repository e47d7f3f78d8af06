package handlers

import (
	"errors"

	"biblioteca-api/internal/adapters/http/middleware"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/core/services"
	"biblioteca-api/internal/pkg/response"
	"biblioteca-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the caller's own profile
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "Usuario no encontrado")
		}
		return response.InternalServerError(c, "Error al obtener usuario", err)
	}

	return response.OK(c, user)
}

// Update handles a profile patch for the target user
func (h *UserHandler) Update(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if _, err := uuid.Parse(targetID); err != nil {
		return response.BadRequest(c, "ID de usuario inválido")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	if err := validation.Struct(&input); err != nil {
		return response.FailWithDetail(c, fiber.StatusBadRequest,
			"Datos de usuario inválidos", validation.DetailString(err))
	}

	callerID, _ := c.Locals(middleware.LocalUserID).(string)
	callerRole, _ := c.Locals(middleware.LocalUserRole).(string)

	user, err := h.userService.Update(c.Context(), targetID, callerID, callerRole, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthorized):
			return response.Forbidden(c, "No autorizado")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Usuario no encontrado")
		case errors.Is(err, domain.ErrEmailTaken):
			return response.BadRequest(c, "Email ya registrado")
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Rol inválido")
		default:
			return response.InternalServerError(c, "Error al actualizar usuario", err)
		}
	}

	return response.OK(c, fiber.Map{
		"msg":     "Usuario actualizado",
		"usuario": user,
	})
}

// Deactivate soft-deletes the target user
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if _, err := uuid.Parse(targetID); err != nil {
		return response.BadRequest(c, "ID de usuario inválido")
	}

	callerID, _ := c.Locals(middleware.LocalUserID).(string)
	callerRole, _ := c.Locals(middleware.LocalUserRole).(string)

	if err := h.userService.Deactivate(c.Context(), targetID, callerID, callerRole); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthorized):
			return response.Forbidden(c, "No autorizado")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Usuario no encontrado")
		default:
			return response.InternalServerError(c, "Error al inhabilitar usuario", err)
		}
	}

	return response.Message(c, "Usuario inhabilitado")
}
