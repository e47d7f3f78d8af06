package handlers

import (
	"errors"
	"strings"

	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/core/services"
	"biblioteca-api/internal/pkg/response"
	"biblioteca-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := validation.Struct(&input); err != nil {
		return response.FailWithDetail(c, fiber.StatusBadRequest,
			"Nombre, email y password son requeridos", validation.DetailString(err))
	}

	user, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return response.BadRequest(c, "Email ya registrado")
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Rol inválido")
		default:
			return response.InternalServerError(c, "Error al crear usuario", err)
		}
	}

	return response.Created(c, fiber.Map{
		"msg":     "Usuario creado exitosamente",
		"usuario": user,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	input.Email = strings.TrimSpace(input.Email)

	if err := validation.Struct(&input); err != nil {
		return response.FailWithDetail(c, fiber.StatusBadRequest,
			"Email y password son requeridos", validation.DetailString(err))
	}

	token, user, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Usuario no encontrado")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Contraseña incorrecta")
		default:
			return response.InternalServerError(c, "Error en login", err)
		}
	}

	return response.OK(c, fiber.Map{
		"token":   token,
		"usuario": user,
	})
}
