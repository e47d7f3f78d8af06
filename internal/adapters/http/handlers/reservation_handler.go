package handlers

import (
	"errors"
	"time"

	"biblioteca-api/internal/adapters/http/middleware"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/core/services"
	"biblioteca-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// ReserveRequest represents reservation request body
type ReserveRequest struct {
	BookID  string `json:"libro"`
	DueDate string `json:"fecha_entrega"`
}

// Create reserves a book for the caller
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	if req.BookID == "" {
		return response.BadRequest(c, "ID de libro es requerido")
	}
	if _, err := uuid.Parse(req.BookID); err != nil {
		return response.BadRequest(c, "ID de libro inválido")
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate)
		if err != nil {
			return response.BadRequest(c, "Fecha de entrega inválida")
		}
		dueDate = parsed
	}

	userID, _ := c.Locals(middleware.LocalUserID).(string)

	reservation, err := h.reservationService.Reserve(c.Context(), userID, req.BookID, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookUnavailable):
			return response.NotFound(c, "Libro no disponible")
		case errors.Is(err, domain.ErrBookAlreadyReserved):
			return response.BadRequest(c, "El libro no está disponible para reserva")
		default:
			return response.InternalServerError(c, "Error al crear reserva", err)
		}
	}

	return response.Created(c, reservation)
}

// HistoryByUser returns the reservation history of a user
func (h *ReservationHandler) HistoryByUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if _, err := uuid.Parse(targetID); err != nil {
		return response.BadRequest(c, "ID de usuario inválido")
	}

	callerID, _ := c.Locals(middleware.LocalUserID).(string)
	callerRole, _ := c.Locals(middleware.LocalUserRole).(string)

	history, err := h.reservationService.HistoryByUser(c.Context(), targetID, callerID, callerRole)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			return response.Forbidden(c, "No autorizado")
		}
		return response.InternalServerError(c, "Error al obtener historial", err)
	}

	if len(history) == 0 {
		return response.OK(c, fiber.Map{
			"msg":      "No se encontraron reservas para este usuario",
			"reservas": []services.UserHistoryEntry{},
		})
	}

	return response.OK(c, history)
}

// HistoryByBook returns the reservation history of a book
func (h *ReservationHandler) HistoryByBook(c *fiber.Ctx) error {
	bookID := c.Params("id")
	if _, err := uuid.Parse(bookID); err != nil {
		return response.BadRequest(c, "ID de libro inválido")
	}

	history, err := h.reservationService.HistoryByBook(c.Context(), bookID)
	if err != nil {
		return response.InternalServerError(c, "Error al obtener historial", err)
	}

	if len(history) == 0 {
		return response.OK(c, fiber.Map{
			"msg":      "No se encontraron reservas para este libro",
			"reservas": []services.BookHistoryEntry{},
		})
	}

	return response.OK(c, history)
}
