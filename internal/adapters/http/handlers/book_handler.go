package handlers

import (
	"errors"
	"strings"
	"time"

	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/core/services"
	"biblioteca-api/internal/pkg/pagination"
	"biblioteca-api/internal/pkg/response"
	"biblioteca-api/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// CreateBookRequest represents catalog entry request body. Dates travel as
// strings on the wire and are parsed here.
type CreateBookRequest struct {
	Title           string `json:"titulo"`
	Author          string `json:"autor"`
	Genre           string `json:"genero"`
	Publisher       string `json:"casa_editorial"`
	PublicationDate string `json:"fecha_publicacion"`
}

// UpdateBookRequest represents catalog patch request body
type UpdateBookRequest struct {
	Title           *string `json:"titulo"`
	Author          *string `json:"autor"`
	Genre           *string `json:"genero"`
	Publisher       *string `json:"casa_editorial"`
	PublicationDate *string `json:"fecha_publicacion"`
	Available       *bool   `json:"disponible"`
	Active          *bool   `json:"activo"`
}

// parseDate accepts a plain date or a full RFC 3339 timestamp
func parseDate(value string) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create handles catalog entry creation
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	input := &services.CreateBookInput{
		Title:     strings.TrimSpace(req.Title),
		Author:    strings.TrimSpace(req.Author),
		Genre:     strings.TrimSpace(req.Genre),
		Publisher: strings.TrimSpace(req.Publisher),
	}

	if req.PublicationDate != "" {
		date, err := parseDate(req.PublicationDate)
		if err != nil {
			return response.BadRequest(c, "Fecha de publicación inválida")
		}
		input.PublicationDate = date
	}

	if err := validation.Struct(input); err != nil {
		return response.FailWithDetail(c, fiber.StatusBadRequest,
			"Título y autor son requeridos", validation.DetailString(err))
	}

	book, err := h.bookService.Create(c.Context(), input)
	if err != nil {
		var dup *domain.DuplicateBookError
		if errors.As(err, &dup) {
			return duplicateBookResponse(c, dup)
		}
		return response.InternalServerError(c, "Error al crear libro", err)
	}

	return response.Created(c, book)
}

// List handles the filtered, paginated catalog listing
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListBooksInput{
		Genre:     c.Query("genero"),
		Author:    c.Query("autor"),
		Publisher: c.Query("casa_editorial"),
		Title:     c.Query("titulo"),
		Page:      params.Page,
		Limit:     params.Limit,
	}

	if raw := c.Query("disponible"); raw != "" {
		available := raw == "true"
		input.Available = &available
	}

	if raw := c.Query("fecha_publicacion"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return response.BadRequest(c, "Fecha de publicación inválida")
		}
		input.PublicationDate = date
	}

	result, err := h.bookService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Error al obtener libros", err)
	}

	return response.OK(c, result)
}

// GetByID handles fetching a single active book
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.BadRequest(c, "ID de libro inválido")
	}

	book, err := h.bookService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Libro no encontrado")
		}
		return response.InternalServerError(c, "Error al obtener libro", err)
	}

	return response.OK(c, book)
}

// Update handles a catalog patch
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.BadRequest(c, "ID de libro inválido")
	}

	var req UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Cuerpo de la petición inválido")
	}

	input := &services.UpdateBookInput{
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		Publisher: req.Publisher,
		Available: req.Available,
		Active:    req.Active,
	}

	if req.PublicationDate != nil && *req.PublicationDate != "" {
		date, err := parseDate(*req.PublicationDate)
		if err != nil {
			return response.BadRequest(c, "Fecha de publicación inválida")
		}
		input.PublicationDate = date
	}

	book, err := h.bookService.Update(c.Context(), id, input)
	if err != nil {
		var dup *domain.DuplicateBookError
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Libro no encontrado")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Título y autor no pueden estar vacíos")
		case errors.As(err, &dup):
			return duplicateBookResponse(c, dup)
		default:
			return response.InternalServerError(c, "Error al actualizar libro", err)
		}
	}

	return response.OK(c, fiber.Map{
		"msg":   "Libro actualizado",
		"libro": book,
	})
}

// Deactivate soft-deletes a book
func (h *BookHandler) Deactivate(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return response.BadRequest(c, "ID de libro inválido")
	}

	if err := h.bookService.Deactivate(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Libro no encontrado")
		}
		return response.InternalServerError(c, "Error al inhabilitar libro", err)
	}

	return response.Message(c, "Libro inhabilitado")
}

// duplicateBookResponse reports the conflict together with the record that
// already owns the identity
func duplicateBookResponse(c *fiber.Ctx, dup *domain.DuplicateBookError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"msg": "Ya existe un libro con este título, autor y editorial",
		"libro_existente": fiber.Map{
			"id":             dup.ExistingID,
			"titulo":         dup.ExistingTitle,
			"autor":          dup.ExistingAuthor,
			"casa_editorial": dup.ExistingPublisher,
		},
	})
}
