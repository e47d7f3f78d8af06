package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/pkg/logger"
	"biblioteca-api/internal/pkg/pagination"

	"gorm.io/gorm"
)

// BookService handles catalog business logic
type BookService struct {
	bookRepo repositories.BookRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// CreateBookInput represents catalog entry input
type CreateBookInput struct {
	Title           string     `json:"titulo" validate:"required,max=200"`
	Author          string     `json:"autor" validate:"required,max=150"`
	Genre           string     `json:"genero" validate:"omitempty,max=100"`
	Publisher       string     `json:"casa_editorial" validate:"omitempty,max=150"`
	PublicationDate *time.Time `json:"fecha_publicacion"`
}

// UpdateBookInput represents a catalog patch
type UpdateBookInput struct {
	Title           *string    `json:"titulo"`
	Author          *string    `json:"autor"`
	Genre           *string    `json:"genero" validate:"omitempty,max=100"`
	Publisher       *string    `json:"casa_editorial" validate:"omitempty,max=150"`
	PublicationDate *time.Time `json:"fecha_publicacion"`
	Available       *bool      `json:"disponible"`
	Active          *bool      `json:"activo"`
}

// ListBooksInput represents catalog list filters and pagination
type ListBooksInput struct {
	Genre           string
	Author          string
	Publisher       string
	Title           string
	Available       *bool
	PublicationDate *time.Time
	Page            int
	Limit           int
}

// ListBooksOutput is the paginated catalog page in its public wire shape
type ListBooksOutput struct {
	Books       []*models.Book `json:"libros"`
	CurrentPage int            `json:"pagina_actual"`
	TotalPages  int            `json:"paginas_totales"`
	PerPage     int            `json:"libros_por_pagina"`
	Total       int64          `json:"total_libros"`
}

// Create inserts a catalog entry. The identity (titulo, autor,
// casa_editorial) must be free among active books; the store index enforces
// the same rule for inserts that race past the check.
func (s *BookService) Create(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	existing, err := s.bookRepo.FindActiveDuplicate(ctx, input.Title, input.Author, input.Publisher)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateError(existing)
	}

	book := &models.Book{
		Title:           input.Title,
		Author:          input.Author,
		Genre:           input.Genre,
		Publisher:       input.Publisher,
		PublicationDate: input.PublicationDate,
		Available:       true,
		Active:          true,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateFromStore(ctx, input)
		}
		return nil, err
	}

	logger.L().Info().
		Str("book_id", book.ID).
		Str("titulo", book.Title).
		Str("autor", book.Author).
		Msg("book created")

	return book, nil
}

// List returns the active catalog page matching the filters
func (s *BookService) List(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	params := pagination.Normalize(input.Page, input.Limit)

	filter := &repositories.BookFilter{
		Genre:           input.Genre,
		Author:          input.Author,
		Publisher:       input.Publisher,
		Title:           input.Title,
		Available:       input.Available,
		PublicationDate: input.PublicationDate,
	}

	books, total, err := s.bookRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	if books == nil {
		books = []*models.Book{}
	}

	return &ListBooksOutput{
		Books:       books,
		CurrentPage: params.Page,
		TotalPages:  params.TotalPages(total),
		PerPage:     params.Limit,
		Total:       total,
	}, nil
}

// GetByID returns an active book; a deactivated one counts as missing
func (s *BookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	if !book.Active {
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

// Update applies a catalog patch with validation re-run. Blanking a
// required field is rejected; toggling activo keeps the uniqueness marker
// in step so the identity constraint stays scoped to active rows.
func (s *BookService) Update(ctx context.Context, id string, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		book.Title = *input.Title
	}
	if input.Author != nil {
		if strings.TrimSpace(*input.Author) == "" {
			return nil, domain.ErrInvalidInput
		}
		book.Author = *input.Author
	}
	if input.Genre != nil {
		book.Genre = *input.Genre
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.PublicationDate != nil {
		book.PublicationDate = input.PublicationDate
	}
	if input.Available != nil {
		book.Available = *input.Available
	}
	if input.Active != nil {
		book.Active = *input.Active
		if book.Active {
			book.ActiveKey = models.ActiveKey()
		} else {
			book.ActiveKey = nil
		}
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateFromStore(ctx, &CreateBookInput{
				Title:     book.Title,
				Author:    book.Author,
				Publisher: book.Publisher,
			})
		}
		return nil, err
	}

	logger.L().Info().Str("book_id", book.ID).Msg("book updated")

	return book, nil
}

// Deactivate soft-deletes a book. In-flight reservations are untouched.
func (s *BookService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}

	if err := s.bookRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	logger.L().Info().Str("book_id", id).Msg("book deactivated")

	return nil
}

// duplicateFromStore builds the conflict error after the unique index fired,
// attaching the winning record when it can still be found.
func (s *BookService) duplicateFromStore(ctx context.Context, input *CreateBookInput) error {
	existing, err := s.bookRepo.FindActiveDuplicate(ctx, input.Title, input.Author, input.Publisher)
	if err == nil && existing != nil {
		return duplicateError(existing)
	}
	return &domain.DuplicateBookError{
		ExistingTitle:  input.Title,
		ExistingAuthor: input.Author,
	}
}

func duplicateError(existing *models.Book) *domain.DuplicateBookError {
	return &domain.DuplicateBookError{
		ExistingID:        existing.ID,
		ExistingTitle:     existing.Title,
		ExistingAuthor:    existing.Author,
		ExistingPublisher: existing.Publisher,
	}
}
