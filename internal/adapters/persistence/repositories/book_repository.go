package repositories

import (
	"context"
	"strings"

	"biblioteca-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book. A concurrent insert of the same identity is
// rejected by the uniq_libro_identidad index and surfaces as
// gorm.ErrDuplicatedKey.
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID regardless of the active flag
func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindActiveDuplicate looks up an active book with the same identity.
// Returns gorm.ErrRecordNotFound when the identity is free.
func (r *bookRepository) FindActiveDuplicate(ctx context.Context, title, author, publisher string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("titulo = ? AND autor = ? AND casa_editorial = ? AND activo = ?", title, author, publisher, true).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List lists active books matching the filter, with pagination
func (r *bookRepository) List(ctx context.Context, filter *BookFilter, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{}).Where("activo = ?", true)

	if filter != nil {
		if filter.Genre != "" {
			q = q.Where("genero = ?", filter.Genre)
		}
		if filter.Author != "" {
			q = q.Where("autor = ?", filter.Author)
		}
		if filter.Publisher != "" {
			q = q.Where("casa_editorial = ?", filter.Publisher)
		}
		if filter.Title != "" {
			q = q.Where("LOWER(titulo) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
		}
		if filter.Available != nil {
			q = q.Where("disponible = ?", *filter.Available)
		}
		if filter.PublicationDate != nil {
			q = q.Where("fecha_publicacion = ?", filter.PublicationDate.Format("2006-01-02"))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("fecha_creacion DESC").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

// Update saves all fields of the book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Deactivate marks the book inactive and clears the uniqueness marker so
// its identity no longer collides with future catalog entries.
func (r *bookRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"activo":     false,
			"activo_key": nil,
		}).Error
}
