package repositories

import (
	"context"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRole(ctx context.Context, role string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id string) error
}

// BookFilter holds the catalog list filters. Zero/nil fields are ignored;
// the active flag is always applied by the repository.
type BookFilter struct {
	Genre           string
	Author          string
	Publisher       string
	Title           string // case-insensitive substring
	Available       *bool
	PublicationDate *time.Time
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	FindActiveDuplicate(ctx context.Context, title, author, publisher string) (*models.Book, error)
	List(ctx context.Context, filter *BookFilter, offset, limit int) ([]*models.Book, int64, error)
	Update(ctx context.Context, book *models.Book) error
	Deactivate(ctx context.Context, id string) error
}

// ReservationRepository defines reservation repository interface
type ReservationRepository interface {
	// ReserveBook atomically flips the book's availability and inserts the
	// reservation. It fails with domain.ErrBookAlreadyReserved when the book
	// is no longer active and available, leaving no partial state behind.
	ReserveBook(ctx context.Context, reservation *models.Reservation) error
	ListByUser(ctx context.Context, userID string) ([]*models.Reservation, error)
	ListByBook(ctx context.Context, bookID string) ([]*models.Reservation, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Reservation, error)
}
