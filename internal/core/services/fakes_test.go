package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories used to exercise the services without a database.
// They reproduce the store behaviors the services depend on: record-not-found
// and duplicated-key errors, the active-only uniqueness rule and the atomic
// reserve-and-flip.

type fakeUserRepo struct {
	mu             sync.Mutex
	users          map[string]*models.User
	forceCreateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCreateErr != nil {
		return r.forceCreateErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetActiveByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Active {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByRole(_ context.Context, role string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

type fakeBookRepo struct {
	mu    sync.Mutex
	books []*models.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{}
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.Active && b.Title == book.Title && b.Author == book.Author && b.Publisher == book.Publisher {
			return gorm.ErrDuplicatedKey
		}
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.Active && book.ActiveKey == nil {
		book.ActiveKey = models.ActiveKey()
	}
	book.CreatedAt = time.Now()
	clone := *book
	r.books = append(r.books, &clone)
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id string) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookRepo) FindActiveDuplicate(_ context.Context, title, author, publisher string) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.Active && b.Title == title && b.Author == author && b.Publisher == publisher {
			clone := *b
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookRepo) List(_ context.Context, filter *repositories.BookFilter, offset, limit int) ([]*models.Book, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Book
	for _, b := range r.books {
		if !b.Active {
			continue
		}
		if filter.Genre != "" && b.Genre != filter.Genre {
			continue
		}
		if filter.Author != "" && b.Author != filter.Author {
			continue
		}
		if filter.Publisher != "" && b.Publisher != filter.Publisher {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Available != nil && b.Available != *filter.Available {
			continue
		}
		if filter.PublicationDate != nil {
			if b.PublicationDate == nil || !b.PublicationDate.Equal(*filter.PublicationDate) {
				continue
			}
		}
		clone := *b
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID != book.ID && b.ActiveKey != nil && book.ActiveKey != nil &&
			b.Title == book.Title && b.Author == book.Author && b.Publisher == book.Publisher {
			return gorm.ErrDuplicatedKey
		}
	}
	for i, b := range r.books {
		if b.ID == book.ID {
			clone := *book
			r.books[i] = &clone
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeBookRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			b.Active = false
			b.ActiveKey = nil
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	bookRepo     *fakeBookRepo
	userRepo     *fakeUserRepo
	reservations []*models.Reservation
}

func newFakeReservationRepo(bookRepo *fakeBookRepo, userRepo *fakeUserRepo) *fakeReservationRepo {
	return &fakeReservationRepo{bookRepo: bookRepo, userRepo: userRepo}
}

func (r *fakeReservationRepo) ReserveBook(_ context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookRepo.mu.Lock()
	defer r.bookRepo.mu.Unlock()

	for _, b := range r.bookRepo.books {
		if b.ID == reservation.BookID {
			if !b.Active || !b.Available {
				return domain.ErrBookAlreadyReserved
			}
			b.Available = false
			if reservation.ID == "" {
				reservation.ID = uuid.NewString()
			}
			reservation.CreatedAt = time.Now()
			clone := *reservation
			r.reservations = append(r.reservations, &clone)
			return nil
		}
	}
	return domain.ErrBookAlreadyReserved
}

func (r *fakeReservationRepo) ListByUser(_ context.Context, userID string) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reservation
	for _, res := range r.reservations {
		if res.UserID != userID {
			continue
		}
		clone := *res
		clone.Book, _ = r.bookRepo.GetByID(context.Background(), res.BookID)
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeReservationRepo) ListByBook(_ context.Context, bookID string) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reservation
	for _, res := range r.reservations {
		if res.BookID != bookID {
			continue
		}
		clone := *res
		clone.User, _ = r.userRepo.GetByID(context.Background(), res.UserID)
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeReservationRepo) ListOverdue(_ context.Context, now time.Time) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reservation
	for _, res := range r.reservations {
		if res.DueDate != nil && res.DueDate.Before(now) {
			clone := *res
			out = append(out, &clone)
		}
	}
	return out, nil
}
