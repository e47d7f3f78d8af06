package services

import (
	"context"
	"errors"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/core/domain"
	"biblioteca-api/internal/pkg/logger"

	"gorm.io/gorm"
)

// ReservationService orchestrates the reservation workflow
type ReservationService struct {
	reservationRepo repositories.ReservationRepository
	bookRepo        repositories.BookRepository
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo repositories.ReservationRepository,
	bookRepo repositories.BookRepository,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		bookRepo:        bookRepo,
	}
}

// UserHistoryEntry is one row of a user's reservation history
type UserHistoryEntry struct {
	BookTitle  string     `json:"nombre_libro"`
	ReservedAt time.Time  `json:"fecha_reserva"`
	DueDate    *time.Time `json:"fecha_entrega"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
}

// BookHistoryEntry is one row of a book's reservation history
type BookHistoryEntry struct {
	UserName   string     `json:"nombre_usuario"`
	UserEmail  string     `json:"email_usuario"`
	ReservedAt time.Time  `json:"fecha_reserva"`
	DueDate    *time.Time `json:"fecha_entrega"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
}

// Reserve books an active, available copy for the caller.
//
// A missing book and a deactivated one produce the same error: callers must
// not learn whether a hidden record exists. An existing-but-taken book is a
// distinct conflict, which does leak that the book exists.
// The ledger insert and the availability flip commit atomically, so a fault
// or a race between them cannot leave a reservation pointing at a book that
// still looks available.
func (s *ReservationService) Reserve(ctx context.Context, userID, bookID string, dueDate *time.Time) (*models.Reservation, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookUnavailable
		}
		return nil, err
	}
	if !book.Active {
		return nil, domain.ErrBookUnavailable
	}
	if !book.Available {
		return nil, domain.ErrBookAlreadyReserved
	}

	reservation := &models.Reservation{
		UserID:     userID,
		BookID:     bookID,
		ReservedAt: time.Now(),
		DueDate:    dueDate,
	}

	if err := s.reservationRepo.ReserveBook(ctx, reservation); err != nil {
		return nil, err
	}

	logger.L().Info().
		Str("reservation_id", reservation.ID).
		Str("user_id", userID).
		Str("book_id", bookID).
		Msg("reservation created")

	return reservation, nil
}

// HistoryByUser returns the reservation history of a user. The caller must
// be that user or an admin. Entries whose book no longer resolves are
// silently dropped.
func (s *ReservationService) HistoryByUser(ctx context.Context, targetUserID, callerID, callerRole string) ([]UserHistoryEntry, error) {
	if callerID != targetUserID && callerRole != models.RoleAdmin {
		return nil, domain.ErrNotAuthorized
	}

	reservations, err := s.reservationRepo.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	history := make([]UserHistoryEntry, 0, len(reservations))
	for _, r := range reservations {
		if r.Book == nil {
			continue
		}
		history = append(history, UserHistoryEntry{
			BookTitle:  r.Book.Title,
			ReservedAt: r.ReservedAt,
			DueDate:    r.DueDate,
			CreatedAt:  r.CreatedAt,
		})
	}

	return history, nil
}

// HistoryByBook returns the reservation history of a book. Route policy
// restricts this to admins. Entries whose user no longer resolves are
// silently dropped.
func (s *ReservationService) HistoryByBook(ctx context.Context, bookID string) ([]BookHistoryEntry, error) {
	reservations, err := s.reservationRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	history := make([]BookHistoryEntry, 0, len(reservations))
	for _, r := range reservations {
		if r.User == nil {
			continue
		}
		history = append(history, BookHistoryEntry{
			UserName:   r.User.Name,
			UserEmail:  r.User.Email,
			ReservedAt: r.ReservedAt,
			DueDate:    r.DueDate,
			CreatedAt:  r.CreatedAt,
		})
	}

	return history, nil
}
