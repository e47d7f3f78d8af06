package repositories

import (
	"context"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/core/domain"

	"gorm.io/gorm"
)

// reservationRepository implements ReservationRepository interface
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// ReserveBook performs the reserve-and-flip pair as a single transaction.
// The availability flip is a conditional update: it only lands while the
// book is still active and available, so two racing callers cannot both
// book the same copy — the loser sees zero rows affected and the whole
// transaction rolls back.
func (r *reservationRepository) ReserveBook(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND disponible = ? AND activo = ?", reservation.BookID, true, true).
			Update("disponible", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrBookAlreadyReserved
		}

		return tx.Create(reservation).Error
	})
}

// ListByUser lists reservations of a user, newest first, with the book loaded
func (r *reservationRepository) ListByUser(ctx context.Context, userID string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("usuario_id = ?", userID).
		Order("fecha_creacion DESC").
		Find(&reservations).Error
	return reservations, err
}

// ListByBook lists reservations of a book, newest first, with the user loaded
func (r *reservationRepository) ListByBook(ctx context.Context, bookID string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("libro_id = ?", bookID).
		Order("fecha_creacion DESC").
		Find(&reservations).Error
	return reservations, err
}

// ListOverdue lists reservations whose delivery date has passed
func (r *reservationRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("fecha_entrega IS NOT NULL AND fecha_entrega < ?", now).
		Order("fecha_entrega ASC").
		Find(&reservations).Error
	return reservations, err
}
