package services

import (
	"context"
	"testing"
	"time"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	userRepo *fakeUserRepo
	bookRepo *fakeBookRepo
	resRepo  *fakeReservationRepo
	svc      *ReservationService
}

func newReservationFixture() *reservationFixture {
	userRepo := newFakeUserRepo()
	bookRepo := newFakeBookRepo()
	resRepo := newFakeReservationRepo(bookRepo, userRepo)
	return &reservationFixture{
		userRepo: userRepo,
		bookRepo: bookRepo,
		resRepo:  resRepo,
		svc:      NewReservationService(resRepo, bookRepo),
	}
}

func (f *reservationFixture) seedBook(t *testing.T, title string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:     title,
		Author:    "Autor",
		Available: true,
		Active:    true,
	}
	require.NoError(t, f.bookRepo.Create(context.Background(), book))
	return book
}

func TestReserveFlipsAvailability(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	due := time.Now().AddDate(0, 0, 14)
	reservation, err := f.svc.Reserve(context.Background(), reader.ID, book.ID, &due)
	require.NoError(t, err)

	assert.NotEmpty(t, reservation.ID)
	assert.Equal(t, reader.ID, reservation.UserID)
	assert.Equal(t, book.ID, reservation.BookID)
	assert.False(t, reservation.ReservedAt.IsZero())
	require.NotNil(t, reservation.DueDate)

	stored, err := f.bookRepo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.False(t, stored.Available)
}

func TestReserveWithoutDueDate(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	reservation, err := f.svc.Reserve(context.Background(), reader.ID, book.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, reservation.DueDate)
}

func TestReserveTakenBook(t *testing.T) {
	f := newReservationFixture()
	ana := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	luis := seedUser(t, f.userRepo, "Luis", "luis@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	_, err := f.svc.Reserve(context.Background(), ana.ID, book.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Reserve(context.Background(), luis.ID, book.ID, nil)
	assert.ErrorIs(t, err, domain.ErrBookAlreadyReserved)
}

func TestReserveMissingAndDeactivatedLookAlike(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)

	_, missingErr := f.svc.Reserve(context.Background(), reader.ID, "00000000-0000-0000-0000-000000000000", nil)

	book := f.seedBook(t, "Oculto")
	require.NoError(t, f.bookRepo.Deactivate(context.Background(), book.ID))
	_, deactivatedErr := f.svc.Reserve(context.Background(), reader.ID, book.ID, nil)

	// Callers must not learn whether a hidden record exists.
	assert.ErrorIs(t, missingErr, domain.ErrBookUnavailable)
	assert.ErrorIs(t, deactivatedErr, domain.ErrBookUnavailable)
	assert.Equal(t, missingErr, deactivatedErr)
}

func TestReserveLostRaceIsClean(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	// Flip availability after the service's pre-check would have passed.
	require.NoError(t, f.resRepo.ReserveBook(context.Background(), &models.Reservation{
		UserID: "otro", BookID: book.ID, ReservedAt: time.Now(),
	}))

	before := len(f.resRepo.reservations)
	_, err := f.svc.Reserve(context.Background(), reader.ID, book.ID, nil)
	assert.ErrorIs(t, err, domain.ErrBookAlreadyReserved)
	// The losing attempt leaves no reservation behind.
	assert.Len(t, f.resRepo.reservations, before)
}

func TestHistoryByUserSelf(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	_, err := f.svc.Reserve(context.Background(), reader.ID, book.ID, nil)
	require.NoError(t, err)

	history, err := f.svc.HistoryByUser(context.Background(), reader.ID, reader.ID, reader.Role)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Ficciones", history[0].BookTitle)
}

func TestHistoryByUserForbiddenForOthers(t *testing.T) {
	f := newReservationFixture()
	ana := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	luis := seedUser(t, f.userRepo, "Luis", "luis@example.com", models.RoleEditor)

	_, err := f.svc.HistoryByUser(context.Background(), ana.ID, luis.ID, luis.Role)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestHistoryByUserAdminSeesAny(t *testing.T) {
	f := newReservationFixture()
	ana := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	admin := seedUser(t, f.userRepo, "Admin", "admin@example.com", models.RoleAdmin)
	book := f.seedBook(t, "Ficciones")

	_, err := f.svc.Reserve(context.Background(), ana.ID, book.ID, nil)
	require.NoError(t, err)

	history, err := f.svc.HistoryByUser(context.Background(), ana.ID, admin.ID, admin.Role)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHistoryByUserEmptyIsNotNil(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)

	history, err := f.svc.HistoryByUser(context.Background(), reader.ID, reader.ID, reader.Role)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestHistoryByBook(t *testing.T) {
	f := newReservationFixture()
	ana := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	_, err := f.svc.Reserve(context.Background(), ana.ID, book.ID, nil)
	require.NoError(t, err)

	history, err := f.svc.HistoryByBook(context.Background(), book.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Ana", history[0].UserName)
	assert.Equal(t, "ana@example.com", history[0].UserEmail)
}

func TestHistorySkipsUnresolvedReferences(t *testing.T) {
	f := newReservationFixture()
	ana := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	book := f.seedBook(t, "Ficciones")

	_, err := f.svc.Reserve(context.Background(), ana.ID, book.ID, nil)
	require.NoError(t, err)

	// A dangling user reference drops the row instead of failing the listing.
	f.resRepo.reservations[0].UserID = "00000000-0000-0000-0000-000000000000"

	history, err := f.svc.HistoryByBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReportOverdueScan(t *testing.T) {
	f := newReservationFixture()
	reader := seedUser(t, f.userRepo, "Ana", "ana@example.com", models.RoleReader)
	late := f.seedBook(t, "Atrasado")
	onTime := f.seedBook(t, "En plazo")

	past := time.Now().AddDate(0, 0, -3)
	_, err := f.svc.Reserve(context.Background(), reader.ID, late.ID, &past)
	require.NoError(t, err)

	future := time.Now().AddDate(0, 0, 7)
	_, err = f.svc.Reserve(context.Background(), reader.ID, onTime.ID, &future)
	require.NoError(t, err)

	overdue, err := f.resRepo.ListOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].BookID)
}
