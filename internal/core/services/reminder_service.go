package services

import (
	"context"
	"time"

	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// overdueSchedule runs the reminder scan every day at 08:30
const overdueSchedule = "30 8 * * *"

// ReminderService runs the daily overdue-reservation scan. There is no
// return flow, so overdue loans are only reported, never acted on.
type ReminderService struct {
	reservationRepo repositories.ReservationRepository
	cron            *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(reservationRepo repositories.ReservationRepository) *ReminderService {
	return &ReminderService{
		reservationRepo: reservationRepo,
		cron:            cron.New(),
	}
}

// Start schedules the daily scan
func (s *ReminderService) Start() {
	_, err := s.cron.AddFunc(overdueSchedule, s.ReportOverdue)
	if err != nil {
		logger.L().Error().Err(err).Msg("failed to schedule overdue scan")
		return
	}
	s.cron.Start()
	logger.L().Info().Str("schedule", overdueSchedule).Msg("overdue reminder scheduled")
}

// Stop stops the scheduler, waiting for a running scan to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.L().Info().Msg("overdue reminder stopped")
}

// ReportOverdue logs every reservation whose delivery date has passed
func (s *ReminderService) ReportOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := s.reservationRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		logger.L().Error().Err(err).Msg("overdue scan failed")
		return
	}

	for _, r := range overdue {
		evt := logger.L().Warn().
			Str("reservation_id", r.ID).
			Str("user_id", r.UserID).
			Str("book_id", r.BookID).
			Time("fecha_entrega", *r.DueDate)
		if r.Book != nil {
			evt = evt.Str("titulo", r.Book.Title)
		}
		if r.User != nil {
			evt = evt.Str("email", r.User.Email)
		}
		evt.Msg("reservation overdue")
	}

	logger.L().Info().Int("count", len(overdue)).Msg("overdue scan completed")
}
