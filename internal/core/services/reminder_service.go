package services

import (
	"context"
	"log"
	"time"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/config"

	"github.com/robfig/cron/v3"
)

// ReminderService periodically reports reservations that have been open
// longer than the configured threshold. It only logs; nothing is mutated.
type ReminderService struct {
	reservationRepo repositories.ReservationRepository
	schedule        string
	overdueDays     int
	cron            *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(reservationRepo repositories.ReservationRepository, cfg *config.Config) *ReminderService {
	return &ReminderService{
		reservationRepo: reservationRepo,
		schedule:        cfg.Reminder.Schedule,
		overdueDays:     cfg.Reminder.OverdueDays,
		cron:            cron.New(),
	}
}

// Start schedules the overdue scan
func (s *ReminderService) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		log.Printf("❌ Failed to schedule overdue reminder: %v", err)
		return
	}
	s.cron.Start()
	log.Printf("✅ Overdue reminder scheduled [%s, threshold %d days]", s.schedule, s.overdueDays)
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
}

func (s *ReminderService) run() {
	overdue, err := s.Overdue(context.Background())
	if err != nil {
		log.Printf("❌ Overdue reservation scan failed: %v", err)
		return
	}

	for _, r := range overdue {
		log.Printf("⏰ Overdue reservation %d: book %d held by user %d since %s",
			r.ID, r.BookID, r.UserID, r.ReservationDate.Format("2006-01-02"))
	}
	if len(overdue) == 0 {
		log.Println("✅ No overdue reservations")
	}
}

// Overdue returns open reservations older than the configured threshold
func (s *ReminderService) Overdue(ctx context.Context) ([]models.Reservation, error) {
	cutoff := time.Now().AddDate(0, 0, -s.overdueDays)
	return s.reservationRepo.ListOpenBefore(ctx, cutoff)
}
