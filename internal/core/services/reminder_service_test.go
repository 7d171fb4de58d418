package services

import (
	"context"
	"testing"
	"time"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
)

func TestOverdueFindsOnlyOldOpenReservations(t *testing.T) {
	reservationRepo := repositories.NewMemoryReservationRepository()
	svc := NewReminderService(reservationRepo, newTestConfig())
	ctx := context.Background()

	oldDate := time.Now().AddDate(0, 0, -30)
	recentDate := time.Now().AddDate(0, 0, -2)

	overdueOpen := &models.Reservation{BookID: 1, UserID: 1, ReservationDate: oldDate}
	if err := reservationRepo.Create(ctx, overdueOpen); err != nil {
		t.Fatalf("seed: %v", err)
	}

	returned := &models.Reservation{BookID: 2, UserID: 1, ReservationDate: oldDate}
	if err := reservationRepo.Create(ctx, returned); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if closed, err := reservationRepo.Close(ctx, returned.ID, time.Now()); err != nil || !closed {
		t.Fatalf("close: closed=%v err=%v", closed, err)
	}

	recent := &models.Reservation{BookID: 3, UserID: 2, ReservationDate: recentDate}
	if err := reservationRepo.Create(ctx, recent); err != nil {
		t.Fatalf("seed: %v", err)
	}

	overdue, err := svc.Overdue(ctx)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("expected 1 overdue reservation, got %d", len(overdue))
	}
	if overdue[0].ID != overdueOpen.ID {
		t.Fatalf("wrong reservation flagged overdue: %+v", overdue[0])
	}
}

func TestOverdueEmptyRepository(t *testing.T) {
	svc := NewReminderService(repositories.NewMemoryReservationRepository(), newTestConfig())

	overdue, err := svc.Overdue(context.Background())
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 0 {
		t.Fatalf("expected no overdue reservations, got %d", len(overdue))
	}
}
