package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/core/domain"
)

func newBookService() (*BookService, *repositories.MemoryBookRepository, *repositories.MemoryReservationRepository) {
	bookRepo := repositories.NewMemoryBookRepository()
	reservationRepo := repositories.NewMemoryReservationRepository()
	return NewBookService(bookRepo, reservationRepo), bookRepo, reservationRepo
}

func seedBook(t *testing.T, svc *BookService, name string) *models.Book {
	t.Helper()
	book, err := svc.CreateBook(context.Background(), &CreateBookInput{
		Name:      name,
		Author:    "Some Author",
		PubDate:   time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC),
		Genre:     "Fiction",
		Publisher: "Some House",
	})
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func boolPtr(b bool) *bool { return &b }

func TestCreateBookStartsAvailable(t *testing.T) {
	svc, _, _ := newBookService()

	book := seedBook(t, svc, "Dune")
	if book.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if book.Reserved || book.Disabled {
		t.Fatalf("new book should be available and enabled: %+v", book)
	}
}

func TestSearchBooksExcludesDisabled(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	visible := seedBook(t, svc, "Visible")
	hidden := seedBook(t, svc, "Hidden")
	if err := svc.DisableBook(ctx, hidden.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}

	books, err := svc.SearchBooks(ctx, repositories.BookFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(books) != 1 || books[0].ID != visible.ID {
		t.Fatalf("expected only the visible book, got %+v", books)
	}

	// Even asking for them by name turns up nothing
	name := "Hidden"
	books, err = svc.SearchBooks(ctx, repositories.BookFilter{Name: &name})
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("disabled book leaked through search: %+v", books)
	}
}

func TestSearchBooksByReservedFlag(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	free := seedBook(t, svc, "Free")
	taken := seedBook(t, svc, "Taken")
	if _, err := svc.ReserveBook(ctx, taken.ID, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	books, err := svc.SearchBooks(ctx, repositories.BookFilter{Reserved: boolPtr(false)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(books) != 1 || books[0].ID != free.ID {
		t.Fatalf("expected only the free book, got %+v", books)
	}
}

func TestGetBookWithHistory(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Emma")
	if _, err := svc.ReserveBook(ctx, book.ID, 7); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := svc.ReturnBook(ctx, book.ID, 7); err != nil {
		t.Fatalf("return: %v", err)
	}

	got, err := svc.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Book.ID != book.ID {
		t.Fatalf("wrong book: %+v", got.Book)
	}
	if len(got.ReservationHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(got.ReservationHistory))
	}
	if got.ReservationHistory[0].IsOpen() {
		t.Fatalf("returned reservation still open")
	}
}

func TestGetBookDisabledIsNotFound(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Gone")
	if err := svc.DisableBook(ctx, book.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}

	if _, err := svc.GetBook(ctx, book.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for disabled book, got: %v", err)
	}
}

func TestUpdateBookFlagFlipWritesNoReservation(t *testing.T) {
	svc, _, reservationRepo := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Flagged")

	updated, err := svc.UpdateBook(ctx, book.ID, &UpdateBookInput{Reserved: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Reserved {
		t.Fatalf("reserved flag not applied")
	}

	history, _ := reservationRepo.ListByBook(ctx, book.ID)
	if len(history) != 0 {
		t.Fatalf("flag flip must not create reservation records, got %d", len(history))
	}
}

func TestReserveBookCreatesSingleOpenReservation(t *testing.T) {
	svc, bookRepo, reservationRepo := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Popular")

	result, err := svc.ReserveBook(ctx, book.ID, 5)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !result.Book.Reserved {
		t.Fatalf("book not flagged reserved")
	}
	if result.Reservation.UserID != 5 || result.Reservation.BookID != book.ID {
		t.Fatalf("reservation mis-attributed: %+v", result.Reservation)
	}
	if !result.Reservation.IsOpen() {
		t.Fatalf("fresh reservation should be open")
	}

	// Second attempt loses and leaves no extra record
	if _, err := svc.ReserveBook(ctx, book.ID, 6); !errors.Is(err, domain.ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved, got: %v", err)
	}
	history, _ := reservationRepo.ListByBook(ctx, book.ID)
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 reservation record, got %d", len(history))
	}

	stored, _ := bookRepo.GetActiveByID(ctx, book.ID)
	if !stored.Reserved {
		t.Fatalf("reserved flag lost")
	}
}

func TestReserveBookMissingOrDisabled(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	if _, err := svc.ReserveBook(ctx, 99, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing book, got: %v", err)
	}

	book := seedBook(t, svc, "Retired")
	if err := svc.DisableBook(ctx, book.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := svc.ReserveBook(ctx, book.ID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for disabled book, got: %v", err)
	}
}

func TestReturnBookOnlyByReserver(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Borrowed")
	if _, err := svc.ReserveBook(ctx, book.ID, 5); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// A different user cannot return it
	if _, err := svc.ReturnBook(ctx, book.ID, 6); !errors.Is(err, domain.ErrNoActiveReservation) {
		t.Fatalf("expected ErrNoActiveReservation for wrong user, got: %v", err)
	}

	result, err := svc.ReturnBook(ctx, book.ID, 5)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if result.Book.Reserved {
		t.Fatalf("book still flagged reserved after return")
	}
	if result.Reservation.ReturnDate == nil {
		t.Fatalf("return date not set")
	}
	if result.Reservation.ReturnDate.Before(result.Reservation.ReservationDate) {
		t.Fatalf("return date precedes reservation date")
	}
}

func TestReturnBookNotReserved(t *testing.T) {
	svc, _, _ := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Idle")
	if _, err := svc.ReturnBook(ctx, book.ID, 1); !errors.Is(err, domain.ErrNotReserved) {
		t.Fatalf("expected ErrNotReserved, got: %v", err)
	}
}

func TestReserveAgainAfterReturn(t *testing.T) {
	svc, _, reservationRepo := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Cycle")

	if _, err := svc.ReserveBook(ctx, book.ID, 5); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if _, err := svc.ReturnBook(ctx, book.ID, 5); err != nil {
		t.Fatalf("return: %v", err)
	}
	if _, err := svc.ReserveBook(ctx, book.ID, 6); err != nil {
		t.Fatalf("second reserve: %v", err)
	}

	history, _ := reservationRepo.ListByBook(ctx, book.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 reservation records, got %d", len(history))
	}
	open := 0
	for _, res := range history {
		if res.IsOpen() {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("expected exactly 1 open reservation, got %d", open)
	}
}

func TestDisableBookKeepsReservedFlag(t *testing.T) {
	svc, bookRepo, _ := newBookService()
	ctx := context.Background()

	book := seedBook(t, svc, "Checked Out")
	if _, err := svc.ReserveBook(ctx, book.ID, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := svc.DisableBook(ctx, book.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}

	stored, err := bookRepo.GetByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Disabled {
		t.Fatalf("book not disabled")
	}
	if !stored.Reserved {
		t.Fatalf("disable must leave the reserved flag alone")
	}
}
