package services

import (
	"context"
	"errors"
	"log"
	"time"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/core/domain"

	"gorm.io/gorm"
)

// BookService handles book lifecycle business logic: create, search, update,
// soft delete, and the reserve/return state machine.
type BookService struct {
	bookRepo        repositories.BookRepository
	reservationRepo repositories.ReservationRepository
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repositories.BookRepository,
	reservationRepo repositories.ReservationRepository,
) *BookService {
	return &BookService{
		bookRepo:        bookRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateBookInput represents book creation input
type CreateBookInput struct {
	Name      string
	Author    string
	PubDate   time.Time
	Genre     string
	Publisher string
}

// UpdateBookInput represents a partial book update
type UpdateBookInput struct {
	Name      *string
	Author    *string
	PubDate   *time.Time
	Genre     *string
	Publisher *string
	Reserved  *bool
	Disabled  *bool
}

// BookWithHistory pairs a book with its full reservation history
type BookWithHistory struct {
	Book               *models.Book         `json:"book"`
	ReservationHistory []models.Reservation `json:"reservationHistory"`
}

// ReservationResult is the outcome of a reserve or return transition
type ReservationResult struct {
	Book        *models.Book        `json:"book"`
	Reservation *models.Reservation `json:"reservation"`
}

// CreateBook creates a new book, unreserved and enabled
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	book := &models.Book{
		Name:      input.Name,
		Author:    input.Author,
		PubDate:   input.PubDate,
		Genre:     input.Genre,
		Publisher: input.Publisher,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("✅ Book created: %s (%s)", book.Name, book.Author)
	return book, nil
}

// SearchBooks finds books matching the filter. Disabled books never appear
// regardless of caller-supplied filter values.
func (s *BookService) SearchBooks(ctx context.Context, filter repositories.BookFilter) ([]models.Book, error) {
	return s.bookRepo.Search(ctx, filter)
}

// GetBook returns a non-disabled book and its full reservation history
func (s *BookService) GetBook(ctx context.Context, id uint) (*BookWithHistory, error) {
	book, err := s.bookRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	history, err := s.reservationRepo.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookWithHistory{
		Book:               book,
		ReservationHistory: history,
	}, nil
}

// UpdateBook applies the provided fields to the book. Flipping Reserved here
// touches only the flag; no reservation record is written.
func (s *BookService) UpdateBook(ctx context.Context, id uint, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.PubDate != nil {
		book.PubDate = *input.PubDate
	}
	if input.Genre != nil {
		book.Genre = *input.Genre
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.Reserved != nil {
		book.Reserved = *input.Reserved
	}
	if input.Disabled != nil {
		book.Disabled = *input.Disabled
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// ReserveBook transitions the book from available to reserved for the acting
// user. The flip is a single conditional update at the store: the caller that
// wins it creates the open reservation record, every other concurrent caller
// loses with ErrAlreadyReserved.
func (s *BookService) ReserveBook(ctx context.Context, bookID, userID uint) (*ReservationResult, error) {
	if _, err := s.bookRepo.GetActiveByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	won, err := s.bookRepo.Reserve(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrAlreadyReserved
	}

	reservation := &models.Reservation{
		BookID: bookID,
		UserID: userID,
	}
	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetActiveByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Book %d reserved by user %d", bookID, userID)

	return &ReservationResult{
		Book:        book,
		Reservation: reservation,
	}, nil
}

// ReturnBook transitions the book from reserved to available. Only the user
// holding the open reservation can return it; anyone else fails with
// ErrNoActiveReservation even though the book is flagged reserved.
func (s *BookService) ReturnBook(ctx context.Context, bookID, userID uint) (*ReservationResult, error) {
	book, err := s.bookRepo.GetActiveByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if !book.Reserved {
		return nil, domain.ErrNotReserved
	}

	reservation, err := s.reservationRepo.FindOpen(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveReservation
		}
		return nil, err
	}

	returnedAt := time.Now()
	closed, err := s.reservationRepo.Close(ctx, reservation.ID, returnedAt)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost a race against another return of the same reservation.
		return nil, domain.ErrNoActiveReservation
	}
	reservation.ReturnDate = &returnedAt

	if err := s.bookRepo.Release(ctx, bookID); err != nil {
		return nil, err
	}
	book.Reserved = false

	log.Printf("✅ Book %d returned by user %d", bookID, userID)

	return &ReservationResult{
		Book:        book,
		Reservation: reservation,
	}, nil
}

// DisableBook marks the book as disabled, hiding it from search, lookup and
// reservation paths. The reserved flag is left as is.
func (s *BookService) DisableBook(ctx context.Context, id uint) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	book.Disabled = true
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return err
	}

	log.Printf("✅ Book disabled: %d", id)
	return nil
}
