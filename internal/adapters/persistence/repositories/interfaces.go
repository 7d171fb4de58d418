package repositories

import (
	"context"
	"time"

	"libreserve/internal/adapters/persistence/models"
)

// BookFilter is a partial, exact-match filter over book attributes. Nil
// fields are ignored. Lookups built from it always exclude disabled books.
type BookFilter struct {
	Name      *string
	Author    *string
	PubDate   *time.Time
	Genre     *string
	Publisher *string
	Reserved  *bool
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID resolves any user, disabled or not; callers decide whether
	// disabled records are acceptable.
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetActiveByEmail resolves among non-disabled users only.
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByIDNum(ctx context.Context, idNum string) (bool, error)
}

// BookRepository defines book repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	// Search applies the filter with a forced disabled=false restriction.
	Search(ctx context.Context, filter BookFilter) ([]models.Book, error)
	// GetActiveByID resolves among non-disabled books only.
	GetActiveByID(ctx context.Context, id uint) (*models.Book, error)
	// GetByID resolves any book, disabled or not.
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	// Reserve atomically flips reserved from false to true for a
	// non-disabled book and reports whether this caller won the flip.
	Reserve(ctx context.Context, id uint) (bool, error)
	// Release sets reserved back to false.
	Release(ctx context.Context, id uint) error
}

// ReservationRepository defines reservation repository interface
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	ListByBook(ctx context.Context, bookID uint) ([]models.Reservation, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Reservation, error)
	// FindOpen returns the open reservation for the book/user pair, if any.
	FindOpen(ctx context.Context, bookID, userID uint) (*models.Reservation, error)
	// Close atomically sets the return date on a still-open reservation and
	// reports whether the reservation was open when the update ran.
	Close(ctx context.Context, id uint, returnedAt time.Time) (bool, error)
	// ListOpenBefore returns open reservations made before the cutoff.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error)
}
