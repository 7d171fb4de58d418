package repositories

import (
	"context"
	"sync"
	"time"

	"libreserve/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory implementations of the repository interfaces. They mirror the
// GORM implementations' behavior, including gorm.ErrRecordNotFound on missing
// rows and the conditional-update semantics of Reserve and Close, so services
// can run against them without a database.

// MemoryUserRepository is an in-memory UserRepository
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: make(map[uint]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetActiveByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && !user.Disabled {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) ExistsByIDNum(_ context.Context, idNum string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.IDNum == idNum {
			return true, nil
		}
	}
	return false, nil
}

// MemoryBookRepository is an in-memory BookRepository
type MemoryBookRepository struct {
	mu     sync.Mutex
	nextID uint
	books  map[uint]models.Book
}

// NewMemoryBookRepository creates an empty in-memory book repository
func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{nextID: 1, books: make(map[uint]models.Book)}
}

func (r *MemoryBookRepository) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book.ID = r.nextID
	r.nextID++
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	r.books[book.ID] = *book
	return nil
}

func (r *MemoryBookRepository) Search(_ context.Context, filter BookFilter) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var books []models.Book
	for id := uint(1); id < r.nextID; id++ {
		book, ok := r.books[id]
		if !ok || book.Disabled {
			continue
		}
		if filter.Name != nil && book.Name != *filter.Name {
			continue
		}
		if filter.Author != nil && book.Author != *filter.Author {
			continue
		}
		if filter.PubDate != nil && !book.PubDate.Equal(*filter.PubDate) {
			continue
		}
		if filter.Genre != nil && book.Genre != *filter.Genre {
			continue
		}
		if filter.Publisher != nil && book.Publisher != *filter.Publisher {
			continue
		}
		if filter.Reserved != nil && book.Reserved != *filter.Reserved {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

func (r *MemoryBookRepository) GetActiveByID(_ context.Context, id uint) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok || book.Disabled {
		return nil, gorm.ErrRecordNotFound
	}
	return &book, nil
}

func (r *MemoryBookRepository) GetByID(_ context.Context, id uint) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &book, nil
}

func (r *MemoryBookRepository) Update(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	book.UpdatedAt = time.Now()
	r.books[book.ID] = *book
	return nil
}

func (r *MemoryBookRepository) Reserve(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok || book.Disabled || book.Reserved {
		return false, nil
	}
	book.Reserved = true
	book.UpdatedAt = time.Now()
	r.books[id] = book
	return true, nil
}

func (r *MemoryBookRepository) Release(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return nil
	}
	book.Reserved = false
	book.UpdatedAt = time.Now()
	r.books[id] = book
	return nil
}

// MemoryReservationRepository is an in-memory ReservationRepository
type MemoryReservationRepository struct {
	mu           sync.Mutex
	nextID       uint
	reservations map[uint]models.Reservation
}

// NewMemoryReservationRepository creates an empty in-memory reservation repository
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{nextID: 1, reservations: make(map[uint]models.Reservation)}
}

func (r *MemoryReservationRepository) Create(_ context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation.ID = r.nextID
	r.nextID++
	if reservation.ReservationDate.IsZero() {
		reservation.ReservationDate = time.Now()
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *MemoryReservationRepository) ListByBook(_ context.Context, bookID uint) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Reservation
	for id := uint(1); id < r.nextID; id++ {
		if res, ok := r.reservations[id]; ok && res.BookID == bookID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *MemoryReservationRepository) ListByUser(_ context.Context, userID uint) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Reservation
	for id := uint(1); id < r.nextID; id++ {
		if res, ok := r.reservations[id]; ok && res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *MemoryReservationRepository) FindOpen(_ context.Context, bookID, userID uint) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := uint(1); id < r.nextID; id++ {
		res, ok := r.reservations[id]
		if ok && res.BookID == bookID && res.UserID == userID && res.ReturnDate == nil {
			out := res
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryReservationRepository) Close(_ context.Context, id uint, returnedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok || res.ReturnDate != nil {
		return false, nil
	}
	at := returnedAt
	res.ReturnDate = &at
	r.reservations[id] = res
	return true, nil
}

func (r *MemoryReservationRepository) ListOpenBefore(_ context.Context, cutoff time.Time) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Reservation
	for id := uint(1); id < r.nextID; id++ {
		res, ok := r.reservations[id]
		if ok && res.ReturnDate == nil && res.ReservationDate.Before(cutoff) {
			out = append(out, res)
		}
	}
	return out, nil
}
