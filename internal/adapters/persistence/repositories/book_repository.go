package repositories

import (
	"context"

	"libreserve/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Search finds books matching the filter, always excluding disabled books
func (r *bookRepository) Search(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	q := r.db.WithContext(ctx).Model(&models.Book{}).Where("disabled = ?", false)

	if filter.Name != nil {
		q = q.Where("name = ?", *filter.Name)
	}
	if filter.Author != nil {
		q = q.Where("author = ?", *filter.Author)
	}
	if filter.PubDate != nil {
		q = q.Where("pub_date = ?", *filter.PubDate)
	}
	if filter.Genre != nil {
		q = q.Where("genre = ?", *filter.Genre)
	}
	if filter.Publisher != nil {
		q = q.Where("publisher = ?", *filter.Publisher)
	}
	if filter.Reserved != nil {
		q = q.Where("reserved = ?", *filter.Reserved)
	}

	var books []models.Book
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// GetActiveByID gets a non-disabled book by ID
func (r *bookRepository) GetActiveByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ? AND disabled = ?", id, false).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByID gets a book by ID, disabled or not
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update persists the book record
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Reserve flips reserved from false to true in one conditional update.
// Concurrent callers race on the affected-row count, not on a prior read, so
// exactly one of them wins.
func (r *bookRepository) Reserve(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND disabled = ? AND reserved = ?", id, false, false).
		Update("reserved", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Release sets reserved back to false
func (r *bookRepository) Release(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("reserved", false).Error
}
