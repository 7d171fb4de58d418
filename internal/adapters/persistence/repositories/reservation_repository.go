package repositories

import (
	"context"
	"time"

	"libreserve/internal/adapters/persistence/models"

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

// Create creates a new reservation record
func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// ListByBook returns the full reservation history for a book
func (r *reservationRepository) ListByBook(ctx context.Context, bookID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByUser returns the full reservation history for a user
func (r *reservationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindOpen returns the open reservation for the book/user pair
func (r *reservationRepository) FindOpen(ctx context.Context, bookID, userID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND user_id = ? AND return_date IS NULL", bookID, userID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Close stamps the return date on a reservation that is still open. The
// return_date IS NULL guard makes the close conditional, so a reservation
// can only be closed once.
func (r *reservationRepository) Close(ctx context.Context, id uint, returnedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND return_date IS NULL", id).
		Update("return_date", returnedAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListOpenBefore returns open reservations made before the cutoff
func (r *reservationRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("return_date IS NULL AND reservation_date < ?", cutoff).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}
