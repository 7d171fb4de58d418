package models

import (
	"time"

	"libreserve/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table. Disabled is an explicit flag rather than a
// GORM soft delete: disabled rows must keep blocking email/idNum reuse and
// stay reachable for reservation history.
type User struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"size:100;not null" json:"name"`
	IDNum       string             `gorm:"uniqueIndex;size:30;not null" json:"idNum"`
	Email       string             `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string             `gorm:"size:255;not null" json:"-"`
	Permissions domain.Permissions `gorm:"embedded;embeddedPrefix:perm_" json:"permissions"`
	Disabled    bool               `gorm:"default:false" json:"disabled"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO; never carries the password hash
type UserResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	IDNum       string             `json:"idNum"`
	Email       string             `json:"email"`
	Permissions domain.Permissions `json:"permissions"`
	Disabled    bool               `json:"disabled"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		IDNum:       u.IDNum,
		Email:       u.Email,
		Permissions: u.Permissions,
		Disabled:    u.Disabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Book represents books table
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null;index" json:"name"`
	Author    string    `gorm:"size:100;not null;index" json:"author"`
	PubDate   time.Time `gorm:"not null" json:"pubDate"`
	Genre     string    `gorm:"size:50;not null" json:"genre"`
	Publisher string    `gorm:"size:100;not null" json:"publisher"`
	Reserved  bool      `gorm:"default:false" json:"reserved"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Book) TableName() string {
	return "books"
}

// Reservation represents reservations table. Rows are never deleted; a nil
// ReturnDate marks the open reservation. Book and user are referenced by id
// only, no foreign key constraints.
type Reservation struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BookID          uint       `gorm:"index;not null" json:"bookId"`
	UserID          uint       `gorm:"index;not null" json:"userId"`
	ReservationDate time.Time  `gorm:"autoCreateTime" json:"reservationDate"`
	ReturnDate      *time.Time `json:"returnDate"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// IsOpen reports whether the reservation has not been returned yet.
func (r *Reservation) IsOpen() bool {
	return r.ReturnDate == nil
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Book{},
		&Reservation{},
	)
}
