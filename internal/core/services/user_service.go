package services

import (
	"context"
	"errors"
	"log"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/core/domain"
	"libreserve/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserInput represents a partial user update
type UpdateUserInput struct {
	Name        *string
	IDNum       *string
	Email       *string
	Password    *string
	Permissions *domain.Permissions
	Disabled    *bool
}

// UpdateUser applies the provided fields to the user. A provided password is
// re-hashed before persistence.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IDNum != nil && *input.IDNum != user.IDNum {
		exists, err := s.userRepo.ExistsByIDNum(ctx, *input.IDNum)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateIdentity
		}
		user.IDNum = *input.IDNum
	}
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateIdentity
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if input.Permissions != nil {
		user.Permissions = *input.Permissions
	}
	if input.Disabled != nil {
		user.Disabled = *input.Disabled
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// DisableUser marks the user as disabled. The flag is terminal: a disabled
// user can no longer log in, but the record stays for history. Repeated
// calls succeed as long as the id resolves.
func (s *UserService) DisableUser(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	user.Disabled = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ User disabled: %d", id)
	return nil
}
