package services

import (
	"context"
	"errors"
	"log"

	"libreserve/internal/adapters/persistence/models"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/config"
	"libreserve/internal/core/domain"
	"libreserve/internal/pkg/jwt"
	"libreserve/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo        repositories.UserRepository
	reservationRepo repositories.ReservationRepository
	cfg             *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	reservationRepo repositories.ReservationRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
	}
}

// RegisterInput represents registration input. Permissions, when present,
// overrides the all-false default verbatim.
type RegisterInput struct {
	Name        string
	IDNum       string
	Email       string
	Password    string
	Permissions *domain.Permissions
}

// LoginInput represents login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents a successful login: token, user without the
// password hash, and the user's full reservation history.
type LoginOutput struct {
	Token              string               `json:"token"`
	User               *models.UserResponse `json:"user"`
	ReservationHistory []models.Reservation `json:"reservationHistory"`
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	// Email and ID number stay unique across disabled records too
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	exists, err = s.userRepo.ExistsByIDNum(ctx, input.IDNum)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		IDNum:    input.IDNum,
		Email:    input.Email,
		Password: hashedPassword,
	}
	if input.Permissions != nil {
		user.Permissions = *input.Permissions
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (IDNum: %s)", user.Email, user.IDNum)

	return user.ToResponse(), nil
}

// Login authenticates a user and issues an access token. Unknown email and
// wrong password both come back as ErrInvalidCredentials so the response
// does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetActiveByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.Permissions,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	history, err := s.reservationRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &LoginOutput{
		Token:              token,
		User:               user.ToResponse(),
		ReservationHistory: history,
	}, nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}
