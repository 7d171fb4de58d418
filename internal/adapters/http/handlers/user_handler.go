package handlers

import (
	"errors"
	"strconv"
	"strings"

	"libreserve/internal/core/domain"
	"libreserve/internal/core/services"
	"libreserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user endpoints
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name        string              `json:"name"`
	IDNum       string              `json:"idNum"`
	Email       string              `json:"email"`
	Password    string              `json:"password"`
	Permissions *domain.Permissions `json:"permissions"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents update user request body
type UpdateUserRequest struct {
	Name        *string             `json:"name"`
	IDNum       *string             `json:"idNum"`
	Email       *string             `json:"email"`
	Password    *string             `json:"password"`
	Permissions *domain.Permissions `json:"permissions"`
	Disabled    *bool               `json:"disabled"`
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user, optionally with explicit permissions
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.IDNum == "" {
		return response.BadRequest(c, "ID number is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.RegisterInput{
		Name:        strings.TrimSpace(req.Name),
		IDNum:       strings.TrimSpace(req.IDNum),
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		Permissions: req.Permissions,
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return response.Conflict(c, "Email or ID number already exists")
		}
		return response.ServerError(c, "Failed to register user", err)
	}

	return response.Created(c, "User created successfully", fiber.Map{
		"user": user,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate by email and password; returns a token and the
// @Description user's reservation history
// @Tags Users
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Same response for unknown email and wrong password
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.ServerError(c, "Failed to login", err)
	}

	return response.Success(c, "Login successful", result)
}

// UpdateUser handles updating a user
// @Summary Update user
// @Description Update a user's fields; self or UPDATE-USERS required
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param body body UpdateUserRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{userId} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateUserInput{
		Name:        req.Name,
		IDNum:       req.IDNum,
		Email:       req.Email,
		Password:    req.Password,
		Permissions: req.Permissions,
		Disabled:    req.Disabled,
	}

	user, err := h.userService.UpdateUser(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrDuplicateIdentity):
			return response.Conflict(c, "Email or ID number already exists")
		default:
			return response.ServerError(c, "Failed to update user", err)
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// DisableUser handles disabling a user (soft delete)
// @Summary Disable user
// @Description Disable a user; self or DELETE-USERS required
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{userId} [delete]
func (h *UserHandler) DisableUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DisableUser(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.ServerError(c, "Failed to disable user", err)
	}

	return response.Success(c, "User disabled successfully", nil)
}
