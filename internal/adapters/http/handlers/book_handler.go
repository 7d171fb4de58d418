package handlers

import (
	"errors"
	"strconv"
	"time"

	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/core/domain"
	"libreserve/internal/core/services"
	"libreserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// pubDateLayout is the wire format for publication dates
const pubDateLayout = "2006-01-02"

// BookHandler handles book endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// CreateBookRequest represents book creation request body
type CreateBookRequest struct {
	Name      string `json:"name"`
	Author    string `json:"author"`
	PubDate   string `json:"pubDate"`
	Genre     string `json:"genre"`
	Publisher string `json:"publisher"`
}

// UpdateBookRequest represents book update request body
type UpdateBookRequest struct {
	Name      *string `json:"name"`
	Author    *string `json:"author"`
	PubDate   *string `json:"pubDate"`
	Genre     *string `json:"genre"`
	Publisher *string `json:"publisher"`
	Reserved  *bool   `json:"reserved"`
	Disabled  *bool   `json:"disabled"`
}

// Create handles book creation
// @Summary Create book
// @Description Create a new book; CREATE-BOOKS required
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Author == "" {
		return response.BadRequest(c, "Author is required")
	}
	if req.PubDate == "" {
		return response.BadRequest(c, "Publication date is required")
	}
	if req.Genre == "" {
		return response.BadRequest(c, "Genre is required")
	}
	if req.Publisher == "" {
		return response.BadRequest(c, "Publisher is required")
	}

	pubDate, err := parsePubDate(req.PubDate)
	if err != nil {
		return response.BadRequest(c, "Invalid publication date")
	}

	input := &services.CreateBookInput{
		Name:      req.Name,
		Author:    req.Author,
		PubDate:   pubDate,
		Genre:     req.Genre,
		Publisher: req.Publisher,
	}

	book, err := h.bookService.CreateBook(c.Context(), input)
	if err != nil {
		return response.ServerError(c, "Failed to create book", err)
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": book,
	})
}

// Search handles book search with partial filters
// @Summary Search books
// @Description Search non-disabled books by exact-match filters
// @Tags Books
// @Produce json
// @Param name query string false "Book name"
// @Param author query string false "Author"
// @Param pubDate query string false "Publication date (YYYY-MM-DD)"
// @Param genre query string false "Genre"
// @Param publisher query string false "Publisher"
// @Param reserved query bool false "Reserved flag"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /books [get]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	var filter repositories.BookFilter

	if v := c.Query("name"); v != "" {
		filter.Name = &v
	}
	if v := c.Query("author"); v != "" {
		filter.Author = &v
	}
	if v := c.Query("pubDate"); v != "" {
		pubDate, err := parsePubDate(v)
		if err != nil {
			return response.BadRequest(c, "Invalid publication date")
		}
		filter.PubDate = &pubDate
	}
	if v := c.Query("genre"); v != "" {
		filter.Genre = &v
	}
	if v := c.Query("publisher"); v != "" {
		filter.Publisher = &v
	}
	if v := c.Query("reserved"); v != "" {
		reserved, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid reserved value")
		}
		filter.Reserved = &reserved
	}

	books, err := h.bookService.SearchBooks(c.Context(), filter)
	if err != nil {
		return response.ServerError(c, "Failed to search books", err)
	}

	return response.Success(c, "Books found", fiber.Map{
		"results": books,
	})
}

// GetByID handles getting a book with its reservation history
// @Summary Get book by ID
// @Description Get a non-disabled book and its full reservation history
// @Tags Books
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{bookId} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	result, err := h.bookService.GetBook(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.ServerError(c, "Failed to get book", err)
	}

	return response.Success(c, "Book found", result)
}

// Update handles general book updates
// @Summary Update book
// @Description Update book fields; UPDATE-BOOKS required unless the payload
// @Description only toggles the reserved flag
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Param body body UpdateBookRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{bookId} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateBookInput{
		Name:      req.Name,
		Author:    req.Author,
		Genre:     req.Genre,
		Publisher: req.Publisher,
		Reserved:  req.Reserved,
		Disabled:  req.Disabled,
	}
	if req.PubDate != nil {
		pubDate, err := parsePubDate(*req.PubDate)
		if err != nil {
			return response.BadRequest(c, "Invalid publication date")
		}
		input.PubDate = &pubDate
	}

	book, err := h.bookService.UpdateBook(c.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.ServerError(c, "Failed to update book", err)
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": book,
	})
}

// Reserve handles the available -> reserved transition
// @Summary Reserve book
// @Description Reserve a book for the authenticated user
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{bookId}/reserve [post]
func (h *BookHandler) Reserve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.bookService.ReserveBook(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrAlreadyReserved):
			return response.BadRequest(c, "Book is already reserved")
		default:
			return response.ServerError(c, "Failed to reserve book", err)
		}
	}

	return response.Success(c, "Book reserved successfully", result)
}

// Return handles the reserved -> available transition
// @Summary Return book
// @Description Return a book previously reserved by the authenticated user
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{bookId}/return [post]
func (h *BookHandler) Return(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.bookService.ReturnBook(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, domain.ErrNotReserved):
			return response.BadRequest(c, "Book is not reserved")
		case errors.Is(err, domain.ErrNoActiveReservation):
			return response.NotFound(c, "No active reservation found for this book and user")
		default:
			return response.ServerError(c, "Failed to return book", err)
		}
	}

	return response.Success(c, "Book returned successfully", result)
}

// Disable handles disabling a book (soft delete)
// @Summary Disable book
// @Description Disable a book; DELETE-BOOKS required
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{bookId} [delete]
func (h *BookHandler) Disable(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.DisableBook(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.ServerError(c, "Failed to disable book", err)
	}

	return response.Success(c, "Book disabled successfully", nil)
}

// parsePubDate parses a date-only value, falling back to RFC 3339
func parsePubDate(value string) (time.Time, error) {
	if t, err := time.Parse(pubDateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
