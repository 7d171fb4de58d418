package routes

import (
	"libreserve/internal/adapters/http/handlers"
	"libreserve/internal/adapters/http/middleware"
	"libreserve/internal/adapters/persistence/repositories"
	"libreserve/internal/config"
	"libreserve/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and registers all routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	userRepo := repositories.NewUserRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)

	Register(app, cfg, userRepo, bookRepo, reservationRepo)
}

// Register wires routes on top of already-constructed repositories. Split
// from Setup so tests can plug in the in-memory repositories.
func Register(
	app *fiber.App,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	bookRepo repositories.BookRepository,
	reservationRepo repositories.ReservationRepository,
) {
	// Services
	authService := services.NewAuthService(userRepo, reservationRepo, cfg)
	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo, reservationRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(authService, userService)
	bookHandler := handlers.NewBookHandler(bookService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	auth := middleware.AuthMiddleware(cfg, userRepo)

	api := app.Group("/api")

	// User routes
	userRoutes := api.Group("/users")
	userRoutes.Post("/register", middleware.AuthRateLimiter(), userHandler.Register)
	userRoutes.Post("/login", middleware.AuthRateLimiter(), userHandler.Login)
	userRoutes.Put("/:userId", auth, middleware.CanModifyUser(), userHandler.UpdateUser)
	userRoutes.Delete("/:userId", auth, middleware.CanDisableUser(), userHandler.DisableUser)

	// Book routes
	bookRoutes := api.Group("/books")
	bookRoutes.Get("/", bookHandler.Search)
	bookRoutes.Get("/:bookId", bookHandler.GetByID)
	bookRoutes.Post("/", auth, middleware.CanCreateBook(), bookHandler.Create)
	bookRoutes.Put("/:bookId", auth, middleware.CanModifyBook(), bookHandler.Update)
	bookRoutes.Post("/:bookId/reserve", auth, bookHandler.Reserve)
	bookRoutes.Post("/:bookId/return", auth, bookHandler.Return)
	bookRoutes.Delete("/:bookId", auth, middleware.CanDisableBook(), bookHandler.Disable)

	// Generic catch-all for unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Route not found",
		})
	})
}
