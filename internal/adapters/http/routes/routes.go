package routes

import (
	"biblioteca-api/internal/adapters/http/handlers"
	"biblioteca-api/internal/adapters/http/middleware"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/config"
	"biblioteca-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the app
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo)
	reservationService := services.NewReservationService(reservationRepo, bookRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	auth := middleware.AuthMiddleware(cfg)

	// Health endpoints
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api/v1")

	// User routes
	usuarios := api.Group("/usuarios")
	usuarios.Post("/register", authHandler.Register)
	usuarios.Post("/login", authHandler.Login)
	usuarios.Get("/me", auth, userHandler.Me)
	// Ownership (self or admin) is enforced in the service layer
	usuarios.Put("/:id", auth, userHandler.Update)
	usuarios.Delete("/:id", auth, userHandler.Deactivate)

	// Book routes
	libros := api.Group("/libros")
	libros.Get("/", bookHandler.List)
	libros.Get("/:id", bookHandler.GetByID)
	libros.Post("/", auth, middleware.EditorOrAdmin(), bookHandler.Create)
	libros.Put("/:id", auth, middleware.EditorOrAdmin(), bookHandler.Update)
	libros.Delete("/:id", auth, middleware.AdminOnly(), bookHandler.Deactivate)

	// Reservation routes
	reservas := api.Group("/reservas")
	reservas.Post("/", auth, reservationHandler.Create)
	reservas.Get("/usuario/:id", auth, reservationHandler.HistoryByUser)
	reservas.Get("/libro/:id", auth, middleware.AdminOnly(), reservationHandler.HistoryByBook)
}
