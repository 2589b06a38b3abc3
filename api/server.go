package api

import (
	"github.com/gofiber/fiber/v2"

	"matka/application"
)

// Server wraps the Fiber app exposing the platform's HTTP surface
type Server struct {
	app *fiber.App
}

// NewServer builds the HTTP server around the application facade
func NewServer(app *application.App) *Server {
	f := fiber.New(fiber.Config{
		AppName:               "matka-settlement",
		DisableStartupMessage: true,
	})

	h := &handlers{app: app}

	f.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := f.Group("/api")
	api.Get("/bazaars", h.listBazaars)
	api.Post("/bets", h.placeBet)
	api.Post("/bets/:id/cancel", h.cancelBet)
	api.Get("/users/:id/wallet", h.getWallet)
	api.Get("/users/:id/transactions", h.getTransactions)
	api.Get("/users/:id/bets", h.getBets)
	api.Get("/users/:id/stats", h.getBetStats)
	api.Post("/users/:id/deposit", h.deposit)
	api.Post("/users/:id/withdraw", h.withdraw)

	admin := api.Group("/admin")
	admin.Post("/bazaars", h.createBazaar)
	admin.Patch("/bazaars/:id/status", h.updateBazaarStatus)
	admin.Post("/results", h.declareResult)
	admin.Post("/bets/:id/settle", h.settleBet)
	admin.Post("/users/:id/adjust", h.adminAdjust)

	return &Server{app: f}
}

// Listen serves HTTP on the given address until shutdown
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying Fiber app for in-process tests
func (s *Server) App() *fiber.App {
	return s.app
}
