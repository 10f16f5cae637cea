package server

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/presence-gateway/internal/gateway"
	"github.com/yourorg/presence-gateway/internal/registry"
)

// New builds the HTTP surface: the websocket upgrade route plus small
// operational endpoints.
func New(gw *gateway.Gateway, reg *registry.Registry) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fiberlogger.New())

	v1 := app.Group("/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1.Get("/presence", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": reg.SnapshotPresence()})
	})

	v1.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	v1.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		gw.Handle(conn, conn.Query("token"))
	}))

	return app
}
