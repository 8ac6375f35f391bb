package server

import (
	"context"
	"errors"
	"net"

	"go-shop-ms/internal/handler"
	"go-shop-ms/internal/middleware"
	"go-shop-ms/internal/ws"
	"go-shop-ms/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Options configures the parts every service shares. Nil fields switch the
// matching endpoint off.
type Options struct {
	Name    string
	Log     *zap.Logger
	Metrics *metrics.HTTP
	Hub     *ws.Hub
	Health  func() error
}

// NewApp builds a Fiber app with the common middleware and endpoints. The
// caller mounts its service routes on the result.
func NewApp(opts Options) *fiber.App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		ErrorHandler:          handler.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(middleware.Observability(log, opts.Metrics))
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hi")
	})

	if opts.Health != nil {
		app.Get("/health", func(c *fiber.Ctx) error {
			if err := opts.Health(); err != nil {
				middleware.Logger(c).Warn("health_check_failed", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "error": "database connection failed"})
			}
			return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
		})
	}

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	if opts.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(opts.Hub.Serve))
	}

	return app
}

// Run serves app on addr until ctx is done, then shuts it down gracefully.
func Run(ctx context.Context, app *fiber.App, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, app, ln, log)
}

func Serve(ctx context.Context, app *fiber.App, ln net.Listener, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http_server_start", zap.String("addr", ln.Addr().String()))
		errCh <- app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("http_server_shutdown")
	if err := app.Shutdown(); err != nil {
		return err
	}
	log.Info("http_server_stopped")
	return nil
}
