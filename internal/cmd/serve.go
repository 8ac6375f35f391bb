package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-shop-ms/internal/config"
	"go-shop-ms/internal/handler"
	"go-shop-ms/internal/middleware"
	"go-shop-ms/internal/repository"
	"go-shop-ms/internal/server"
	"go-shop-ms/internal/service"
	"go-shop-ms/internal/ws"
	"go-shop-ms/pkg/database"
	"go-shop-ms/pkg/jwt"
	"go-shop-ms/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mountFunc attaches one service's routes to its app.
type mountFunc func(app *fiber.App, cfg *config.Config, db *gorm.DB, hub *ws.Hub, log *zap.Logger) error

type serviceDef struct {
	name  string
	short string
	port  func(config.PortsConfig) string
	mount mountFunc
}

var services = []serviceDef{
	{
		name:  "identity",
		short: "Run the identity service (register, login, profile)",
		port:  func(p config.PortsConfig) string { return p.Identity },
		mount: mountIdentity,
	},
	{
		name:  "catalog",
		short: "Run the catalog service (products and stock)",
		port:  func(p config.PortsConfig) string { return p.Catalog },
		mount: mountCatalog,
	},
	{
		name:  "orders",
		short: "Run the orders service (order creation and lookup)",
		port:  func(p config.PortsConfig) string { return p.Orders },
		mount: mountOrders,
	},
	{
		name:  "delivery",
		short: "Run the delivery service (shipments and status)",
		port:  func(p config.PortsConfig) string { return p.Delivery },
		mount: mountDelivery,
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run one of the HTTP services",
}

func init() {
	rootCmd.AddCommand(serveCmd)

	for _, def := range services {
		serveCmd.AddCommand(&cobra.Command{
			Use:   def.name,
			Short: def.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), def)
			},
		})
	}
}

func serve(parent context.Context, def serviceDef) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(def.name)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := database.Migrate(rt.db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	hub := ws.NewHub(rt.log)
	go hub.Run(ctx)

	app := server.NewApp(server.Options{
		Name:    def.name,
		Log:     rt.log,
		Metrics: metrics.NewHTTP(def.name),
		Hub:     hub,
		Health:  func() error { return database.Ping(rt.db) },
	})
	if err := def.mount(app, rt.cfg, rt.db, hub, rt.log); err != nil {
		return err
	}

	return server.Run(ctx, app, ":"+def.port(rt.cfg.Ports), rt.log)
}

func mountIdentity(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *ws.Hub, log *zap.Logger) error {
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	authService := service.NewAuthService(repository.NewUserRepo(db), tokens, log)
	handler.NewAuthHandler(authService).Register(app, middleware.RequireAuth(tokens))
	return nil
}

func mountCatalog(app *fiber.App, cfg *config.Config, db *gorm.DB, hub *ws.Hub, log *zap.Logger) error {
	catalogService := service.NewCatalogService(repository.NewProductRepo(db), hub, log, cfg.Catalog.LowStockThreshold)
	handler.NewCatalogHandler(catalogService).Register(app)
	return nil
}

func mountOrders(app *fiber.App, _ *config.Config, db *gorm.DB, hub *ws.Hub, log *zap.Logger) error {
	orderService := service.NewOrderService(repository.NewOrderRepo(db), repository.NewProductRepo(db), hub, log)
	handler.NewOrderHandler(orderService).Register(app)
	return nil
}

func mountDelivery(app *fiber.App, _ *config.Config, db *gorm.DB, hub *ws.Hub, log *zap.Logger) error {
	deliveryService := service.NewDeliveryService(repository.NewDeliveryRepo(db), repository.NewOrderRepo(db), hub, log)
	handler.NewDeliveryHandler(deliveryService).Register(app)
	return nil
}
