package cmd

import (
	"fmt"
	"os"

	"go-shop-ms/internal/config"
	"go-shop-ms/pkg/database"
	"go-shop-ms/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Shop microservices: identity, catalog, orders and delivery",
	Long: `shop runs one of the four e-commerce services over a shared PostgreSQL
database, and carries the operator commands that go with them.

Every service is a separate process started with "shop serve <name>".`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runtime is what every subcommand needs before doing real work.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(name string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(name, cfg.Env, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Error("database_connect_failed", zap.Error(err))
		_ = log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Warn("database_close_failed", zap.Error(err))
	}
	_ = r.log.Sync()
}
