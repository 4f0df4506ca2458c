package cli

import (
	"fmt"

	"github.com/a810439322/moneyup/internal/config"
	"github.com/a810439322/moneyup/internal/database"
	"github.com/a810439322/moneyup/internal/logging"
	"github.com/a810439322/moneyup/internal/router"
	"github.com/a810439322/moneyup/internal/store"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logging.New(cfg.Log)

			db, err := database.Init(cfg.Database)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			if err := database.SeedDefaultTags(db); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}

			s := store.NewSQLStore(db, log)
			r := router.SetupRouter(cfg, s, log)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
			log.WithField("addr", addr).Info("server listening")
			if err := r.Run(addr); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}
}
