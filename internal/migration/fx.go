package migration

import (
	"github.com/brandkit/brandkit/internal/config"
	"github.com/brandkit/brandkit/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The embedded migrations target postgres. For sqlite dev
		// databases the schema is created through AutoMigrate seeding.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := seed.EnsureSchema(conn); err != nil {
			return err
		}

		if err := seed.EnsureDeliveryFrequencies(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
