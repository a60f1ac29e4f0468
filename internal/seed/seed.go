// Package seed bootstraps reference data so a fresh deployment is usable
// without manual SQL.
package seed

import (
	"context"
	"errors"

	authdomain "github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/auth/password"
	frequencydomain "github.com/brandkit/brandkit/internal/frequency/domain"
	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var defaultFrequencies = []frequencydomain.DeliveryFrequency{
	{ID: 1, Label: "Weekly", IntervalInDays: 7},
	{ID: 2, Label: "Every two weeks", IntervalInDays: 14},
	{ID: 3, Label: "Monthly", IntervalInDays: 30},
	{ID: 4, Label: "Quarterly", IntervalInDays: 90},
}

// EnsureSchema creates tables for non-postgres databases where the SQL
// migrations do not run.
func EnsureSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	return db.AutoMigrate(
		&authdomain.User{},
		&productdomain.Product{},
		&frequencydomain.DeliveryFrequency{},
		&kitdomain.SubscriptionKit{},
		&kitdomain.KitItem{},
		&kitdomain.KitActivity{},
	)
}

// EnsureDeliveryFrequencies inserts the standard delivery cadences when
// they are missing.
func EnsureDeliveryFrequencies(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, frequency := range defaultFrequencies {
			var count int64
			if err := tx.Raw(
				`SELECT COUNT(*) FROM delivery_frequencies WHERE id = ?`, frequency.ID,
			).Scan(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Exec(
				`INSERT INTO delivery_frequencies (id, label, interval_in_days) VALUES (?, ?, ?)`,
				frequency.ID,
				frequency.Label,
				frequency.IntervalInDays,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoCatalog seeds a demo seller and a handful of products for
// local development.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Raw(`SELECT COUNT(*) FROM products`).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash("brandkit-demo")
		if err != nil {
			return err
		}

		sellerID := node.Generate()
		if err := tx.Exec(
			`INSERT INTO users (id, email, password_hash, display_name, role, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			sellerID,
			"demo-seller@brandkit.local",
			hash,
			"Demo Seller",
			authdomain.RoleSeller,
		).Error; err != nil {
			return err
		}

		demo := []struct {
			name       string
			priceCents int64
		}{
			{"Single-origin coffee, 250g", 1450},
			{"Cold brew concentrate", 1200},
			{"Oat milk, 6 pack", 1800},
		}
		for _, p := range demo {
			if err := tx.Exec(
				`INSERT INTO products (id, seller_id, name, price_cents, active, created_at, updated_at)
				 VALUES (?, ?, ?, ?, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
				node.Generate(),
				sellerID,
				p.name,
				p.priceCents,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
