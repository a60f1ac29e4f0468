package repository

import (
	"context"
	"time"

	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() kitdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, kit *kitdomain.SubscriptionKit) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_kits (
			id, user_id, status, delivery_frequency_id, total_price_cents, confirmed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		kit.ID,
		kit.UserID,
		kit.Status,
		kit.DeliveryFrequencyID,
		kit.TotalPriceCents,
		kit.ConfirmedAt,
		kit.CreatedAt,
		kit.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*kitdomain.SubscriptionKit, error) {
	var kit kitdomain.SubscriptionKit
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, delivery_frequency_id, total_price_cents, confirmed_at, created_at, updated_at
		 FROM subscription_kits WHERE id = ?`,
		id,
	).Scan(&kit).Error
	if err != nil {
		return nil, err
	}
	if kit.ID == 0 {
		return nil, nil
	}
	return &kit, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]kitdomain.SubscriptionKit, error) {
	var kits []kitdomain.SubscriptionKit
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, delivery_frequency_id, total_price_cents, confirmed_at, created_at, updated_at
		 FROM subscription_kits ORDER BY created_at ASC`,
	).Scan(&kits).Error
	if err != nil {
		return nil, err
	}
	return kits, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]kitdomain.SubscriptionKit, error) {
	var kits []kitdomain.SubscriptionKit
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, delivery_frequency_id, total_price_cents, confirmed_at, created_at, updated_at
		 FROM subscription_kits WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	).Scan(&kits).Error
	if err != nil {
		return nil, err
	}
	return kits, nil
}

// UpsertItem overwrites quantity and the price snapshot when the (kit,
// product) row already exists. Overwrite, not add: the client replay path
// depends on re-submitting the same item being idempotent.
func (r *repo) UpsertItem(ctx context.Context, db *gorm.DB, item *kitdomain.KitItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_kit_items (kit_id, product_id, quantity, price_at_addition_cents, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kit_id, product_id) DO UPDATE SET
			quantity = excluded.quantity,
			price_at_addition_cents = excluded.price_at_addition_cents,
			updated_at = excluded.updated_at`,
		item.KitID,
		item.ProductID,
		item.Quantity,
		item.PriceAtAdditionCents,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindItem(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID) (*kitdomain.KitItem, error) {
	var item kitdomain.KitItem
	err := db.WithContext(ctx).Raw(
		`SELECT kit_id, product_id, quantity, price_at_addition_cents, updated_at
		 FROM subscription_kit_items WHERE kit_id = ? AND product_id = ?`,
		kitID,
		productID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.KitID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) ([]kitdomain.KitItem, error) {
	var items []kitdomain.KitItem
	err := db.WithContext(ctx).Raw(
		`SELECT kit_id, product_id, quantity, price_at_addition_cents, updated_at
		 FROM subscription_kit_items WHERE kit_id = ? ORDER BY product_id ASC`,
		kitID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSummaryItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) ([]kitdomain.SummaryItem, error) {
	var items []kitdomain.SummaryItem
	err := db.WithContext(ctx).Raw(
		`SELECT i.product_id, p.name AS product_name, p.image_url AS product_image_url,
			p.description AS product_description, i.quantity, i.price_at_addition_cents
		 FROM subscription_kit_items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.kit_id = ?
		 ORDER BY i.product_id ASC`,
		kitID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateItemQuantity(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID, quantity int, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE subscription_kit_items SET quantity = ?, updated_at = ?
		 WHERE kit_id = ? AND product_id = ?`,
		quantity,
		now,
		kitID,
		productID,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM subscription_kit_items WHERE kit_id = ? AND product_id = ?`,
		kitID,
		productID,
	).Error
}

func (r *repo) CountItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM subscription_kit_items WHERE kit_id = ?`,
		kitID,
	).Scan(&count).Error
	return count, err
}

// RecomputeTotal rewrites the derived total from the item rows in a single
// statement, defaulting to 0 for an empty kit.
func (r *repo) RecomputeTotal(ctx context.Context, db *gorm.DB, kitID snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_kits
		 SET total_price_cents = COALESCE((
			SELECT SUM(quantity * price_at_addition_cents)
			FROM subscription_kit_items WHERE kit_id = ?
		 ), 0), updated_at = ?
		 WHERE id = ?`,
		kitID,
		now,
		kitID,
	).Error
}

func (r *repo) SetDeliveryFrequency(ctx context.Context, db *gorm.DB, kitID snowflake.ID, frequencyID int64, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_kits SET delivery_frequency_id = ?, updated_at = ? WHERE id = ?`,
		frequencyID,
		now,
		kitID,
	).Error
}

// ConfirmDraft is guarded by status = 'draft' so confirming an
// already-confirmed kit affects zero rows.
func (r *repo) ConfirmDraft(ctx context.Context, db *gorm.DB, kitID snowflake.ID, userID snowflake.ID, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE subscription_kits
		 SET status = ?, confirmed_at = ?, user_id = COALESCE(user_id, ?), updated_at = ?
		 WHERE id = ? AND status = ?`,
		kitdomain.KitStatusConfirmed,
		now,
		userID,
		now,
		kitID,
		kitdomain.KitStatusDraft,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) InsertActivity(ctx context.Context, db *gorm.DB, entry *kitdomain.KitActivity) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO kit_activity_log (id, kit_id, action_type, action_details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.KitID,
		entry.ActionType,
		entry.Details,
		entry.CreatedAt,
	).Error
}
