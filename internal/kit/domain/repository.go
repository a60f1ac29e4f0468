package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, kit *SubscriptionKit) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SubscriptionKit, error)
	List(ctx context.Context, db *gorm.DB) ([]SubscriptionKit, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]SubscriptionKit, error)

	UpsertItem(ctx context.Context, db *gorm.DB, item *KitItem) error
	FindItem(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID) (*KitItem, error)
	ListItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) ([]KitItem, error)
	ListSummaryItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) ([]SummaryItem, error)
	UpdateItemQuantity(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID, quantity int, now time.Time) (int64, error)
	DeleteItem(ctx context.Context, db *gorm.DB, kitID, productID snowflake.ID) error
	CountItems(ctx context.Context, db *gorm.DB, kitID snowflake.ID) (int64, error)

	RecomputeTotal(ctx context.Context, db *gorm.DB, kitID snowflake.ID, now time.Time) error
	SetDeliveryFrequency(ctx context.Context, db *gorm.DB, kitID snowflake.ID, frequencyID int64, now time.Time) error
	ConfirmDraft(ctx context.Context, db *gorm.DB, kitID snowflake.ID, userID snowflake.ID, now time.Time) (int64, error)

	InsertActivity(ctx context.Context, db *gorm.DB, entry *KitActivity) error
}
