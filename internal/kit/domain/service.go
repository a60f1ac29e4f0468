package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type SetFrequencyRequest struct {
	FrequencyID int64 `json:"frequency_id"`
}

// Service is the kit aggregate. Every item mutation and its total
// recomputation run inside one database transaction, and business
// invariants (non-empty confirm, confirmed-kit immutability) live here
// rather than in the HTTP layer, so any caller gets the same guarantees.
type Service interface {
	Create(ctx context.Context, ownerID *snowflake.ID) (*SubscriptionKit, error)
	Get(ctx context.Context, kitID string) (*SubscriptionKit, error)
	List(ctx context.Context) ([]SubscriptionKit, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]SubscriptionKit, error)

	AddItem(ctx context.Context, kitID string, req AddItemRequest) (*KitItem, error)
	UpdateItemQuantity(ctx context.Context, kitID, productID string, quantity int) (*KitItem, error)
	RemoveItem(ctx context.Context, kitID, productID string) error
	SetDeliveryFrequency(ctx context.Context, kitID string, frequencyID int64) (*SubscriptionKit, error)
	Confirm(ctx context.Context, kitID string, userID snowflake.ID) (*SubscriptionKit, error)
	Summary(ctx context.Context, kitID string) (*Summary, error)
}

var (
	ErrKitNotFound      = errors.New("kit_not_found")
	ErrItemNotFound     = errors.New("kit_item_not_found")
	ErrEmptyKit         = errors.New("empty_kit")
	ErrKitConfirmed     = errors.New("kit_confirmed")
	ErrAlreadyConfirmed = errors.New("kit_already_confirmed")
	ErrInvalidKitID     = errors.New("invalid_kit_id")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidFrequency = errors.New("invalid_frequency")
)
