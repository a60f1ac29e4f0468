package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	PriceCents  int64   `json:"price_cents"`
}

type ListRequest struct {
	SellerID   string
	ActiveOnly bool
}

type Service interface {
	Create(ctx context.Context, sellerID int64, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
}

var (
	ErrNotFound     = errors.New("product_not_found")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidID    = errors.New("invalid_product_id")
)
