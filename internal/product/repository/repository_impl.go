package repository

import (
	"context"

	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() productdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *productdomain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (
			id, seller_id, name, description, image_url, price_cents, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.SellerID,
		product.Name,
		product.Description,
		product.ImageURL,
		product.PriceCents,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*productdomain.Product, error) {
	var product productdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, name, description, image_url, price_cents, active, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]productdomain.Product, error) {
	query := `SELECT id, seller_id, name, description, image_url, price_cents, active, created_at, updated_at
		 FROM products`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY created_at ASC`

	var products []productdomain.Product
	if err := db.WithContext(ctx).Raw(query).Scan(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) FindBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]productdomain.Product, error) {
	var products []productdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, seller_id, name, description, image_url, price_cents, active, created_at, updated_at
		 FROM products WHERE seller_id = ? ORDER BY created_at ASC`,
		sellerID,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
