package service

import (
	"context"
	"strings"

	"github.com/brandkit/brandkit/internal/clock"
	"github.com/brandkit/brandkit/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, sellerID int64, req domain.CreateRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.PriceCents <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate(),
		SellerID:    snowflake.ID(sellerID),
		Name:        name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	if sellerID := strings.TrimSpace(req.SellerID); sellerID != "" {
		id, err := snowflake.ParseString(sellerID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		return s.repo.FindBySeller(ctx, s.db, id)
	}
	return s.repo.FindAll(ctx, s.db, req.ActiveOnly)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
