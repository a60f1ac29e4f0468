package service

import (
	"context"
	"strings"

	"github.com/brandkit/brandkit/internal/clock"
	frequencydomain "github.com/brandkit/brandkit/internal/frequency/domain"
	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo          kitdomain.Repository
	productRepo   productdomain.Repository
	frequencyRepo frequencydomain.Repository
}

type ServiceParam struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          kitdomain.Repository
	ProductRepo   productdomain.Repository
	FrequencyRepo frequencydomain.Repository
}

func NewService(p ServiceParam) kitdomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("kit.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		productRepo:   p.ProductRepo,
		frequencyRepo: p.FrequencyRepo,
	}
}

func (s *Service) Create(ctx context.Context, ownerID *snowflake.ID) (*kitdomain.SubscriptionKit, error) {
	now := s.clock.Now()
	kit := &kitdomain.SubscriptionKit{
		ID:        s.genID.Generate(),
		UserID:    ownerID,
		Status:    kitdomain.KitStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	details := datatypes.JSONMap{}
	if ownerID != nil {
		details["user_id"] = ownerID.String()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, kit); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, kit.ID, kitdomain.ActionCreated, details)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("kit created", zap.String("kit_id", kit.ID.String()))
	return kit, nil
}

func (s *Service) Get(ctx context.Context, kitID string) (*kitdomain.SubscriptionKit, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}

	kit, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, kitdomain.ErrKitNotFound
	}
	return kit, nil
}

func (s *Service) List(ctx context.Context) ([]kitdomain.SubscriptionKit, error) {
	kits, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if kits == nil {
		kits = []kitdomain.SubscriptionKit{}
	}
	return kits, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]kitdomain.SubscriptionKit, error) {
	kits, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if kits == nil {
		kits = []kitdomain.SubscriptionKit{}
	}
	return kits, nil
}

// AddItem upserts the (kit, product) row, overwriting quantity and the
// price snapshot when the product is already in the kit. The product's
// current price is captured here and nowhere else.
func (s *Service) AddItem(ctx context.Context, kitID string, req kitdomain.AddItemRequest) (*kitdomain.KitItem, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, kitdomain.ErrInvalidQuantity
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, productdomain.ErrInvalidID
	}

	var item *kitdomain.KitItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDraftKit(ctx, tx, id); err != nil {
			return err
		}

		product, err := s.productRepo.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return productdomain.ErrNotFound
		}

		now := s.clock.Now()
		item = &kitdomain.KitItem{
			KitID:                id,
			ProductID:            productID,
			Quantity:             req.Quantity,
			PriceAtAdditionCents: product.PriceCents,
			UpdatedAt:            now,
		}
		if err := s.repo.UpsertItem(ctx, tx, item); err != nil {
			return err
		}
		if err := s.repo.RecomputeTotal(ctx, tx, id, now); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, id, kitdomain.ActionItemAdded, datatypes.JSONMap{
			"product_id":              productID.String(),
			"quantity":                req.Quantity,
			"price_at_addition_cents": product.PriceCents,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, kitID, productID string, quantity int) (*kitdomain.KitItem, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}
	pid, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return nil, productdomain.ErrInvalidID
	}
	if quantity <= 0 {
		return nil, kitdomain.ErrInvalidQuantity
	}

	var item *kitdomain.KitItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDraftKit(ctx, tx, id); err != nil {
			return err
		}

		now := s.clock.Now()
		affected, err := s.repo.UpdateItemQuantity(ctx, tx, id, pid, quantity, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return kitdomain.ErrItemNotFound
		}
		if err := s.repo.RecomputeTotal(ctx, tx, id, now); err != nil {
			return err
		}
		if err := s.logActivity(ctx, tx, id, kitdomain.ActionQuantityUpdated, datatypes.JSONMap{
			"product_id": pid.String(),
			"quantity":   quantity,
		}); err != nil {
			return err
		}

		item, err = s.repo.FindItem(ctx, tx, id, pid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes the item row. Removing a product that is not in the
// kit is not an error; the total is unchanged by the recompute.
func (s *Service) RemoveItem(ctx context.Context, kitID, productID string) error {
	id, err := parseKitID(kitID)
	if err != nil {
		return err
	}
	pid, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return productdomain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDraftKit(ctx, tx, id); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := s.repo.DeleteItem(ctx, tx, id, pid); err != nil {
			return err
		}
		if err := s.repo.RecomputeTotal(ctx, tx, id, now); err != nil {
			return err
		}
		return s.logActivity(ctx, tx, id, kitdomain.ActionItemRemoved, datatypes.JSONMap{
			"product_id": pid.String(),
		})
	})
}

func (s *Service) SetDeliveryFrequency(ctx context.Context, kitID string, frequencyID int64) (*kitdomain.SubscriptionKit, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}

	var kit *kitdomain.SubscriptionKit
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDraftKit(ctx, tx, id); err != nil {
			return err
		}

		frequency, err := s.frequencyRepo.FindByID(ctx, tx, frequencyID)
		if err != nil {
			return err
		}
		if frequency == nil {
			return kitdomain.ErrInvalidFrequency
		}

		now := s.clock.Now()
		if err := s.repo.SetDeliveryFrequency(ctx, tx, id, frequencyID, now); err != nil {
			return err
		}
		if err := s.logActivity(ctx, tx, id, kitdomain.ActionFrequencySet, datatypes.JSONMap{
			"frequency_id": frequencyID,
		}); err != nil {
			return err
		}

		kit, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return kit, nil
}

// Confirm transitions the kit draft -> confirmed exactly once. The
// non-empty precondition is enforced here so every caller gets it, not
// just the HTTP layer.
func (s *Service) Confirm(ctx context.Context, kitID string, userID snowflake.ID) (*kitdomain.SubscriptionKit, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}

	var kit *kitdomain.SubscriptionKit
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return kitdomain.ErrKitNotFound
		}
		if existing.Status == kitdomain.KitStatusConfirmed {
			return kitdomain.ErrAlreadyConfirmed
		}

		count, err := s.repo.CountItems(ctx, tx, id)
		if err != nil {
			return err
		}
		if count == 0 {
			return kitdomain.ErrEmptyKit
		}

		now := s.clock.Now()
		affected, err := s.repo.ConfirmDraft(ctx, tx, id, userID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			// lost the race to a concurrent confirm
			return kitdomain.ErrAlreadyConfirmed
		}

		if err := s.logActivity(ctx, tx, id, kitdomain.ActionConfirmed, datatypes.JSONMap{
			"user_id": userID.String(),
		}); err != nil {
			return err
		}

		kit, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("kit confirmed",
		zap.String("kit_id", kit.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return kit, nil
}

func (s *Service) Summary(ctx context.Context, kitID string) (*kitdomain.Summary, error) {
	id, err := parseKitID(kitID)
	if err != nil {
		return nil, err
	}

	kit, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, kitdomain.ErrKitNotFound
	}

	items, err := s.repo.ListSummaryItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []kitdomain.SummaryItem{}
	}

	summary := &kitdomain.Summary{Kit: *kit, Items: items}
	if kit.DeliveryFrequencyID != nil {
		frequency, err := s.frequencyRepo.FindByID(ctx, s.db, *kit.DeliveryFrequencyID)
		if err != nil {
			return nil, err
		}
		if frequency != nil {
			summary.Frequency = &kitdomain.Frequency{
				ID:             frequency.ID,
				Label:          frequency.Label,
				IntervalInDays: frequency.IntervalInDays,
			}
		}
	}
	return summary, nil
}

// requireDraftKit loads the kit and rejects mutations once it is
// confirmed. Confirmed kits are immutable.
func (s *Service) requireDraftKit(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	kit, err := s.repo.FindByID(ctx, db, id)
	if err != nil {
		return err
	}
	if kit == nil {
		return kitdomain.ErrKitNotFound
	}
	if kit.Status == kitdomain.KitStatusConfirmed {
		return kitdomain.ErrKitConfirmed
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, db *gorm.DB, kitID snowflake.ID, action string, details datatypes.JSONMap) error {
	return s.repo.InsertActivity(ctx, db, &kitdomain.KitActivity{
		ID:         s.genID.Generate(),
		KitID:      kitID,
		ActionType: action,
		Details:    details,
		CreatedAt:  s.clock.Now(),
	})
}

func parseKitID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, kitdomain.ErrInvalidKitID
	}
	return id, nil
}
