package frequency

import (
	"context"

	"github.com/brandkit/brandkit/internal/frequency/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.DeliveryFrequency, error) {
	var frequencies []domain.DeliveryFrequency
	err := db.WithContext(ctx).Raw(
		`SELECT id, label, interval_in_days FROM delivery_frequencies ORDER BY interval_in_days ASC`,
	).Scan(&frequencies).Error
	if err != nil {
		return nil, err
	}
	return frequencies, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.DeliveryFrequency, error) {
	var frequency domain.DeliveryFrequency
	err := db.WithContext(ctx).Raw(
		`SELECT id, label, interval_in_days FROM delivery_frequencies WHERE id = ?`,
		id,
	).Scan(&frequency).Error
	if err != nil {
		return nil, err
	}
	if frequency.ID == 0 {
		return nil, nil
	}
	return &frequency, nil
}

var Module = fx.Module("frequency",
	fx.Provide(Provide),
)
