package repository

import (
	"context"

	"github.com/timetracking-api/internal/domain"
	"gorm.io/gorm"
)

// ChannelRepository определяет интерфейс для работы с каналами продаж
type ChannelRepository interface {
	Create(ctx context.Context, channel *domain.SalesChannel) error
	GetByID(ctx context.Context, id int64) (*domain.SalesChannel, error)
	List(ctx context.Context) ([]domain.SalesChannel, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository создаёт новый экземпляр репозитория
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(ctx context.Context, channel *domain.SalesChannel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *channelRepository) GetByID(ctx context.Context, id int64) (*domain.SalesChannel, error) {
	var channel domain.SalesChannel
	err := r.db.WithContext(ctx).First(&channel, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrChannelNotFound
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) List(ctx context.Context) ([]domain.SalesChannel, error) {
	var channels []domain.SalesChannel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&channels).Error
	return channels, err
}

func (r *channelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.SalesChannel{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}
