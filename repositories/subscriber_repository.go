package repositories

import (
	"context"

	"gorm.io/gorm"

	"vectormag-cms/models"
)

type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page, limit int) ([]models.Subscriber, int64, error)
	Delete(ctx context.Context, id uint) error
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *subscriberRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *subscriberRepository) List(ctx context.Context, page, limit int) ([]models.Subscriber, int64, error) {
	var subscribers []models.Subscriber
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Subscriber{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subscribers).Error
	return subscribers, total, err
}

func (r *subscriberRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subscriber{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
