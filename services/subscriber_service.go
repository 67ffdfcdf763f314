package services

import (
	"context"
	"fmt"
	"strings"

	"vectormag-cms/models"
	"vectormag-cms/repositories"
)

type SubscriberService interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error)
	GetSubscribers(ctx context.Context, page, limit int) ([]models.Subscriber, int64, error)
	DeleteSubscriber(ctx context.Context, id uint) error
}

type subscriberService struct {
	subscriberRepo repositories.SubscriberRepository
}

func NewSubscriberService(subscriberRepo repositories.SubscriberRepository) SubscriberService {
	return &subscriberService{subscriberRepo: subscriberRepo}
}

func (s *subscriberService) Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.subscriberRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("subscriber %w", ErrConflict)
	}

	subscriber := &models.Subscriber{Email: email, Active: true}
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, conflict(err, "subscriber")
	}
	return subscriber, nil
}

func (s *subscriberService) GetSubscribers(ctx context.Context, page, limit int) ([]models.Subscriber, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.subscriberRepo.List(ctx, page, limit)
}

func (s *subscriberService) DeleteSubscriber(ctx context.Context, id uint) error {
	return notFound(s.subscriberRepo.Delete(ctx, id), "subscriber")
}
