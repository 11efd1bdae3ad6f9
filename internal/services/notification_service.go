package services

import (
	"context"

	"peerlend/internal/felt"
	"peerlend/internal/models"
	"peerlend/internal/repository"
)

// NotificationService manages the per-user append-only notification log.
type NotificationService struct {
	repo *repository.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo *repository.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Create appends a notification for a user.
func (s *NotificationService) Create(ctx context.Context, req models.CreateNotificationRequest) (*models.Notification, error) {
	user, err := felt.Normalize(req.UserAddress)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserAddress: user,
		Message:     req.Message,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userAddress string) ([]models.Notification, error) {
	user, err := felt.Normalize(userAddress)
	if err != nil {
		return nil, err
	}
	return s.repo.ListNotifications(ctx, user)
}

// Delete removes one notification by id.
func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.repo.DeleteNotification(ctx, id)
}
