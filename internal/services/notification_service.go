package services

import (
	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
)

type NotificationService struct {
	Repo *repos.NotificationRepo
}

func NewNotificationService(r *repos.NotificationRepo) *NotificationService {
	return &NotificationService{Repo: r}
}

func (s *NotificationService) List(userID string, includeArchived bool) ([]domain.Notification, error) {
	return s.Repo.ListByUser(userID, includeArchived)
}

func (s *NotificationService) UnreadCount(userID string) (int, error) {
	return s.Repo.UnreadCount(userID)
}

func (s *NotificationService) MarkRead(id, userID string) error {
	return s.Repo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID string) error {
	return s.Repo.MarkAllRead(userID)
}

func (s *NotificationService) Archive(id, userID string) error {
	return s.Repo.Archive(id, userID)
}
