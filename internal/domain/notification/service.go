package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo NotificationRepository
}

func NewService(repo NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Emit records a notification for the given user. Callers invoke it inside a
// lifecycle transaction so the insert commits or rolls back with the bind
// mutation it reports.
func (s *Service) Emit(ctx context.Context, userID uuid.UUID, message string, kind Kind, bindID uuid.UUID) error {
	if message == "" {
		return fmt.Errorf("message is required")
	}
	n := &Notification{
		UserID:  userID,
		Message: message,
		Kind:    kind,
	}
	if bindID != uuid.Nil {
		n.BindID = &bindID
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks every unread notification read, failing with ErrNotFound
// when the user has none unread.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no unread notifications: %w", ErrNotFound)
	}
	return nil
}
