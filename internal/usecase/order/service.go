package order

import (
	"context"
	"log/slog"
	"time"

	domorder "github.com/akshay1332/naves-luxury-store-sub000/internal/domain/order"
)

type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, kind string) error
}

type Service struct {
	repo     domorder.Repository
	notifier Notifier
	log      *slog.Logger
}

func NewService(repo domorder.Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetForUser(ctx context.Context, userID, id int64) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		// Do not leak other users' order ids.
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus transitions an order through the fulfilment state machine,
// appending exactly one history entry for the transition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domorder.Status, note, actor string) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domorder.ErrInvalidTransition
	}

	entry := domorder.StatusHistoryEntry{
		OrderID:   id,
		Status:    status,
		Note:      note,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	updated, err := s.repo.UpdateStatus(ctx, id, status, entry)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, updated.UserID,
		"Order update", "Your order "+updated.Reference+" is now "+string(status)+".", "order"); err != nil {
		s.log.ErrorContext(ctx, "status change notification failed",
			"order_id", id, "status", status, "error", err)
	}
	return updated, nil
}
