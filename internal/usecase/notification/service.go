package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/metrics"
)

const (
	MaxSubscribers   = 64
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Service struct {
	repo      domain.NotificationRepository
	retention int
	validate  *validator.Validate

	mu     sync.RWMutex
	nextID int
	subs   map[int]domain.NotificationSubscriber
}

var _ domain.NotificationUsecase = (*Service)(nil)

// NewService will create a new notification service object. A non-positive
// retention falls back to domain.DefaultNotificationRetention.
func NewService(repo domain.NotificationRepository, retention int) *Service {
	if retention <= 0 {
		retention = domain.DefaultNotificationRetention
	}
	return &Service{
		repo:      repo,
		retention: retention,
		validate:  validator.New(),
		subs:      make(map[int]domain.NotificationSubscriber),
	}
}

func (s *Service) Add(ctx context.Context, n *domain.Notification) error {
	if err := s.validate.Struct(n); err != nil {
		logrus.Warnf("rejecting notification %s: %v", n.NaturalKey(), err)
		return fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.Read = false

	if err := s.repo.Upsert(ctx, n, s.retention); err != nil {
		return domain.Classify(err)
	}

	s.notify(*n)
	return nil
}

func (s *Service) notify(n domain.Notification) {
	s.mu.RLock()
	subs := make([]domain.NotificationSubscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		callSubscriber(fn, n)
	}
}

func callSubscriber(fn domain.NotificationSubscriber, n domain.Notification) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SubscriberFailures.Inc()
			logrus.Errorf("notification subscriber panicked on %d: %v", n.ID, r)
		}
	}()
	if err := fn(n); err != nil {
		metrics.SubscriberFailures.Inc()
		logrus.Warnf("notification subscriber failed on %d: %v", n.ID, err)
	}
}

func (s *Service) Subscribe(fn domain.NotificationSubscriber) (func(), error) {
	if fn == nil {
		return nil, domain.ErrBadParamInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) >= MaxSubscribers {
		return nil, domain.ErrTooManySubscribers
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *Service) List(ctx context.Context, userID int64, filter domain.NotificationFilter, limit int) ([]domain.Notification, error) {
	if userID <= 0 {
		return nil, domain.ErrBadParamInput
	}
	if _, err := domain.ParseNotificationFilter(string(filter)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	res, err := s.repo.List(ctx, userID, filter, limit)
	if err != nil {
		return nil, domain.Classify(err)
	}
	return res, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, domain.ErrBadParamInput
	}
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, domain.Classify(err)
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if userID <= 0 || id <= 0 {
		return domain.ErrBadParamInput
	}
	return domain.Classify(s.repo.MarkRead(ctx, userID, id))
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if userID <= 0 || id <= 0 {
		return domain.ErrBadParamInput
	}
	return domain.Classify(s.repo.Delete(ctx, userID, id))
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, domain.ErrBadParamInput
	}
	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, domain.Classify(err)
	}
	return n, nil
}
