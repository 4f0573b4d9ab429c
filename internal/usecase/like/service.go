package like

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/metrics"
)

// Service is the like ledger. Every write goes through the engagement store,
// which owns the counter; this layer validates, resolves the item owner and
// emits fan-out events.
type Service struct {
	itemRepo domain.ItemRepository
	store    domain.EngagementStore
	bloom    domain.BloomRepository
	emitter  domain.EventEmitter
}

var _ domain.LikeUsecase = (*Service)(nil)

// NewService will create a new like ledger service object
func NewService(items domain.ItemRepository, store domain.EngagementStore, bloom domain.BloomRepository, emitter domain.EventEmitter) *Service {
	return &Service{
		itemRepo: items,
		store:    store,
		bloom:    bloom,
		emitter:  emitter,
	}
}

func (s *Service) mustExist(ctx context.Context, itemID int64) (domain.Item, error) {
	exists, err := s.bloom.Exists(ctx, itemID)
	if err != nil {
		logrus.Warnf("bloom filter check failed for item %d: %v", itemID, err)
	} else if !exists {
		return domain.Item{}, domain.ErrNotFound
	}

	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, domain.Classify(err)
	}
	return it, nil
}

func validIDs(itemID, userID int64) error {
	if itemID <= 0 || userID <= 0 {
		return domain.ErrBadParamInput
	}
	return nil
}

func (s *Service) Add(ctx context.Context, itemID, userID int64) (res domain.LikeResult, err error) {
	defer func() {
		metrics.LikeOperations.WithLabelValues("add", metrics.Outcome(err)).Inc()
	}()

	if err = validIDs(itemID, userID); err != nil {
		return res, err
	}

	it, err := s.mustExist(ctx, itemID)
	if err != nil {
		return res, err
	}

	count, err := s.store.AddLike(ctx, domain.Like{
		ItemID:    itemID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		err = domain.Classify(err)
		logrus.Warnf("failed to add like, item: %d, user: %d, err: %v", itemID, userID, err)
		return res, err
	}

	if it.OwnerID != userID {
		s.emitter.Emit(domain.EngagementEvent{
			Type:        domain.NotificationLike,
			ActorID:     userID,
			RecipientID: it.OwnerID,
			ItemID:      itemID,
			Summary:     it.Title,
		})
	}

	return domain.LikeResult{LikesCount: count, UserHasLiked: true}, nil
}

func (s *Service) Remove(ctx context.Context, itemID, userID int64) (res domain.LikeResult, err error) {
	defer func() {
		metrics.LikeOperations.WithLabelValues("remove", metrics.Outcome(err)).Inc()
	}()

	if err = validIDs(itemID, userID); err != nil {
		return res, err
	}

	if _, err = s.mustExist(ctx, itemID); err != nil {
		return res, err
	}

	count, err := s.store.RemoveLike(ctx, itemID, userID)
	if err != nil {
		err = domain.Classify(err)
		logrus.Warnf("failed to remove like, item: %d, user: %d, err: %v", itemID, userID, err)
		return res, err
	}

	return domain.LikeResult{LikesCount: count, UserHasLiked: false}, nil
}

func (s *Service) Toggle(ctx context.Context, itemID, userID int64, currentlyLiked bool) (domain.LikeResult, error) {
	if currentlyLiked {
		return s.Remove(ctx, itemID, userID)
	}
	return s.Add(ctx, itemID, userID)
}
