package item

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const bloomPageSize = 1000

type Service struct {
	itemRepo  domain.ItemRepository
	bloomRepo domain.BloomRepository
}

var _ domain.ItemUsecase = (*Service)(nil)

// NewService will create a new item service object
func NewService(ir domain.ItemRepository, br domain.BloomRepository) *Service {
	return &Service{
		itemRepo:  ir,
		bloomRepo: br,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	if id <= 0 {
		return domain.Item{}, domain.ErrBadParamInput
	}
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		return domain.Item{}, domain.ErrNotFound
	}

	it, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Item{}, domain.Classify(err)
	}
	return it, nil
}

func (s *Service) Store(ctx context.Context, it *domain.Item) error {
	it.Title = strings.TrimSpace(it.Title)
	if it.OwnerID <= 0 || it.Title == "" {
		return domain.ErrBadParamInput
	}
	now := time.Now()
	it.CreatedAt, it.UpdatedAt = now, now
	it.LikesCount, it.CommentsCount = 0, 0

	if err := s.itemRepo.Store(ctx, it); err != nil {
		return domain.Classify(err)
	}

	if err := s.bloomRepo.Add(ctx, it.ID); err != nil {
		logrus.Errorf("failed to add item %d to bloom filter: %v", it.ID, err)
	}
	return nil
}

// Delete removes an item owned by userID.
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	it, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if it.OwnerID != userID {
		return domain.ErrForbidden
	}
	return domain.Classify(s.itemRepo.Delete(ctx, id))
}

// InitBloomFilter loads every stored item id into the bloom filter.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	var (
		cursor int64
		total  int
	)
	for {
		ids, err := s.itemRepo.FetchIDs(ctx, cursor, bloomPageSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += len(ids)
		cursor = ids[len(ids)-1]
		if len(ids) < bloomPageSize {
			break
		}
	}
	logrus.Infof("bloom filter initialized with %d items", total)
	return nil
}
