package stats

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/metrics"
)

type Service struct {
	repo domain.StatsRepository
}

var _ domain.StatsUsecase = (*Service)(nil)

// NewService will create a new batch stats service object
func NewService(repo domain.StatsRepository) *Service {
	return &Service{repo: repo}
}

func dedupe(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, domain.ErrBadParamInput
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) > domain.MaxStatsBatch {
		return nil, domain.ErrBadParamInput
	}
	return out, nil
}

// GetStats returns one entry per distinct requested id. Store failures
// degrade to per-item queries and then to zero values; they are never
// returned to the caller.
func (s *Service) GetStats(ctx context.Context, itemIDs []int64, userID int64) (map[int64]domain.ItemStats, error) {
	if userID < 0 {
		return nil, domain.ErrBadParamInput
	}
	ids, err := dedupe(itemIDs)
	if err != nil {
		return nil, err
	}

	res := make(map[int64]domain.ItemStats, len(ids))
	for _, id := range ids {
		res[id] = domain.ItemStats{}
	}
	if len(ids) == 0 {
		return res, nil
	}

	batch, err := s.repo.GetStatsBatch(ctx, ids, userID)
	if err == nil {
		for _, id := range ids {
			res[id] = batch[id]
		}
		return res, nil
	}

	logrus.Warnf("batch stats failed for %d items, falling back: %v", len(ids), err)
	metrics.StatsDegraded.Inc()

	for _, id := range ids {
		st, err := s.repo.GetStats(ctx, id, userID)
		if err != nil {
			logrus.Errorf("stats for item %d failed: %v", id, err)
			metrics.StatsItemFailures.Inc()
			continue
		}
		res[id] = st
	}
	return res, nil
}
