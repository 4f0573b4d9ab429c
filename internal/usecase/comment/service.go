package comment

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository"
)

const summaryRunes = 80

type service struct {
	commentRepo domain.CommentRepository
	itemRepo    domain.ItemRepository
	bloomRepo   domain.BloomRepository
	emitter     domain.EventEmitter
	validate    *validator.Validate
}

var _ domain.CommentUsecase = (*service)(nil)

func NewService(cr domain.CommentRepository, ir domain.ItemRepository, br domain.BloomRepository, emitter domain.EventEmitter) *service {
	return &service{
		commentRepo: cr,
		itemRepo:    ir,
		bloomRepo:   br,
		emitter:     emitter,
		validate:    validator.New(),
	}
}

func (s *service) mustExist(ctx context.Context, id int64) (domain.Item, error) {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says item %d does not exist", id)
		return domain.Item{}, domain.ErrNotFound
	}

	it, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Item{}, domain.Classify(err)
	}
	return it, nil
}

func summarize(text string) string {
	if utf8.RuneCountInString(text) <= summaryRunes {
		return text
	}
	r := []rune(text)
	return string(r[:summaryRunes]) + "..."
}

func (s *service) Create(ctx context.Context, c *domain.Comment) error {
	c.Text = strings.TrimSpace(c.Text)
	if err := s.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}

	it, err := s.mustExist(ctx, c.ItemID)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Store(ctx, c); err != nil {
		return domain.Classify(err)
	}

	if it.OwnerID != c.UserID {
		s.emitter.Emit(domain.EngagementEvent{
			Type:        domain.NotificationComment,
			ActorID:     c.UserID,
			RecipientID: it.OwnerID,
			ItemID:      it.ID,
			Summary:     summarize(c.Text),
		})
	}
	return nil
}

func (s *service) Delete(ctx context.Context, commentID int64, userID int64) error {
	if commentID <= 0 || userID <= 0 {
		return domain.ErrBadParamInput
	}
	return domain.Classify(s.commentRepo.Delete(ctx, commentID, userID))
}

func (s *service) FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]domain.Comment, string, error) {
	if _, err := s.mustExist(ctx, itemID); err != nil {
		return nil, "", err
	}

	repository.PageVerify(&limit)
	res, err := s.commentRepo.FetchByItem(ctx, itemID, cursor, limit)
	if err != nil {
		return nil, "", domain.Classify(err)
	}
	if len(res) == 0 {
		return []domain.Comment{}, "", nil
	}

	return res, repository.EncodeCursor(res[len(res)-1].CreatedAt), nil
}
