package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const (
	KeyItem = "item:%d"

	itemTTL = 10 * time.Minute
)

type itemCache struct {
	client *redis.Client
}

var _ domain.ItemCache = (*itemCache)(nil)

func NewItemCache(client *redis.Client) *itemCache {
	return &itemCache{
		client,
	}
}

func (c *itemCache) GetItem(ctx context.Context, id int64) (res domain.Item, err error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyItem, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Item{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Item{}, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.Item{}, err
	}
	return
}

func (c *itemCache) SetItem(ctx context.Context, it *domain.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyItem, it.ID), data, itemTTL).Err()
}

func (c *itemCache) DeleteItem(ctx context.Context, id int64) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyItem, id)).Err()
}
