package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const (
	KeyNotificationSeq   = "notification:seq"
	KeyNotificationItems = "notification:user:%d:items" // HASH id -> record
	KeyNotificationOrder = "notification:user:%d:order" // ZSET id scored by seq
	KeyNotificationKeys  = "notification:user:%d:keys"  // HASH natural key -> id
	KeyNotificationNK    = "notification:user:%d:nk"    // HASH id -> natural key

	maxWatchRetries = 5
)

// KEYS = {items, order, keys, nk}
// ARGV = {natural key, candidate id, score, record, retention}
var upsertNotificationScript = redis.NewScript(`
	local id = redis.call('HGET', KEYS[3], ARGV[1])
	if not id then
		id = ARGV[2]
		redis.call('HSET', KEYS[3], ARGV[1], id)
		redis.call('HSET', KEYS[4], id, ARGV[1])
	end

	redis.call('HSET', KEYS[1], id, ARGV[4])
	redis.call('ZADD', KEYS[2], ARGV[3], id)

	local excess = redis.call('ZCARD', KEYS[2]) - tonumber(ARGV[5])
	if excess > 0 then
		local old = redis.call('ZRANGE', KEYS[2], 0, excess - 1)
		for _, oid in ipairs(old) do
			redis.call('ZREM', KEYS[2], oid)
			redis.call('HDEL', KEYS[1], oid)
			local nk = redis.call('HGET', KEYS[4], oid)
			if nk then
				redis.call('HDEL', KEYS[3], nk)
			end
			redis.call('HDEL', KEYS[4], oid)
		end
	end

	return id
`)

// KEYS = {items, order, keys, nk}
// ARGV = {id}
var deleteNotificationScript = redis.NewScript(`
	if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
		return 0
	end

	redis.call('HDEL', KEYS[1], ARGV[1])
	redis.call('ZREM', KEYS[2], ARGV[1])
	local nk = redis.call('HGET', KEYS[4], ARGV[1])
	if nk then
		redis.call('HDEL', KEYS[3], nk)
	end
	redis.call('HDEL', KEYS[4], ARGV[1])
	return 1
`)

// notificationRecord is the stored form; the id lives in the hash field
type notificationRecord struct {
	RecipientID int64                   `json:"recipient_id"`
	ActorID     int64                   `json:"actor_id"`
	Type        domain.NotificationType `json:"type"`
	ItemID      int64                   `json:"item_id"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	Payload     map[string]string       `json:"payload,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	Read        bool                    `json:"read"`
}

func newRecord(n *domain.Notification) notificationRecord {
	return notificationRecord{
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Type:        n.Type,
		ItemID:      n.ItemID,
		Title:       n.Title,
		Body:        n.Body,
		Payload:     n.Payload,
		CreatedAt:   n.CreatedAt,
		Read:        n.Read,
	}
}

func (r notificationRecord) toDomain(id int64) domain.Notification {
	return domain.Notification{
		ID:          id,
		RecipientID: r.RecipientID,
		ActorID:     r.ActorID,
		Type:        r.Type,
		ItemID:      r.ItemID,
		Title:       r.Title,
		Body:        r.Body,
		Payload:     r.Payload,
		CreatedAt:   r.CreatedAt,
		Read:        r.Read,
	}
}

type notificationRepository struct {
	client *redis.Client
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

// NewNotificationRepository stores each recipient's feed under its own keys
func NewNotificationRepository(client *redis.Client) *notificationRepository {
	return &notificationRepository{client}
}

func userKeys(userID int64) []string {
	return []string{
		fmt.Sprintf(KeyNotificationItems, userID),
		fmt.Sprintf(KeyNotificationOrder, userID),
		fmt.Sprintf(KeyNotificationKeys, userID),
		fmt.Sprintf(KeyNotificationNK, userID),
	}
}

func (r *notificationRepository) Upsert(ctx context.Context, n *domain.Notification, retention int) error {
	if retention <= 0 {
		retention = domain.DefaultNotificationRetention
	}

	seq, err := r.client.Incr(ctx, KeyNotificationSeq).Result()
	if err != nil {
		return err
	}

	n.CreatedAt = time.Now()
	n.Read = false
	data, err := json.Marshal(newRecord(n))
	if err != nil {
		return err
	}

	args := []any{n.NaturalKey(), seq, seq, data, retention}
	idStr, err := upsertNotificationScript.Run(ctx, r.client, userKeys(n.RecipientID), args...).Text()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, filter domain.NotificationFilter, limit int) ([]domain.Notification, error) {
	keys := userKeys(userID)
	ids, err := r.client.ZRevRange(ctx, keys[1], 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Notification{}, nil
	}

	vals, err := r.client.HMGet(ctx, keys[0], ids...).Result()
	if err != nil {
		return nil, err
	}

	res := make([]domain.Notification, 0, len(ids))
	for i, val := range vals {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var rec notificationRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			logrus.Errorf("failed to decode notification %s for user %d: %v", ids[i], userID, err)
			continue
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		n := rec.toDomain(id)
		if !filter.Match(n) {
			continue
		}
		res = append(res, n)
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}

// MarkAllRead rewrites unread records inside a WATCH transaction so a concurrent
// Upsert is never overwritten with stale content.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	itemsKey := fmt.Sprintf(KeyNotificationItems, userID)
	updated := 0

	txf := func(tx *redis.Tx) error {
		updated = 0
		all, err := tx.HGetAll(ctx, itemsKey).Result()
		if err != nil {
			return err
		}

		changes := make([]any, 0, 2*len(all))
		for id, str := range all {
			var rec notificationRecord
			if err := json.Unmarshal([]byte(str), &rec); err != nil {
				logrus.Errorf("failed to decode notification %s for user %d: %v", id, userID, err)
				continue
			}
			if rec.Read {
				continue
			}
			rec.Read = true
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			changes = append(changes, id, data)
			updated++
		}
		if len(changes) == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, itemsKey, changes...)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, itemsKey); err != nil {
		return 0, err
	}
	return updated, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	itemsKey := fmt.Sprintf(KeyNotificationItems, userID)
	field := strconv.FormatInt(id, 10)

	txf := func(tx *redis.Tx) error {
		str, err := tx.HGet(ctx, itemsKey, field).Result()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		} else if err != nil {
			return err
		}

		var rec notificationRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return err
		}
		if rec.Read {
			return nil
		}
		rec.Read = true
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, itemsKey, field, data)
			return nil
		})
		return err
	}

	return r.watch(ctx, txf, itemsKey)
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := deleteNotificationScript.Run(ctx, r.client, userKeys(userID), id).Int()
	if err != nil {
		return err
	}
	if res == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	vals, err := r.client.HVals(ctx, fmt.Sprintf(KeyNotificationItems, userID)).Result()
	if err != nil {
		return 0, err
	}

	var unread int64
	for _, str := range vals {
		var rec notificationRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			continue
		}
		if !rec.Read {
			unread++
		}
	}
	return unread, nil
}

func (r *notificationRepository) watch(ctx context.Context, txf func(tx *redis.Tx) error, keys ...string) error {
	for range maxWatchRetries {
		err := r.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return domain.ErrTransient
}
