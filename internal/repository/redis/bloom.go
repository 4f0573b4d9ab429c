package redis

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const (
	KeyItemBloom = "bloom:item:ids"

	bloomHashes = 3

	// bulkChunk caps the SETBIT commands queued in one pipeline.
	bulkChunk = 2000
)

// itemBloom is a bloom filter over item ids in a single redis bitmap. Bit
// positions use double hashing: h1 + i*h2 mod size.
type itemBloom struct {
	client *redis.Client
	key    string
	size   uint64
}

var _ domain.BloomRepository = (*itemBloom)(nil)

func NewRedisBloomRepo(client *redis.Client, bitSize uint64) *itemBloom {
	if bitSize == 0 {
		bitSize = 1 << 20
	}
	return &itemBloom{
		client: client,
		key:    KeyItemBloom,
		size:   bitSize,
	}
}

func (b *itemBloom) offsets(id int64) [bloomHashes]int64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	sum := h.Sum64()
	h1, h2 := sum&0xffffffff, sum>>32|1

	var res [bloomHashes]int64
	for i := range res {
		res[i] = int64((h1 + uint64(i)*h2) % b.size)
	}
	return res
}

func (b *itemBloom) Add(ctx context.Context, id int64) error {
	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, off := range b.offsets(id) {
			pipe.SetBit(ctx, b.key, off, 1)
		}
		return nil
	})
	return err
}

func (b *itemBloom) Exists(ctx context.Context, id int64) (bool, error) {
	offs := b.offsets(id)
	cmds := make([]*redis.IntCmd, len(offs))
	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, off := range offs {
			cmds[i] = pipe.GetBit(ctx, b.key, off)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (b *itemBloom) BulkAdd(ctx context.Context, ids []int64) error {
	for start := 0; start < len(ids); start += bulkChunk / bloomHashes {
		end := min(start+bulkChunk/bloomHashes, len(ids))
		_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids[start:end] {
				for _, off := range b.offsets(id) {
					pipe.SetBit(ctx, b.key, off, 1)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
