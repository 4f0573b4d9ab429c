package domain

import "context"

type BloomRepository interface {
	// Add puts the id into the filter
	Add(ctx context.Context, id int64) error

	// Exists reports whether the id may exist.
	// true: maybe present, keep looking in cache/db
	// false: definitely absent, answer 404 directly
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd adds many ids in one round trip
	BulkAdd(ctx context.Context, ids []int64) error
}
