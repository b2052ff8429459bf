package activity

import "context"

// Repository defines the operations for persisting and retrieving activity entries.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListNewestFirst(ctx context.Context) ([]*Entry, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}
