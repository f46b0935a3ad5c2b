package preview

import (
	"context"
	"errors"

	"github.com/atinyakov/bearlink/internal/kv"
)

const QueueKey = "link-preview-queue"

// Queue is the FIFO of link ids awaiting resolution. An id is a hint: the
// worker still claims the row before touching it.
type Queue struct {
	store kv.Store
	key   string
}

func NewQueue(store kv.Store) *Queue {
	return &Queue{store: store, key: QueueKey}
}

func (q *Queue) Push(ctx context.Context, linkID string) error {
	return q.store.RPush(ctx, q.key, linkID)
}

// PopOne removes the head of the queue. ok is false when the queue is empty.
func (q *Queue) PopOne(ctx context.Context) (linkID string, ok bool, err error) {
	v, err := q.store.LPop(ctx, q.key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
