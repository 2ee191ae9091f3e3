package orphans

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/media-service/internal/types"
)

// LedgerKey is the Redis list holding orphaned remote objects.
const LedgerKey = "media:orphans"

// Ledger is a FIFO of remote objects that have no media record.
type Ledger struct {
	redis *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{redis: client}
}

// Push appends an orphan. CreatedAt is filled in when zero.
func (l *Ledger) Push(ctx context.Context, orphan types.Orphan) error {
	if orphan.CreatedAt.IsZero() {
		orphan.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(orphan)
	if err != nil {
		return fmt.Errorf("encode orphan: %w", err)
	}

	if err := l.redis.LPush(ctx, LedgerKey, data).Err(); err != nil {
		return fmt.Errorf("push orphan %s: %w", orphan.PublicID, err)
	}
	return nil
}

// Pop removes the oldest orphan. It returns nil, nil when the ledger is empty.
func (l *Ledger) Pop(ctx context.Context) (*types.Orphan, error) {
	data, err := l.redis.RPop(ctx, LedgerKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop orphan: %w", err)
	}

	var orphan types.Orphan
	if err := json.Unmarshal(data, &orphan); err != nil {
		return nil, fmt.Errorf("decode orphan: %w", err)
	}
	return &orphan, nil
}

func (l *Ledger) Len(ctx context.Context) (int64, error) {
	return l.redis.LLen(ctx, LedgerKey).Result()
}
