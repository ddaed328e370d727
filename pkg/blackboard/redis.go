package blackboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. All keys are namespaced by run ID,
// so a run's artifacts survive the process and can be inspected afterwards.
// The store is safe for concurrent use, though a single run writes from one
// goroutine at a time.
type RedisStore struct {
	rdb   *redis.Client
	runID string
}

// NewRedisStore creates a Redis-backed blackboard for the given run.
// Returns an error if runID is empty; keys from distinct runs never collide.
func NewRedisStore(redisOpts *redis.Options, runID string) (*RedisStore, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	return &RedisStore{
		rdb:   redis.NewClient(redisOpts),
		runID: runID,
	}, nil
}

// Ping verifies Redis connectivity. Useful before starting a run.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Write atomically replaces the slot's value (SET) and appends a history
// entry (RPUSH). The value write and the history append are two commands;
// the value SET alone is what readers observe, so a slot is never seen
// partially written.
func (r *RedisStore) Write(ctx context.Context, slot Slot, value, writer string) error {
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("invalid write: %w", err)
	}
	if writer == "" {
		return fmt.Errorf("invalid write: writer cannot be empty")
	}

	if err := r.rdb.Set(ctx, SlotKey(r.runID, slot), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot to Redis: %w", err)
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Slot:      slot,
		Value:     value,
		Writer:    writer,
		Timestamp: time.Now().UTC(),
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if err := r.rdb.RPush(ctx, HistoryKey(r.runID), entryJSON).Err(); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

// Read returns the slot's current value, or ErrNotFound if it was never written.
func (r *RedisStore) Read(ctx context.Context, slot Slot) (string, error) {
	if err := slot.Validate(); err != nil {
		return "", fmt.Errorf("invalid read: %w", err)
	}

	value, err := r.rdb.Get(ctx, SlotKey(r.runID, slot)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read slot from Redis: %w", err)
	}
	return value, nil
}

// Snapshot reads every declared slot and returns the ones that are set.
func (r *RedisStore) Snapshot(ctx context.Context) (map[Slot]string, error) {
	snap := make(map[Slot]string)
	for _, slot := range Slots() {
		value, err := r.Read(ctx, slot)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		snap[slot] = value
	}
	return snap, nil
}

// History returns the run's write history in write order.
func (r *RedisStore) History(ctx context.Context) ([]Entry, error) {
	raw, err := r.rdb.LRange(ctx, HistoryKey(r.runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from Redis: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
