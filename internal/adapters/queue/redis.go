package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"conferenceportal/internal/domain"
)

// DefaultListKey is the Redis list notifications are pushed to.
const DefaultListKey = "registration-notifications"

const popTimeout = 5 * time.Second

// listClient is the subset of *redis.Client the queue uses.
type listClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisQueue pushes JSON-encoded jobs onto a Redis list.
type RedisQueue struct {
	client listClient
	key    string
}

// NewRedisQueue returns a queue writing to key on client.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return newRedisQueue(client, key)
}

func newRedisQueue(client listClient, key string) *RedisQueue {
	if key == "" {
		key = DefaultListKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

// Worker pops jobs from a Redis list and delivers them through a notifier.
type Worker struct {
	client   listClient
	key      string
	notifier domain.RegistrationNotifier
	logger   *slog.Logger
}

// NewWorker returns a worker consuming key on client.
func NewWorker(client *redis.Client, key string, notifier domain.RegistrationNotifier, logger *slog.Logger) *Worker {
	return newWorker(client, key, notifier, logger)
}

func newWorker(client listClient, key string, notifier domain.RegistrationNotifier, logger *slog.Logger) *Worker {
	if key == "" {
		key = DefaultListKey
	}
	return &Worker{client: client, key: key, notifier: notifier, logger: logger}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker listening", "key", w.key)
	for {
		if err := w.processOne(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.ErrorContext(ctx, "notification worker pop failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

// processOne waits for a single job. A pop timeout is not an error.
func (w *Worker) processOne(ctx context.Context) error {
	res, err := w.client.BLPop(ctx, popTimeout, w.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	// BLPop returns [key, value].
	if len(res) != 2 {
		return fmt.Errorf("unexpected BLPOP reply of %d elements", len(res))
	}
	var job domain.NotificationJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		w.logger.ErrorContext(ctx, "dropping malformed notification", "err", err)
		return nil
	}
	deliver(ctx, w.notifier, w.logger, job)
	return nil
}
