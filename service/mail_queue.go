package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrQueueFull is returned when a message could not be queued before the
// enqueue timeout.
var ErrQueueFull = errors.New("mail queue is full")

type MailQueue interface {
	Enqueue(ctx context.Context, msg types.MailMessage) error
	// Dequeue blocks until a message is available or ctx is done.
	Dequeue(ctx context.Context) (types.MailMessage, error)
	// Len reports how many messages wait for a worker.
	Len(ctx context.Context) (int64, error)
}

type memoryMailQueue struct {
	ch      chan types.MailMessage
	timeout time.Duration
}

func NewMemoryMailQueue(size int, timeout time.Duration) MailQueue {
	if size < 1 {
		size = 1
	}
	return &memoryMailQueue{
		ch:      make(chan types.MailMessage, size),
		timeout: timeout,
	}
}

func (q *memoryMailQueue) Enqueue(ctx context.Context, msg types.MailMessage) error {
	select {
	case q.ch <- msg:
		return nil
	default:
	}
	timer := time.NewTimer(q.timeout)
	defer timer.Stop()
	select {
	case q.ch <- msg:
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *memoryMailQueue) Dequeue(ctx context.Context) (types.MailMessage, error) {
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-ctx.Done():
		return types.MailMessage{}, ctx.Err()
	}
}

func (q *memoryMailQueue) Len(context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

// boundedPush appends ARGV[2] to the list unless it already holds ARGV[1]
// entries, in which case it returns -1.
var boundedPush = redis.NewScript(`
if redis.call('LLEN', KEYS[1]) < tonumber(ARGV[1]) then
	return redis.call('RPUSH', KEYS[1], ARGV[2])
end
return -1
`)

// redisMailQueue keeps messages in a Redis list so queued mail survives a
// restart and several server processes can share the workers.
type redisMailQueue struct {
	client  *redis.Client
	key     string
	size    int64
	timeout time.Duration
	poll    time.Duration
}

func NewRedisMailQueue(client *redis.Client, key string, size int, timeout time.Duration) MailQueue {
	return &redisMailQueue{
		client:  client,
		key:     key,
		size:    int64(size),
		timeout: timeout,
		poll:    200 * time.Millisecond,
	}
}

func (q *redisMailQueue) Enqueue(ctx context.Context, msg types.MailMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(q.timeout)
	for {
		n, err := boundedPush.Run(ctx, q.client, []string{q.key}, q.size, data).Int64()
		if err != nil {
			return fmt.Errorf("mail queue push: %w", err)
		}
		if n >= 0 {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrQueueFull
		}
		select {
		case <-time.After(q.poll):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *redisMailQueue) Dequeue(ctx context.Context) (types.MailMessage, error) {
	for {
		res, err := q.client.BLPop(ctx, time.Second, q.key).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return types.MailMessage{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return types.MailMessage{}, ctx.Err()
			}
			return types.MailMessage{}, err
		}
		// res is [key, value]
		var msg types.MailMessage
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			zap.L().Error("dropping malformed queued mail", zap.Error(err))
			continue
		}
		return msg, nil
	}
}

func (q *redisMailQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// RunMailWorkers drains q with n workers until ctx is cancelled. Send
// failures are logged and the message is dropped.
func RunMailWorkers(ctx context.Context, q MailQueue, mailer Mailer, n int) {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				msg, err := q.Dequeue(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					zap.L().Error("mail dequeue failed", zap.Int("worker", worker), zap.Error(err))
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
						return
					}
					continue
				}
				if err := mailer.Send(ctx, msg); err != nil {
					zap.L().Error("mail send failed",
						zap.String("to", msg.To),
						zap.String("subject", msg.Subject),
						zap.Error(err),
					)
				}
			}
		}(i)
	}
	wg.Wait()
}
