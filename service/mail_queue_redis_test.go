package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Runs only against a real server, e.g. TEST_REDIS_ADDR=localhost:6379.
func TestRedisMailQueueBoundHoldsUnderConcurrency(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	key := "test:mail_queue:" + uuid.NewString()
	defer client.Del(ctx, key)

	const size, producers = 5, 40
	q := NewRedisMailQueue(client, key, size, 0)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Enqueue(ctx, types.MailMessage{To: "asha@example.com", Subject: "Task Reminder"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrQueueFull):
				full++
			default:
				t.Errorf("Enqueue: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != size || full != producers-size {
		t.Fatalf("accepted %d, refused %d; want %d and %d", ok, full, size, producers-size)
	}
	if n, err := q.Len(ctx); err != nil || n != size {
		t.Fatalf("Len = %d, %v", n, err)
	}

	dctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	msg, err := q.Dequeue(dctx)
	if err != nil || msg.Subject != "Task Reminder" {
		t.Fatalf("Dequeue = %+v, %v", msg, err)
	}
	if err := q.Enqueue(ctx, types.MailMessage{To: "bala@example.com"}); err != nil {
		t.Fatalf("Enqueue after a slot freed: %v", err)
	}
}
