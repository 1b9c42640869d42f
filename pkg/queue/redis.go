package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"MarketPulse/pkg/logger"
)

// RedisQueue is a Redis list backed job queue with a worker pool.
type RedisQueue struct {
	log       *logger.Logger
	cfg       *Config
	client    *redis.Client
	jobs      map[string]Job
	keyPrefix string

	mu        sync.Mutex
	running   bool
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix sets the Redis key namespace.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(r *RedisQueue) { r.keyPrefix = prefix }
}

// NewRedisQueue creates a Redis queue.
func NewRedisQueue(log *logger.Logger, cfg *Config, client *redis.Client, opts ...RedisQueueOption) *RedisQueue {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	rq := &RedisQueue{
		log:       log,
		cfg:       cfg,
		client:    client,
		jobs:      make(map[string]Job),
		keyPrefix: "marketpulse:queue",
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(rq)
	}
	return rq
}

// RegisterJob registers a handler for one message type.
func (r *RedisQueue) RegisterJob(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.Type()]; exists {
		r.log.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	r.jobs[job.Type()] = job
}

// PublishMessage enqueues a message for asynchronous processing.
func (r *RedisQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return r.client.LPush(ctx, r.listKey(), data).Err()
}

// Start launches the worker pool.
func (r *RedisQueue) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	r.running = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	r.log.Info("queue started", logger.Int("workers", r.cfg.Workers))
	return nil
}

// Stop shuts the worker pool down, waiting up to the context deadline.
func (r *RedisQueue) Stop(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queue stop: %w", ctx.Err())
	}
}

func (r *RedisQueue) worker() {
	defer r.wg.Done()

	for {
		data, err := r.client.BRPop(r.ctx, 2*time.Second, r.listKey()).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if !errors.Is(err, redis.Nil) {
				r.log.Error("queue pop", logger.Error(err))
			}
			select {
			case <-r.ctx.Done():
				return
			default:
				continue
			}
		}
		// BRPop returns [key, value]
		if len(data) < 2 {
			continue
		}
		r.process([]byte(data[1]))
	}
}

func (r *RedisQueue) process(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		r.log.Error("queue decode", logger.Error(err))
		return
	}

	r.mu.Lock()
	job, ok := r.jobs[msg.Type]
	r.mu.Unlock()
	if !ok {
		r.log.Warn("no job for message type", logger.String("type", msg.Type))
		return
	}

	if err := job.Handle(r.ctx, msg.Payload); err != nil {
		msg.Attempts++
		if msg.Attempts >= r.cfg.RetryLimit {
			r.log.Error("job failed, dropping",
				logger.String("job", job.Name()),
				logger.String("id", msg.ID),
				logger.Int("attempts", msg.Attempts),
				logger.Error(err))
			return
		}
		r.log.Warn("job failed, requeueing",
			logger.String("job", job.Name()),
			logger.String("id", msg.ID),
			logger.Int("attempts", msg.Attempts),
			logger.Error(err))

		go func(m Message) {
			select {
			case <-time.After(r.cfg.RetryDelay):
			case <-r.ctx.Done():
				return
			}
			if raw, err := json.Marshal(m); err == nil {
				_ = r.client.LPush(r.ctx, r.listKey(), raw).Err()
			}
		}(msg)
	}
}

func (r *RedisQueue) listKey() string {
	return r.keyPrefix + ":jobs"
}
