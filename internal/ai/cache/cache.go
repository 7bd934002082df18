// Package cache memoizes advisor suggestions in redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/ai"
)

const (
	keyPrefix  = "comp-forecast:suggestion:"
	defaultTTL = 24 * time.Hour
)

// ErrEmptyAddress is returned when the redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// Config holds redis connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Advisor serves suggestions from redis and asks the wrapped advisor on a miss.
// Redis errors never fail a request.
type Advisor struct {
	next   ai.Advisor
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps next with a redis cache.
func New(next ai.Advisor, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Advisor {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{next: next, client: client, ttl: ttl, logger: logger}
}

// Model returns the wrapped advisor's model.
func (a *Advisor) Model() string {
	return a.next.Model()
}

// Suggest returns a cached suggestion for an identical request or delegates to the wrapped advisor.
func (a *Advisor) Suggest(ctx context.Context, req *ai.Request) (*ai.Suggestion, error) {
	key, err := a.key(req)
	if err != nil {
		a.logger.Warn("building suggestion cache key", zap.Error(err))
		return a.next.Suggest(ctx, req)
	}

	if cached, ok := a.get(ctx, key); ok {
		a.logger.Debug("suggestion cache hit", zap.String("key", key))
		return cached, nil
	}

	suggestion, err := a.next.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	a.set(ctx, key, suggestion)
	return suggestion, nil
}

func (a *Advisor) key(req *ai.Request) (string, error) {
	payload, err := json.Marshal(struct {
		Model   string      `json:"model"`
		Request *ai.Request `json:"request"`
	}{Model: a.next.Model(), Request: req})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s%x", keyPrefix, sum[:]), nil
}

func (a *Advisor) get(ctx context.Context, key string) (*ai.Suggestion, bool) {
	data, err := a.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.logger.Warn("reading suggestion cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var suggestion ai.Suggestion
	if err := json.Unmarshal(data, &suggestion); err != nil {
		a.logger.Warn("decoding cached suggestion", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &suggestion, true
}

func (a *Advisor) set(ctx context.Context, key string, suggestion *ai.Suggestion) {
	data, err := json.Marshal(suggestion)
	if err != nil {
		a.logger.Warn("encoding suggestion for cache", zap.Error(err))
		return
	}
	if err := a.client.Set(ctx, key, data, a.ttl).Err(); err != nil {
		a.logger.Warn("writing suggestion cache", zap.String("key", key), zap.Error(err))
	}
}
