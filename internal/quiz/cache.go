package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/devtutor/internal/logging"
)

const defaultCacheTTL = 30 * time.Minute

// Cache stores resolved question sets keyed by request.
type Cache interface {
	Get(ctx context.Context, req Request) ([]Question, bool, error)
	Set(ctx context.Context, req Request, questions []Question) error
}

func cacheKey(req Request) string {
	req = req.WithDefaults()
	return strings.Join([]string{
		"devtutor",
		"questions",
		topicKey(req.Topic),
		string(req.Difficulty),
		fmt.Sprint(req.Count),
		string(req.Category),
	}, ":")
}

// ResolveCached serves req from cache when possible. Only remotely generated
// sets are stored; refresh skips the lookup. Cache errors are logged and
// otherwise ignored.
func ResolveCached(ctx context.Context, r *Resolver, cache Cache, req Request, refresh bool) Result {
	if cache == nil {
		return r.ResolveDetailed(ctx, req)
	}
	log := logging.FromContext(ctx)

	if !refresh {
		questions, ok, err := cache.Get(ctx, req)
		if err != nil {
			log.Warn().Err(err).Msg("question cache read failed")
		} else if ok {
			return Result{Questions: questions, Source: SourceRemote}
		}
	}

	res := r.ResolveDetailed(ctx, req)
	if res.Source == SourceRemote {
		if err := cache.Set(ctx, req, res.Questions); err != nil {
			log.Warn().Err(err).Msg("question cache write failed")
		}
	}
	return res
}

// MemoryCache is an in-process Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	questions []Question
	expires   time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache. A non-positive ttl uses the default.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, req Request) ([]Question, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(req)
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return cloneQuestions(e.questions), true, nil
}

func (c *MemoryCache) Set(_ context.Context, req Request, questions []Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(req)] = memoryEntry{
		questions: cloneQuestions(questions),
		expires:   c.now().Add(c.ttl),
	}
	return nil
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// RedisCache shares question sets between server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a RedisCache. A non-positive ttl uses the default.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, req Request) ([]Question, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(req)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false, fmt.Errorf("decode cached questions: %w", err)
	}
	return questions, true, nil
}

func (c *RedisCache) Set(ctx context.Context, req Request, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(req), data, c.ttl).Err()
}
