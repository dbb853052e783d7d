package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	red "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/core/port"
)

const ruleKeyPrefix = "registration:rules:"

// RuleCache is a read-through cache over a rule repository. Every user write
// consults several rule keys, so hot keys are served from Redis; writes go to
// the source and invalidate the cached entry. Misses are never cached: an
// unconfigured key must become visible the moment it is created.
type RuleCache struct {
	client *red.Client
	source port.RuleRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRuleCache decorates source with Redis caching. A nil client disables
// caching and delegates every call.
func NewRuleCache(client *red.Client, source port.RuleRepository, ttl time.Duration, logger *zap.Logger) *RuleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleCache{client: client, source: source, ttl: ttl, logger: logger}
}

// GetByKey serves the rule from cache when present, falling back to the
// source. Cache failures degrade to a source read, never to an error.
func (c *RuleCache) GetByKey(ctx context.Context, key string) (*domain.ValidationRule, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
		switch {
		case err == nil:
			var rule domain.ValidationRule
			if err := json.Unmarshal(data, &rule); err == nil {
				return &rule, nil
			}
			c.logger.Warn("corrupt cached rule, rereading", zap.String("key", key))
		case !errors.Is(err, red.Nil):
			c.logger.Warn("rule cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	rule, err := c.source.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	c.store(ctx, rule)
	return rule, nil
}

// List always reads the source; the cache only holds individual keys.
func (c *RuleCache) List(ctx context.Context) ([]domain.ValidationRule, error) {
	return c.source.List(ctx)
}

// Create writes through and invalidates any stale entry under the key.
func (c *RuleCache) Create(ctx context.Context, rule domain.ValidationRule) error {
	if err := c.source.Create(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx, rule.Key)
	return nil
}

// Update writes through and invalidates the cached entry.
func (c *RuleCache) Update(ctx context.Context, rule domain.ValidationRule) error {
	if err := c.source.Update(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx, rule.Key)
	return nil
}

// Delete removes the rule and its cached entry.
func (c *RuleCache) Delete(ctx context.Context, key string) error {
	if err := c.source.Delete(ctx, key); err != nil {
		return err
	}
	c.invalidate(ctx, key)
	return nil
}

func (c *RuleCache) store(ctx context.Context, rule *domain.ValidationRule) {
	if c.client == nil || rule == nil {
		return
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.cacheKey(rule.Key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("rule cache write failed", zap.String("key", rule.Key), zap.Error(err))
	}
}

func (c *RuleCache) invalidate(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.cacheKey(key)).Err(); err != nil {
		c.logger.Warn("rule cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RuleCache) cacheKey(key string) string {
	return fmt.Sprintf("%s%s", ruleKeyPrefix, key)
}
