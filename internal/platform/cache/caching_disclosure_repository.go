// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/usecase"
)

// DisclosureStore は読み取りとバッチ書き込みを兼ねるリポジトリです。
type DisclosureStore interface {
	usecase.DisclosureRepository
	usecase.BatchRepository
	usecase.OutcomeWriter
}

// CachingDisclosureRepository decorates a DisclosureStore with Redis caching.
// Reads for the dashboard are cached; every write invalidates the namespace.
type CachingDisclosureRepository struct {
	inner     DisclosureStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ DisclosureStore = (*CachingDisclosureRepository)(nil)

// NewCachingDisclosureRepository decorates a DisclosureStore with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "disclosures".
// A nil client disables caching.
func NewCachingDisclosureRepository(rdb *redis.Client, ttl time.Duration, inner DisclosureStore, namespace string) *CachingDisclosureRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "disclosures"
	}
	return &CachingDisclosureRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns disclosures, checking cache first then falling back to the database.
func (c *CachingDisclosureRepository) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Disclosure, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, filter)
	}

	key := c.listKey(filter)
	var out []entity.Disclosure
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID returns a single disclosure, checking cache first.
func (c *CachingDisclosureRepository) FindByID(ctx context.Context, id uint) (entity.Disclosure, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var out entity.Disclosure
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return entity.Disclosure{}, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindOldestPending is never cached; the batch must see the current queue.
func (c *CachingDisclosureRepository) FindOldestPending(ctx context.Context) (entity.Disclosure, error) {
	return c.inner.FindOldestPending(ctx)
}

func (c *CachingDisclosureRepository) Create(ctx context.Context, d *entity.Disclosure) error {
	if err := c.inner.Create(ctx, d); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingDisclosureRepository) ResetToPending(ctx context.Context, id uint) error {
	if err := c.inner.ResetToPending(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingDisclosureRepository) ApplyOutcome(ctx context.Context, id uint, o entity.Outcome) error {
	if err := c.inner.ApplyOutcome(ctx, id, o); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachingDisclosureRepository) MarkError(ctx context.Context, id uint) error {
	if err := c.inner.MarkError(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// get decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingDisclosureRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores a value (best effort).
func (c *CachingDisclosureRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate drops every cached entry in the namespace. Failures are logged only;
// entries expire after ttl anyway.
func (c *CachingDisclosureRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("failed to invalidate disclosure cache", "namespace", c.namespace, "error", err)
	}
}

// listKey generates a cache key for a list query.
func (c *CachingDisclosureRepository) listKey(filter usecase.ListFilter) string {
	status := "all"
	if filter.Status != nil {
		status = filter.Status.String()
	}
	code := "all"
	if filter.StockCode != "" {
		code = safe(filter.StockCode)
	}
	return fmt.Sprintf("%s:list:%s:%s:%d", c.namespace, status, code, filter.Limit)
}

func (c *CachingDisclosureRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingDisclosureRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
