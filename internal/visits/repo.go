package visits

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	siteVisitsKey     = "poemsite::visits"
	poemViewsKeyPrefix = "poemsite::poem-views::"
)

// Repo keeps the visit counters in redis. Increments go through INCR,
// so concurrent visitors never lose a count.
type Repo struct {
	rdb *redis.Client
}

func NewRepo(rdb *redis.Client) *Repo {
	return &Repo{
		rdb: rdb,
	}
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	count, err := r.rdb.Get(ctx, siteVisitsKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get visits count: %w", err)
	}
	return count, nil
}

func (r *Repo) Increment(ctx context.Context) (int64, error) {
	count, err := r.rdb.Incr(ctx, siteVisitsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment visits count: %w", err)
	}
	return count, nil
}

func (r *Repo) Reset(ctx context.Context) error {
	if err := r.rdb.Set(ctx, siteVisitsKey, 0, 0).Err(); err != nil {
		return fmt.Errorf("reset visits count: %w", err)
	}
	return nil
}

func (r *Repo) IncrementPoemViews(ctx context.Context, poemID int) (int64, error) {
	views, err := r.rdb.Incr(ctx, poemViewsKey(poemID)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views for poem %d: %w", poemID, err)
	}
	return views, nil
}

func (r *Repo) PoemViews(ctx context.Context, poemID int) (int64, error) {
	views, err := r.rdb.Get(ctx, poemViewsKey(poemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get views for poem %d: %w", poemID, err)
	}
	return views, nil
}

func poemViewsKey(poemID int) string {
	return fmt.Sprintf("%s%d", poemViewsKeyPrefix, poemID)
}
