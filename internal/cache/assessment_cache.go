package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"mindscreen/internal/model"
)

const (
	tierCountsKey = "assessments:tiers"
	overridesKey  = "assessments:overrides"
	totalField    = "total"
)

// AssessmentCache keeps running tier counters and each user's latest result
type AssessmentCache interface {
	RecordTier(ctx context.Context, tier model.RiskTier, override bool) error
	Stats(ctx context.Context) (*model.TierStats, error)
	Seed(ctx context.Context, stats *model.TierStats) error
	SetLatest(ctx context.Context, userID string, record *model.AssessmentRecord) error
	GetLatest(ctx context.Context, userID string) (*model.AssessmentRecord, error)
}

type assessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAssessmentCache creates a new assessment cache
func NewAssessmentCache(client *redis.Client) AssessmentCache {
	return &assessmentCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *assessmentCache) latestKey(userID string) string {
	return fmt.Sprintf("user:%s:latest", userID)
}

// RecordTier bumps the tier counter and the total in one round trip.
func (c *assessmentCache) RecordTier(ctx context.Context, tier model.RiskTier, override bool) error {
	pipe := c.client.TxPipeline()
	pipe.HIncrBy(ctx, tierCountsKey, string(tier), 1)
	pipe.HIncrBy(ctx, tierCountsKey, totalField, 1)
	if override {
		pipe.Incr(ctx, overridesKey)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *assessmentCache) Stats(ctx context.Context) (*model.TierStats, error) {
	counts, err := c.client.HGetAll(ctx, tierCountsKey).Result()
	if err != nil {
		return nil, err
	}

	stats := model.NewTierStats()
	for field, raw := range counts {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tier counter %s: %w", field, err)
		}
		if field == totalField {
			stats.Total = n
			continue
		}
		stats.ByTier[model.RiskTier(field)] = n
	}

	overrides, err := c.client.Get(ctx, overridesKey).Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats.Overrides = overrides
	return stats, nil
}

// Seed loads counters aggregated from storage into an empty cache. It
// returns redis.TxFailedErr when a submission lands first, leaving the live
// counters untouched.
func (c *assessmentCache) Seed(ctx context.Context, stats *model.TierStats) error {
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, tierCountsKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		fields := map[string]interface{}{totalField: stats.Total}
		for tier, count := range stats.ByTier {
			fields[string(tier)] = count
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, tierCountsKey, fields)
			pipe.Set(ctx, overridesKey, stats.Overrides, 0)
			return nil
		})
		return err
	}, tierCountsKey)
}

func (c *assessmentCache) SetLatest(ctx context.Context, userID string, record *model.AssessmentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.latestKey(userID), data, c.ttl).Err()
}

func (c *assessmentCache) GetLatest(ctx context.Context, userID string) (*model.AssessmentRecord, error) {
	data, err := c.client.Get(ctx, c.latestKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record model.AssessmentRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
