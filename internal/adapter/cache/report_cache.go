package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

const DefaultReportTTL = 30 * time.Second

func ReportKey(eventID uuid.UUID) string {
	return fmt.Sprintf("report:%s", eventID.String())
}

type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

func (c *ReportCache) Get(ctx context.Context, eventID uuid.UUID) (*domain.EventReport, error) {
	raw, err := c.client.Get(ctx, ReportKey(eventID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report domain.EventReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

func (c *ReportCache) Set(ctx context.Context, report *domain.EventReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ReportKey(report.EventID), string(data), c.ttl).Err()
}

func (c *ReportCache) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	return c.client.Del(ctx, ReportKey(eventID)).Err()
}

// Nop is used when no redis is configured.
type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID) (*domain.EventReport, error) { return nil, nil }
func (Nop) Set(context.Context, *domain.EventReport) error              { return nil }
func (Nop) Invalidate(context.Context, uuid.UUID) error                 { return nil }
