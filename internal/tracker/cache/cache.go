// Package cache is a redis read-through cache for the public single-project
// endpoint. Share links are the one hot read path served without a
// credential, so responses are cached briefly and dropped on any mutation
// touching the project.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

const projectKeyPrefix = "bugly:project:" // bugly:project:{project_id}

type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ProjectCache {
	return &ProjectCache{client: client, ttl: ttl}
}

// Get returns the cached project, or nil on a miss.
func (c *ProjectCache) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	data, err := c.client.Get(ctx, c.key(projectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &p, nil
}

// Set stores the project for the configured TTL.
func (c *ProjectCache) Set(ctx context.Context, p *domain.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(p.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry after a mutation.
func (c *ProjectCache) Invalidate(ctx context.Context, projectID string) error {
	if err := c.client.Del(ctx, c.key(projectID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *ProjectCache) key(projectID string) string {
	return projectKeyPrefix + projectID
}
