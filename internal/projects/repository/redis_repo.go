package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/build-trigger/internal/projects/domain"
)

const projectKeyPrefix = "project:" // Key for project data: project:{project_id}

// RedisRepository handles Redis reads of project records
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new RedisRepository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Get retrieves a project by its ID
func (r *RedisRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}

	data, err := r.client.Get(ctx, r.projectKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project data: %w", err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// Put stores a project record. Used to seed the store; the trigger never writes.
func (r *RedisRepository) Put(ctx context.Context, p *domain.Project) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("project id required")
	}
	if p.OwnerUID == "" {
		return fmt.Errorf("project owner required")
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project data: %w", err)
	}
	if err := r.client.Set(ctx, r.projectKey(p.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) projectKey(id string) string {
	return projectKeyPrefix + id
}
