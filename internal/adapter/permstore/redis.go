package permstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/salescore/backend/internal/adapter/config"
)

const keyPrefix = "permissions:role:"

// Store keeps per-role permission overrides in redis, shared across
// all service instances.
type Store struct {
	client *redis.Client
}

func NewStore(cfg *config.Redis) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Overrides(ctx context.Context, role string) ([]string, error) {
	members, err := s.client.SMembers(ctx, keyPrefix+role).Result()
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Store) SetOverrides(ctx context.Context, role string, permissions []string) error {
	key := keyPrefix + role

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(permissions) > 0 {
		members := make([]interface{}, len(permissions))
		for i, perm := range permissions {
			members[i] = perm
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
