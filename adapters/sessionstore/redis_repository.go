package sessionstore

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"glycorisk/domain/core"
	"glycorisk/domain/session"
	"glycorisk/internal/errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "glycorisk:session:"

// RedisRepository stores sessions as JSON values with a TTL
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository connects to addr and verifies the connection
func NewRedisRepository(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.SessionError("failed to connect to redis at "+addr, err)
	}
	return NewRedisRepositoryWithClient(client, ttl), nil
}

// NewRedisRepositoryWithClient wraps an existing client
func NewRedisRepositoryWithClient(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func redisKey(id core.ID) string {
	return redisKeyPrefix + id.String()
}

// Load fetches and decodes a session
func (r *RedisRepository) Load(ctx context.Context, id core.ID) (*session.State, error) {
	payload, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, errors.NotFound("session " + id.String())
	}
	if err != nil {
		return nil, errors.SessionError("failed to load session", err)
	}

	var state session.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.SessionError("failed to decode session", err)
	}
	return &state, nil
}

// Save encodes the session and refreshes its TTL
func (r *RedisRepository) Save(ctx context.Context, state *session.State) error {
	if state == nil || state.ID.IsEmpty() {
		return errors.SessionError("cannot save a session without an ID", nil)
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.SessionError("failed to encode session", err)
	}
	if err := r.client.Set(ctx, redisKey(state.ID), payload, r.ttl).Err(); err != nil {
		return errors.SessionError("failed to save session", err)
	}
	return nil
}

// Delete removes a session
func (r *RedisRepository) Delete(ctx context.Context, id core.ID) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return errors.SessionError("failed to delete session", err)
	}
	return nil
}

// Close releases the client
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
