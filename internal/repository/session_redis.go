package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock taken over by another request is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// RedisSessionRepo stores sessions as JSON under "<prefix>:<id>" and locks
// them with SET NX under "<prefix>:<id>:lock".
type RedisSessionRepo struct {
	rdb      *redis.Client
	ttl      time.Duration
	prefix   string
	newToken func() string
}

// NewRedisSessionRepo constructs a repo whose records expire ttl after the
// last write.
func NewRedisSessionRepo(rdb *redis.Client, ttl time.Duration) *RedisSessionRepo {
	return &RedisSessionRepo{rdb: rdb, ttl: ttl, prefix: "session", newToken: uuid.NewString}
}

func (r *RedisSessionRepo) key(id string) string { return r.prefix + ":" + id }

func (r *RedisSessionRepo) lockKey(id string) string { return r.key(id) + ":lock" }

// Get loads a session.
func (r *RedisSessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var rec SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if rec.State == nil {
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

// Put writes a session and restarts its TTL.
func (r *RedisSessionRepo) Put(ctx context.Context, rec *SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", rec.State.ID, err)
	}
	if err := r.rdb.Set(ctx, r.key(rec.State.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session %s: %w", rec.State.ID, err)
	}
	return nil
}

// Delete removes a session.  Deleting an unknown session is not an error.
func (r *RedisSessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Lock takes the session's mutation lock for at most ttl.  It fails fast
// rather than waiting.  The lock value is "<holder>:<token>" so a refused
// caller can learn who holds it.
func (r *RedisSessionRepo) Lock(ctx context.Context, id, holder string, ttl time.Duration) (Unlock, error) {
	value := holder + ":" + r.newToken()
	key := r.lockKey(id)
	ok, err := r.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !ok {
		cur, _ := r.rdb.Get(ctx, key).Result()
		h, _, _ := strings.Cut(cur, ":")
		return nil, &LockedError{Holder: h}
	}
	return func(ctx context.Context) error {
		return r.rdb.Eval(ctx, releaseScript, []string{key}, value).Err()
	}, nil
}
