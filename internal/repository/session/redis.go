package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

type redisRepo struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis keeps the credential and the identity as two keys, mirroring the
// browser storage layout, and writes or clears them in one MULTI/EXEC.
// A zero ttl keeps records until logout.
func NewRedis(client redis.UniversalClient, ttl time.Duration) Repository {
	return &redisRepo{
		client: client,
		prefix: "storefront:session:",
		ttl:    ttl,
	}
}

func (r *redisRepo) tokenKey(namespace string) string {
	return r.prefix + namespace + ":token"
}

func (r *redisRepo) userKey(namespace string) string {
	return r.prefix + namespace + ":user"
}

func (r *redisRepo) Load(ctx context.Context, namespace string) (*Record, error) {
	vals, err := r.client.MGet(ctx, r.tokenKey(namespace), r.userKey(namespace)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	token, _ := vals[0].(string)
	user, _ := vals[1].(string)
	if token == "" || user == "" {
		return nil, domain.ErrNotFound
	}
	rec := Record{Credential: token}
	if err := json.Unmarshal([]byte(user), &rec.Identity); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	if validate(rec) != nil {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *redisRepo) Save(ctx context.Context, namespace string, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	user, err := json.Marshal(rec.Identity)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(namespace), rec.Credential, r.ttl)
		pipe.Set(ctx, r.userKey(namespace), user, r.ttl)
		return nil
	})
	return err
}

func (r *redisRepo) Delete(ctx context.Context, namespace string) error {
	return r.client.Del(ctx, r.tokenKey(namespace), r.userKey(namespace)).Err()
}
