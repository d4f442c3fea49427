package session

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE client_sessions`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	exerciseRepository(t, NewPostgres(pool, 0))
}

func TestRedisRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	repo := NewRedis(client, 0)
	_ = repo.Delete(ctx, "ns1")
	_ = repo.Delete(ctx, "ns2")

	exerciseRepository(t, repo)
}

func TestRedisRepository_HalfIdentityIsAbsent(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	repo := NewRedis(client, 0).(*redisRepo)
	t.Cleanup(func() { _ = repo.Delete(ctx, "half") })

	if err := client.MSet(ctx, repo.tokenKey("half"), "tok-1", repo.userKey("half"), `{"name":"Ada","role":"CUSTOMER"}`).Err(); err != nil {
		t.Fatalf("seed keys: %v", err)
	}
	if _, err := repo.Load(ctx, "half"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("identity without id should load as absent, got %v", err)
	}
}
