package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgres stores one row per namespace in client_sessions.
func NewPostgres(pool *pgxpool.Pool, ttl time.Duration) Repository {
	return &postgresRepo{pool: pool, ttl: ttl}
}

func (r *postgresRepo) Load(ctx context.Context, namespace string) (*Record, error) {
	const q = `
SELECT credential, identity
FROM client_sessions
WHERE namespace = $1 AND (expires_at IS NULL OR expires_at > now())
`
	var rec Record
	var identity []byte
	if err := r.pool.QueryRow(ctx, q, namespace).Scan(&rec.Credential, &identity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(identity, &rec.Identity); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	if validate(rec) != nil {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *postgresRepo) Save(ctx context.Context, namespace string, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	identity, err := json.Marshal(rec.Identity)
	if err != nil {
		return err
	}
	var expiresAt *time.Time
	if r.ttl > 0 {
		t := time.Now().Add(r.ttl)
		expiresAt = &t
	}
	const q = `
INSERT INTO client_sessions (namespace, credential, identity, expires_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, now())
ON CONFLICT (namespace) DO UPDATE
SET credential = EXCLUDED.credential,
    identity = EXCLUDED.identity,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, namespace, rec.Credential, string(identity), expiresAt)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, namespace string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM client_sessions WHERE namespace = $1`, namespace)
	return err
}

// PurgeExpired removes rows whose expiry has passed and reports how many went.
func PurgeExpired(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	cmd, err := pool.Exec(ctx, `DELETE FROM client_sessions WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
