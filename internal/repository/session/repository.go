package session

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// Record is the durable form of a session: the credential and the identity it
// belongs to. Backends store and clear both halves in a single operation.
type Record struct {
	Credential string          `json:"token"`
	Identity   domain.Identity `json:"user"`
}

// ErrIncompleteRecord is returned by Save when one half of the pair is missing.
var ErrIncompleteRecord = errors.New("session record requires credential and identity")

// Repository persists session records keyed by namespace (one per browser
// session or CLI profile).
type Repository interface {
	// Load returns domain.ErrNotFound when nothing (or only half a pair) is stored.
	Load(ctx context.Context, namespace string) (*Record, error)
	Save(ctx context.Context, namespace string, rec Record) error
	// Delete is idempotent.
	Delete(ctx context.Context, namespace string) error
}

func validate(rec Record) error {
	if rec.Credential == "" || rec.Identity.ID == "" {
		return ErrIncompleteRecord
	}
	return nil
}
