package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
)

// Authenticator is the part of the remote API the store depends on.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, domain.Identity, error)
	Register(ctx context.Context, name, email, password string) (string, domain.Identity, error)
}

// Store is the single source of truth for who the current user is within one
// namespace. Credential and identity are always set and cleared together, in
// memory and in the repository.
type Store struct {
	mu        sync.RWMutex
	auth      Authenticator
	repo      sessionrepo.Repository
	namespace string
	logger    *log.Logger

	credential string
	identity   *domain.Identity
}

// New returns an empty, unauthenticated store bound to namespace.
func New(auth Authenticator, repo sessionrepo.Repository, namespace string, logger *log.Logger) *Store {
	return &Store{
		auth:      auth,
		repo:      repo,
		namespace: namespace,
		logger:    logger,
	}
}

// Namespace returns the storage namespace the store writes to.
func (s *Store) Namespace() string { return s.namespace }

// Login authenticates against the remote API. On failure the prior state is
// left untouched and the error is returned for display.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.Invalid("email required")
	}
	if password == "" {
		return nil, domain.Invalid("password required")
	}
	token, identity, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, token, identity)
}

// Register creates an account and signs it in. Accounts without a role in the
// response are treated as customers.
func (s *Store) Register(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, domain.Invalid("name required")
	case email == "":
		return nil, domain.Invalid("email required")
	case password == "":
		return nil, domain.Invalid("password required")
	}
	token, identity, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if identity.Role == "" {
		identity.Role = domain.RoleCustomer
	}
	return s.establish(ctx, token, identity)
}

func (s *Store) establish(ctx context.Context, token string, identity domain.Identity) (*domain.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: response carried no credential", domain.ErrUnavailable)
	}
	if err := s.repo.Save(ctx, s.namespace, sessionrepo.Record{Credential: token, Identity: identity}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.credential = token
	s.identity = &identity
	s.mu.Unlock()
	out := identity
	return &out, nil
}

// Logout clears in-memory state unconditionally and removes the durable
// record. Calling it on an empty store is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()
	if err := s.repo.Delete(ctx, s.namespace); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	return nil
}

// LoadSession rehydrates state from the repository. It does not contact the
// server; the gate revalidates the credential.
func (s *Store) LoadSession(ctx context.Context) error {
	rec, err := s.repo.Load(ctx, s.namespace)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	identity := rec.Identity
	s.mu.Lock()
	s.credential = rec.Credential
	s.identity = &identity
	s.mu.Unlock()
	return nil
}

// SyncIdentity replaces the cached identity with a server verified one and
// persists it alongside the current credential. The in-memory identity is
// updated even when persistence fails; the error is returned for logging.
func (s *Store) SyncIdentity(ctx context.Context, identity domain.Identity) error {
	s.mu.Lock()
	if s.credential == "" {
		s.mu.Unlock()
		return domain.ErrUnauthenticated
	}
	token := s.credential
	s.identity = &identity
	s.mu.Unlock()
	return s.repo.Save(ctx, s.namespace, sessionrepo.Record{Credential: token, Identity: identity})
}

// Credential returns the bearer credential when the store is authenticated.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// Identity returns the cached identity. It is not server verified.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Authenticated() bool {
	_, ok := s.Credential()
	return ok
}

func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.Session{Credential: s.credential, Authenticated: s.credential != ""}
	if s.identity != nil {
		identity := *s.identity
		out.Identity = &identity
	}
	return out
}
