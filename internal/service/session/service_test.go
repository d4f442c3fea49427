package session

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
)

type stubAuth struct {
	token    string
	identity domain.Identity
	err      error
	calls    int
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (string, domain.Identity, error) {
	s.calls++
	return s.token, s.identity, s.err
}

func (s *stubAuth) Register(_ context.Context, _, _, _ string) (string, domain.Identity, error) {
	s.calls++
	return s.token, s.identity, s.err
}

type failingRepo struct {
	sessionrepo.Repository
	saveErr error
}

func (f *failingRepo) Save(ctx context.Context, ns string, rec sessionrepo.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Repository.Save(ctx, ns, rec)
}

var ada = domain.Identity{ID: "1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleCustomer}

func TestLogin_PersistsPairAndReturnsIdentity(t *testing.T) {
	repo := sessionrepo.NewMemory()
	store := New(&stubAuth{token: "tok", identity: ada}, repo, "ns", nil)

	got, err := store.Login(context.Background(), " ada@example.com ", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if *got != ada {
		t.Fatalf("unexpected identity %+v", got)
	}
	if cred, ok := store.Credential(); !ok || cred != "tok" {
		t.Fatalf("credential not set: %q", cred)
	}
	rec, err := repo.Load(context.Background(), "ns")
	if err != nil {
		t.Fatalf("load stored record: %v", err)
	}
	if rec.Credential != "tok" || rec.Identity != ada {
		t.Fatalf("unexpected stored record %+v", rec)
	}
}

func TestLogin_FailureLeavesPriorStateUnchanged(t *testing.T) {
	repo := sessionrepo.NewMemory()
	auth := &stubAuth{token: "tok", identity: ada}
	store := New(auth, repo, "ns", nil)
	if _, err := store.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	auth.err = domain.ErrUnauthenticated
	if _, err := store.Login(context.Background(), "eve@example.com", "bad"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected login error, got %v", err)
	}
	snap := store.Snapshot()
	if !snap.Authenticated || snap.Credential != "tok" || *snap.Identity != ada {
		t.Fatalf("prior session was modified: %+v", snap)
	}
}

func TestLogin_ValidationSendsNoRequest(t *testing.T) {
	auth := &stubAuth{}
	store := New(auth, sessionrepo.NewMemory(), "ns", nil)
	if _, err := store.Login(context.Background(), "  ", "secret"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := store.Register(context.Background(), "", "a@b", "x"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if auth.calls != 0 {
		t.Fatalf("expected no remote calls, got %d", auth.calls)
	}
}

func TestLogin_PersistFailureKeepsStoreEmpty(t *testing.T) {
	repo := &failingRepo{Repository: sessionrepo.NewMemory(), saveErr: errors.New("disk full")}
	store := New(&stubAuth{token: "tok", identity: ada}, repo, "ns", nil)
	if _, err := store.Login(context.Background(), "ada@example.com", "secret"); err == nil {
		t.Fatalf("expected persist error")
	}
	if store.Authenticated() {
		t.Fatalf("store should remain unauthenticated")
	}
}

func TestRegister_DefaultsToCustomer(t *testing.T) {
	store := New(&stubAuth{token: "tok", identity: domain.Identity{ID: "2", Name: "Bo", Email: "bo@x"}}, sessionrepo.NewMemory(), "ns", nil)
	got, err := store.Register(context.Background(), "Bo", "bo@x", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.Role != domain.RoleCustomer {
		t.Fatalf("expected CUSTOMER role, got %q", got.Role)
	}
}

func TestLogout_ClearsMemoryAndStorage(t *testing.T) {
	repo := sessionrepo.NewMemory()
	store := New(&stubAuth{token: "tok", identity: ada}, repo, "ns", nil)
	if _, err := store.Login(context.Background(), "ada@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Logout(context.Background()); err != nil {
			t.Fatalf("logout %d: %v", i, err)
		}
	}
	snap := store.Snapshot()
	if snap.Authenticated || snap.Credential != "" || snap.Identity != nil {
		t.Fatalf("expected empty session, got %+v", snap)
	}
	if _, err := repo.Load(context.Background(), "ns"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected storage cleared, got %v", err)
	}
}

func TestLoadSession(t *testing.T) {
	repo := sessionrepo.NewMemory()
	store := New(&stubAuth{}, repo, "ns", nil)
	if err := store.LoadSession(context.Background()); err != nil {
		t.Fatalf("load on empty storage: %v", err)
	}
	if store.Authenticated() {
		t.Fatalf("empty storage must not authenticate")
	}

	if err := repo.Save(context.Background(), "ns", sessionrepo.Record{Credential: "tok", Identity: ada}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.LoadSession(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	identity, ok := store.Identity()
	if !ok || identity != ada || !store.Authenticated() {
		t.Fatalf("unexpected state after load: %+v", store.Snapshot())
	}
}

func TestSyncIdentity_RequiresCredential(t *testing.T) {
	store := New(&stubAuth{}, sessionrepo.NewMemory(), "ns", nil)
	if err := store.SyncIdentity(context.Background(), ada); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, ok := store.Identity(); ok {
		t.Fatalf("identity must not be set without a credential")
	}
}
