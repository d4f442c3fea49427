package cart

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
)

// API is the remote cart surface the reconciler drives.
type API interface {
	GetCart(ctx context.Context, credential string) (domain.Cart, error)
	AddCartItem(ctx context.Context, credential, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, credential, lineID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, credential, lineID string) error
}

// Recorder counts cart mutations by outcome.
type Recorder interface {
	CartMutation(op, result string)
}

// Service applies edits to a Model optimistically, sends them to the server
// and reconciles by refetching. A failed mutation restores the model to the
// state it had before the edit.
type Service struct {
	api      API
	recorder Recorder
	logger   *log.Logger
}

func New(api API, recorder Recorder, logger *log.Logger) *Service {
	return &Service{api: api, recorder: recorder, logger: logger}
}

// Fetch replaces the model with the server cart. On failure the model keeps
// its last known state.
func (s *Service) Fetch(ctx context.Context, credential string, m *Model) error {
	cart, err := s.api.GetCart(ctx, credential)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}
	m.ReplaceFromServer(cart)
	return nil
}

func (s *Service) Add(ctx context.Context, credential string, m *Model, product domain.ProductSnapshot, quantity int) error {
	if strings.TrimSpace(product.ID) == "" {
		return domain.Invalid("product required")
	}
	if quantity < 1 {
		return domain.Invalid("quantity must be at least 1")
	}
	if product.StockLimit == 0 {
		return domain.Invalid("Out of stock")
	}
	quantity = ClampQuantity(quantity, product.StockLimit)

	before := m.Snapshot()
	m.AddLine(product, quantity)
	if err := s.api.AddCartItem(ctx, credential, product.ID, quantity); err != nil {
		return s.rollback(m, before, "add", fmt.Errorf("add to cart: %w", err))
	}
	return s.confirm(ctx, credential, m, "add")
}

func (s *Service) UpdateQuantity(ctx context.Context, credential string, m *Model, lineID string, quantity int) error {
	line, err := s.line(ctx, credential, m, lineID)
	if err != nil {
		return err
	}
	quantity = ClampQuantity(quantity, line.Product.StockLimit)

	before := m.Snapshot()
	if err := m.UpdateLineQuantity(lineID, quantity); err != nil {
		return err
	}
	if err := s.api.UpdateCartItem(ctx, credential, lineID, line.Product.ID, quantity); err != nil {
		return s.rollback(m, before, "update", fmt.Errorf("update cart item: %w", err))
	}
	return s.confirm(ctx, credential, m, "update")
}

func (s *Service) Remove(ctx context.Context, credential string, m *Model, lineID string) error {
	if _, err := s.line(ctx, credential, m, lineID); err != nil {
		return err
	}
	before := m.Snapshot()
	if err := m.RemoveLine(lineID); err != nil {
		return err
	}
	if err := s.api.RemoveCartItem(ctx, credential, lineID); err != nil {
		return s.rollback(m, before, "remove", fmt.Errorf("remove cart item: %w", err))
	}
	return s.confirm(ctx, credential, m, "remove")
}

// line finds lineID in the model, refetching once when the model does not
// know it. A fresh model (new process, re-login) starts empty while the
// server cart does not.
func (s *Service) line(ctx context.Context, credential string, m *Model, lineID string) (domain.CartLine, error) {
	if line, ok := m.Line(lineID); ok {
		return line, nil
	}
	if err := s.Fetch(ctx, credential, m); err != nil {
		return domain.CartLine{}, err
	}
	line, ok := m.Line(lineID)
	if !ok {
		return domain.CartLine{}, domain.ErrNotFound
	}
	return line, nil
}

func (s *Service) rollback(m *Model, before domain.Cart, op string, err error) error {
	m.ReplaceFromServer(before)
	s.record(op, "rolled_back")
	s.logf("%s rolled back: %v", op, err)
	return err
}

// confirm refetches after an accepted mutation. The server already applied
// the change, so a failed refetch is not a mutation failure: the optimistic
// state stays and the next fetch corrects it.
func (s *Service) confirm(ctx context.Context, credential string, m *Model, op string) error {
	s.record(op, "confirmed")
	if err := s.Fetch(ctx, credential, m); err != nil {
		s.record(op, "refetch_failed")
		s.logf("%s accepted, keeping optimistic cart: %v", op, err)
	}
	return nil
}

func (s *Service) record(op, result string) {
	if s.recorder != nil {
		s.recorder.CartMutation(op, result)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf("cart: "+format, args...)
	}
}

// DefaultIdleTimeout is how long a Registry keeps a model nobody asked for.
const DefaultIdleTimeout = 24 * time.Hour

type registryEntry struct {
	model    *Model
	lastUsed time.Time
}

// Registry keeps one Model per browser session. Models unused for longer than
// the idle timeout are swept on later calls to Get.
type Registry struct {
	mu        sync.Mutex
	models    map[string]*registryEntry
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry builds a Registry evicting models idle for longer than idle;
// idle <= 0 selects DefaultIdleTimeout.
func NewRegistry(idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		models:    make(map[string]*registryEntry),
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Get returns the model for namespace, creating an empty one on first use.
func (r *Registry) Get(namespace string) *Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if now.Sub(r.lastSweep) > r.sweepEvery() {
		r.sweepLocked(now)
	}
	e, ok := r.models[namespace]
	if !ok {
		e = &registryEntry{model: NewModel()}
		r.models[namespace] = e
	}
	e.lastUsed = now
	return e.model
}

// Drop forgets the model for namespace, e.g. on logout.
func (r *Registry) Drop(namespace string) {
	r.mu.Lock()
	delete(r.models, namespace)
	r.mu.Unlock()
}

// Sweep evicts idle models and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.models)
}

func (r *Registry) sweepEvery() time.Duration {
	if every := r.idle / 4; every < time.Minute {
		return every
	}
	return time.Minute
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for ns, e := range r.models {
		if now.Sub(e.lastUsed) > r.idle {
			delete(r.models, ns)
			removed++
		}
	}
	r.lastSweep = now
	return removed
}
