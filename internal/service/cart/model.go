package cart

import (
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"storefront/internal/domain"
)

// TempLinePrefix marks line ids generated locally before the server assigned one.
const TempLinePrefix = "tmp-"

// Model is the local mirror of the server cart. Local mutations recompute the
// totals; ReplaceFromServer is the only ground truth.
type Model struct {
	mu       sync.RWMutex
	id       string
	lines    []domain.CartLine
	subtotal int64
	total    int64
}

func NewModel() *Model {
	return &Model{}
}

// AddLine merges quantity into the line for product, or appends a new line
// with a temporary id.
func (m *Model) AddLine(product domain.ProductSnapshot, quantity int) domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].Product.ID == product.ID {
			m.lines[i].Quantity += quantity
			m.lines[i].TotalCents = lineTotal(m.lines[i])
			m.recompute()
			return m.lines[i]
		}
	}
	line := domain.CartLine{
		ID:       TempLinePrefix + ulid.Make().String(),
		Product:  product,
		Quantity: quantity,
	}
	line.TotalCents = lineTotal(line)
	m.lines = append(m.lines, line)
	m.recompute()
	return line
}

// UpdateLineQuantity sets the quantity of lineID to exactly quantity. It does
// not clamp; callers clamp with ClampQuantity first.
func (m *Model) UpdateLineQuantity(lineID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.lines[i].Quantity = quantity
	m.lines[i].TotalCents = lineTotal(m.lines[i])
	m.recompute()
	return nil
}

func (m *Model) RemoveLine(lineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(lineID)
	if i < 0 {
		return domain.ErrNotFound
	}
	m.lines = slices.Delete(m.lines, i, i+1)
	m.recompute()
	return nil
}

func (m *Model) Clear() {
	m.mu.Lock()
	m.lines = nil
	m.subtotal = 0
	m.total = 0
	m.mu.Unlock()
}

// ReplaceFromServer overwrites the mirror with the authoritative cart,
// totals included.
func (m *Model) ReplaceFromServer(cart domain.Cart) {
	m.mu.Lock()
	m.id = cart.ID
	m.lines = slices.Clone(cart.Lines)
	m.subtotal = cart.SubtotalCents
	m.total = cart.TotalCents
	m.mu.Unlock()
}

func (m *Model) Snapshot() domain.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Cart{
		ID:            m.id,
		Lines:         slices.Clone(m.lines),
		SubtotalCents: m.subtotal,
		TotalCents:    m.total,
	}
}

func (m *Model) Total() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

// Line returns the line with lineID.
func (m *Model) Line(lineID string) (domain.CartLine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(lineID); i >= 0 {
		return m.lines[i], true
	}
	return domain.CartLine{}, false
}

// ItemCount is the sum of quantities across lines.
func (m *Model) ItemCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.lines {
		n += l.Quantity
	}
	return n
}

// ClampQuantity bounds q to [1, stock]. A non-positive stock leaves the upper
// bound to the server.
func ClampQuantity(q, stock int) int {
	if q < 1 {
		q = 1
	}
	if stock > 0 && q > stock {
		q = stock
	}
	return q
}

func (m *Model) index(lineID string) int {
	return slices.IndexFunc(m.lines, func(l domain.CartLine) bool { return l.ID == lineID })
}

func (m *Model) recompute() {
	var sum int64
	for _, l := range m.lines {
		sum += l.TotalCents
	}
	m.subtotal = sum
	m.total = sum
}

func lineTotal(l domain.CartLine) int64 {
	return int64(l.Quantity) * l.Product.UnitPriceCents
}
