package catalog

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rl1809/canteen/internal/core/domain"
)

// Outcome describes how an intent was applied. Unmatched or guarded intents
// never fail; they leave the catalog unchanged and report why.
type Outcome int

const (
	OK Outcome = iota
	NotFound
	OutOfStock
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case NotFound:
		return "not found"
	case OutOfStock:
		return "out of stock"
	default:
		return "unknown"
	}
}

// Store owns the catalog for its lifetime. All intents are serialized by a
// single mutex and replace the catalog as a whole.
type Store struct {
	mu       sync.RWMutex
	items    []domain.MenuItem
	assigned map[string]struct{} // every id ever present, including deleted ones
	version  uint64
	newID    func() string
}

// New initializes a store from the given seed catalog.
func New(seed []domain.MenuItem) *Store {
	s := &Store{
		items:    make([]domain.MenuItem, len(seed)),
		assigned: make(map[string]struct{}, len(seed)),
		newID:    uuid.NewString,
	}
	copy(s.items, seed)
	for _, item := range seed {
		s.assigned[item.ID] = struct{}{}
	}
	return s
}

// NewSeeded initializes a store from domain.SeedMenu.
func NewSeeded() *Store {
	return New(domain.SeedMenu())
}

func (s *Store) Snapshot() []domain.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.MenuItem{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version advances by one on every intent that changed the catalog.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// AddItem appends a new item with a freshly assigned id. Fields are stored as
// given; validation belongs to the caller.
func (s *Store) AddItem(fields domain.ItemFields) domain.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.MenuItem{ID: s.uniqueID(), ItemFields: fields}

	next := make([]domain.MenuItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.commit(append(next, item))

	return item
}

func (s *Store) UpdateItem(item domain.MenuItem) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(item.ID)
	if i < 0 {
		return NotFound
	}

	next := make([]domain.MenuItem, len(s.items))
	copy(next, s.items)
	next[i] = item
	s.commit(next)

	return OK
}

func (s *Store) DeleteItem(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return NotFound
	}

	next := make([]domain.MenuItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.commit(next)

	return OK
}

// OrderItem takes one unit of stock. It is the only guarded intent: an
// unknown id or an exhausted count leaves the catalog untouched. The returned
// item reflects the catalog after the intent.
func (s *Store) OrderItem(id string) (domain.MenuItem, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.MenuItem{}, NotFound
	}
	if s.items[i].AvailabilityCount <= 0 {
		return s.items[i], OutOfStock
	}

	next := make([]domain.MenuItem, len(s.items))
	copy(next, s.items)
	next[i].AvailabilityCount--
	s.commit(next)

	return next[i], OK
}

func (s *Store) commit(next []domain.MenuItem) {
	s.items = next
	s.version++
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if _, taken := s.assigned[id]; taken {
			continue
		}
		s.assigned[id] = struct{}{}
		return id
	}
}
