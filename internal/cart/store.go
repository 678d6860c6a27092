package cart

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/metinatakli/storefront/internal/domain"
)

// Store owns the mutable cart for a single browsing session. Mutations
// persist the full item list through Storage before returning, and every
// operation answers with the derived totals so callers never recompute them.
//
// The open/closed drawer flag is ephemeral UI state and is never persisted.
type Store struct {
	storage Storage
	key     string
	logger  *slog.Logger

	items []domain.CartItem
	open  bool
}

// NewStore hydrates a cart from storage. A missing key, an unreadable value,
// or a corrupted payload all fall back silently to an empty cart; hydration
// never fails to the caller.
func NewStore(ctx context.Context, storage Storage, key string, logger *slog.Logger) *Store {
	store := &Store{
		storage: storage,
		key:     key,
		logger:  logger,
	}

	data, err := storage.Get(ctx, key)
	if err != nil {
		logger.Warn("failed to load cart, starting empty", "key", key, "error", err)
		return store
	}

	if len(data) == 0 {
		return store
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("failed to decode stored cart, starting empty", "key", key, "error", err)
		return store
	}

	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		store.items = append(store.items, item)
	}

	return store
}

// AddItem merges by item ID: an existing entry has its quantity incremented,
// a new entry is appended in insertion order. Adding to a closed cart opens
// the drawer; adding to an already-open cart does not emit a redundant open.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem, quantity int64) (domain.CartTotals, error) {
	if quantity < 1 {
		quantity = 1
	}

	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}

	if !merged {
		item.Quantity = quantity
		s.items = append(s.items, item)
	}

	if !s.open {
		s.open = true
	}

	return s.totalsAfterWrite(ctx)
}

// RemoveItem removes the entry matching id. Removing an absent id is not an
// error.
func (s *Store) RemoveItem(ctx context.Context, id string) (domain.CartTotals, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}

	return s.totalsAfterWrite(ctx)
}

// UpdateQuantity replaces the quantity of the matching entry. A quantity
// below 1 removes the item instead; an unknown id is a no-op and never
// creates an entry.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int64) (domain.CartTotals, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, id)
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}

	return s.totalsAfterWrite(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (domain.CartTotals, error) {
	s.items = nil
	return s.totalsAfterWrite(ctx)
}

// Items returns a copy of the cart entries in insertion order.
func (s *Store) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)

	return items
}

// Totals derives the current fee quote and item count.
func (s *Store) Totals() (domain.CartTotals, error) {
	return domain.NewCartTotals(s.items)
}

// ItemCount sums the quantities across all entries.
func (s *Store) ItemCount() int64 {
	return domain.ItemCount(s.items)
}

func (s *Store) IsOpen() bool {
	return s.open
}

func (s *Store) Open() {
	s.open = true
}

func (s *Store) Close() {
	s.open = false
}

// totalsAfterWrite persists the item list and returns the derived totals.
// A write failure is returned so the caller can observe it, together with the
// totals of the in-memory state; callers treat persistence as best effort.
func (s *Store) totalsAfterWrite(ctx context.Context) (domain.CartTotals, error) {
	totals, err := domain.NewCartTotals(s.items)
	if err != nil {
		return domain.CartTotals{}, err
	}

	data, err := json.Marshal(s.items)
	if err != nil {
		return totals, err
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist cart", "key", s.key, "error", err)
		return totals, err
	}

	return totals, nil
}
