package kitclient

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

// LocalItem is an item row as the store holds it between syncs.
type LocalItem struct {
	ProductID string
	Quantity  int
}

// Store applies kit mutations to a local item list first and reconciles
// with the server afterwards. Kit identifiers generated locally are
// negative, so they can never collide with server-issued snowflake IDs.
//
// Convergence is best-effort: a mutation against an expired server kit
// rebinds to a brand-new kit while keeping the buffered items, and
// Confirm replays them one at a time without aborting on individual
// failures.
type Store struct {
	client *Client

	mu          sync.Mutex
	kitID       string
	nextLocalID int64
	items       []LocalItem
	frequencyID int64
}

func NewStore(client *Client) *Store {
	s := &Store{client: client, nextLocalID: -1}
	s.kitID = s.newLocalID()
	return s
}

func (s *Store) newLocalID() string {
	id := strconv.FormatInt(s.nextLocalID, 10)
	s.nextLocalID--
	return id
}

func isServerBacked(kitID string) bool {
	return kitID != "" && !strings.HasPrefix(kitID, "-")
}

// Bind points the store at a previously persisted kit identifier, e.g.
// one restored from client storage between sessions.
func (s *Store) Bind(kitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kitID = kitID
}

// KitID returns the current kit binding, which may be a local placeholder.
func (s *Store) KitID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kitID
}

// Items returns a copy of the local item list.
func (s *Store) Items() []LocalItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LocalItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem upserts the product locally, then syncs if the kit is
// server-backed.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	s.upsertLocked(productID, quantity)
	s.mu.Unlock()

	return s.sync(ctx, func(kitID string) error {
		return s.client.AddItem(ctx, kitID, productID, quantity)
	})
}

// UpdateQuantity overwrites the product's local quantity, then syncs.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	s.upsertLocked(productID, quantity)
	s.mu.Unlock()

	return s.sync(ctx, func(kitID string) error {
		return s.client.UpdateQuantity(ctx, kitID, productID, quantity)
	})
}

// RemoveItem drops the product locally, then syncs.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	s.removeLocked(productID)
	s.mu.Unlock()

	return s.sync(ctx, func(kitID string) error {
		return s.client.RemoveItem(ctx, kitID, productID)
	})
}

// SetFrequency records the chosen delivery frequency locally, then syncs.
func (s *Store) SetFrequency(ctx context.Context, frequencyID int64) error {
	s.mu.Lock()
	s.frequencyID = frequencyID
	s.mu.Unlock()

	return s.sync(ctx, func(kitID string) error {
		return s.client.SetFrequency(ctx, kitID, frequencyID)
	})
}

func (s *Store) upsertLocked(productID string, quantity int) {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
	s.items = append(s.items, LocalItem{ProductID: productID, Quantity: quantity})
}

func (s *Store) removeLocked(productID string) {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// sync pushes one mutation to the server and refreshes local state from
// the server's summary. A not-found response means the server-side kit
// expired: a brand-new kit is created and bound immediately, while the
// buffered items are kept and only replayed on Confirm.
func (s *Store) sync(ctx context.Context, call func(kitID string) error) error {
	s.mu.Lock()
	kitID := s.kitID
	s.mu.Unlock()

	if !isServerBacked(kitID) {
		return nil
	}

	if err := call(kitID); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.rebind(ctx)
			return nil
		}
		return err
	}

	summary, err := s.client.GetSummary(ctx, kitID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.rebind(ctx)
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.items = s.items[:0]
	for _, item := range summary.Items {
		s.items = append(s.items, LocalItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	s.mu.Unlock()
	return nil
}

// rebind replaces an expired server kit with a freshly created one. If
// creation fails the binding falls back to a local placeholder and the
// next Confirm retries. Buffered items are never dropped here.
func (s *Store) rebind(ctx context.Context) {
	bound := ""
	if created, err := s.client.CreateKit(ctx); err == nil {
		bound = created.ID
	}

	s.mu.Lock()
	if bound != "" {
		s.kitID = bound
	} else {
		s.kitID = s.newLocalID()
	}
	s.mu.Unlock()
}

// ConfirmResult reports what Confirm managed to push to the server.
type ConfirmResult struct {
	Kit *Kit
	// ReplayErrors holds per-item replay failures; the corresponding
	// items may be missing from the confirmed kit.
	ReplayErrors []error
}

// Confirm ensures a server-side kit exists, replays every buffered item
// against it best-effort, applies the chosen frequency, confirms the kit
// and clears local state.
func (s *Store) Confirm(ctx context.Context) (*ConfirmResult, error) {
	s.mu.Lock()
	kitID := s.kitID
	items := make([]LocalItem, len(s.items))
	copy(items, s.items)
	frequencyID := s.frequencyID
	s.mu.Unlock()

	if isServerBacked(kitID) {
		if _, err := s.client.GetSummary(ctx, kitID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			kitID = ""
		}
	} else {
		kitID = ""
	}

	if kitID == "" {
		created, err := s.client.CreateKit(ctx)
		if err != nil {
			return nil, err
		}
		kitID = created.ID
	}

	result := &ConfirmResult{}
	for _, item := range items {
		if err := s.client.AddItem(ctx, kitID, item.ProductID, item.Quantity); err != nil {
			result.ReplayErrors = append(result.ReplayErrors, err)
		}
	}

	if frequencyID != 0 {
		if err := s.client.SetFrequency(ctx, kitID, frequencyID); err != nil {
			return nil, err
		}
	}

	kit, err := s.client.Confirm(ctx, kitID)
	if err != nil {
		return nil, err
	}
	result.Kit = kit

	s.mu.Lock()
	s.items = nil
	s.frequencyID = 0
	s.kitID = s.newLocalID()
	s.mu.Unlock()

	return result, nil
}
