package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shadeworks/storefront/pkg/metrics"
)

// Store owns the durable cart state. Every mutator persists fully before
// returning, so a subsequent Load observes the update (read-after-write is
// the only ordering guarantee the presenters need).
type Store struct {
	slot    Slot
	metrics *metrics.CheckoutMetrics
}

// NewStore builds a cart store on the provided slot.
func NewStore(slot Slot, m *metrics.CheckoutMetrics) (*Store, error) {
	if slot == nil {
		return nil, errors.New("cart slot required")
	}
	return &Store{slot: slot, metrics: m}, nil
}

// Load returns the persisted cart. It fails soft: a missing slot, an
// unreadable slot, or malformed JSON all yield an empty cart rather than an
// error, because corrupted local state must never block the storefront.
func (s *Store) Load(ctx context.Context) Cart {
	payload, err := s.slot.Read(ctx)
	if err != nil || len(payload) == 0 {
		return Cart{}
	}
	var loaded Cart
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return Cart{}
	}
	if loaded == nil {
		return Cart{}
	}
	return loaded.normalize()
}

// Save serializes and persists the cart, replacing prior state entirely.
func (s *Store) Save(ctx context.Context, c Cart) error {
	if c == nil {
		c = Cart{}
	}
	payload, err := json.Marshal(c.Clone().normalize())
	if err != nil {
		return err
	}
	return s.slot.Write(ctx, payload)
}

// Add increments the quantity for productID, inserting it at 1 if absent.
func (s *Store) Add(ctx context.Context, productID string) (Cart, error) {
	c := s.Load(ctx)
	c[productID]++
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("add")
	return c, nil
}

// SetQuantity overwrites the quantity for productID. Values below 1 are
// clamped to 1, matching the quantity invariant.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) (Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	c := s.Load(ctx)
	c[productID] = quantity
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("set_quantity")
	return c, nil
}

// Remove deletes productID from the cart. Removing an absent key is a no-op,
// not an error.
func (s *Store) Remove(ctx context.Context, productID string) (Cart, error) {
	c := s.Load(ctx)
	delete(c, productID)
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("remove")
	return c, nil
}

// Clear empties the cart. Called exactly once per checkout, at the moment
// the gateway handoff becomes irrevocable.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.Save(ctx, Cart{}); err != nil {
		return err
	}
	s.metrics.IncCartMutation("clear")
	return nil
}
