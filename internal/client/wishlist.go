package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotSignedIn is returned by wishlist operations when no user is signed in.
var ErrNotSignedIn = errors.New("not signed in")

// ToggleResult reports the outcome of a wishlist toggle.
type ToggleResult struct {
	InWishlist bool
	Added      bool
	Removed    bool
}

// Wishlist is the per-user persistent wishlist. Each user's list is stored
// under its own key, so switching accounts never leaks entries between users.
type Wishlist struct {
	mu    sync.Mutex
	store *Store
}

func NewWishlist(store *Store) *Wishlist {
	return &Wishlist{store: store}
}

func wishlistKey(userID uuid.UUID) string {
	return "wishlist:" + userID.String()
}

// load reads the stored list for a user. A missing or corrupt entry is
// treated as an empty wishlist.
func (w *Wishlist) load(userID uuid.UUID) ([]uuid.UUID, error) {
	raw, err := w.store.get(wishlistBucket, wishlistKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

func (w *Wishlist) save(userID uuid.UUID, ids []uuid.UUID) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := w.store.put(wishlistBucket, wishlistKey(userID), raw); err != nil {
		return fmt.Errorf("failed to write wishlist: %w", err)
	}
	return nil
}

// Get returns the user's wishlist product IDs in insertion order.
func (w *Wishlist) Get(userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.load(userID)
}

// Contains reports whether a product is on the user's wishlist.
func (w *Wishlist) Contains(userID, productID uuid.UUID) (bool, error) {
	ids, err := w.Get(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// Add puts a product on the user's wishlist, preserving insertion order.
// It reports whether the product was actually added.
func (w *Wishlist) Add(userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, ErrNotSignedIn
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ids, err := w.load(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return false, nil
		}
	}
	if err := w.save(userID, append(ids, productID)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove takes a product off the user's wishlist and reports whether it
// was present. The remaining list is persisted either way.
func (w *Wishlist) Remove(userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, ErrNotSignedIn
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ids, err := w.load(userID)
	if err != nil {
		return false, err
	}

	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	removed := len(kept) != len(ids)
	if err := w.save(userID, kept); err != nil {
		return false, err
	}
	return removed, nil
}

// Toggle flips a product's wishlist membership and reports the new state.
func (w *Wishlist) Toggle(userID, productID uuid.UUID) (ToggleResult, error) {
	if userID == uuid.Nil {
		return ToggleResult{}, ErrNotSignedIn
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	ids, err := w.load(userID)
	if err != nil {
		return ToggleResult{}, err
	}

	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			if err := w.save(userID, ids); err != nil {
				return ToggleResult{}, err
			}
			return ToggleResult{InWishlist: false, Removed: true}, nil
		}
	}

	if err := w.save(userID, append(ids, productID)); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{InWishlist: true, Added: true}, nil
}

// Clear removes the user's entire wishlist.
func (w *Wishlist) Clear(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrNotSignedIn
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.delete(wishlistBucket, wishlistKey(userID)); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}
