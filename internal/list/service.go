package list

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

var (
	// ErrNotFound indicates the requested list does not exist for this owner.
	ErrNotFound = errors.New("list not found")
	// ErrEmptyName rejects saving a list without a name.
	ErrEmptyName = errors.New("list name required")
	// ErrEmptyCart rejects saving a snapshot of an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// SavedList is a named, immutable snapshot of cart entries. Later changes to
// the source cart never alter a saved list.
type SavedList struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Entries   []cart.Entry `json:"entries"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ItemCount returns the number of lines in the snapshot.
func (l SavedList) ItemCount() int {
	return len(l.Entries)
}

// Service manages saved lists per owner.
type Service struct {
	Store *Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Save snapshots the cart under the given name. The entries are copied by
// value so the snapshot is detached from the live cart.
func (s *Service) Save(ctx context.Context, owner, name string, c cart.Cart) (SavedList, error) {
	if s == nil || s.Store == nil {
		return SavedList{}, errors.New("list service not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		countListOp("save", "rejected")
		return SavedList{}, ErrEmptyName
	}
	if len(c.Entries) == 0 {
		countListOp("save", "rejected")
		return SavedList{}, ErrEmptyCart
	}
	l := SavedList{
		ID:        uuid.NewString(),
		Name:      name,
		Entries:   c.CloneEntries(),
		CreatedAt: s.now(),
	}
	if err := s.Store.Put(ctx, owner, l); err != nil {
		countListOp("save", "error")
		return SavedList{}, err
	}
	countListOp("save", "ok")
	return l, nil
}

// List returns the owner's saved lists, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]SavedList, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("list service not configured")
	}
	lists, err := s.Store.All(ctx, owner)
	if err != nil {
		return nil, err
	}
	sort.Slice(lists, func(i, j int) bool {
		if !lists[i].CreatedAt.Equal(lists[j].CreatedAt) {
			return lists[i].CreatedAt.After(lists[j].CreatedAt)
		}
		return lists[i].ID < lists[j].ID
	})
	return lists, nil
}

// Load returns one saved list by id.
func (s *Service) Load(ctx context.Context, owner, id string) (SavedList, error) {
	if s == nil || s.Store == nil {
		return SavedList{}, errors.New("list service not configured")
	}
	return s.Store.Get(ctx, owner, id)
}

// Delete removes a saved list. Deleting a list that is already gone succeeds.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if s == nil || s.Store == nil {
		return errors.New("list service not configured")
	}
	if err := s.Store.Delete(ctx, owner, id); err != nil {
		countListOp("delete", "error")
		return err
	}
	countListOp("delete", "ok")
	return nil
}

func countListOp(op, result string) {
	if obs.SavedListOpsTotal != nil {
		obs.SavedListOpsTotal.WithLabelValues(op, result).Inc()
	}
}
