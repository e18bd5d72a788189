package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const ownerKeyPrefix = "grocer:lists:owner:"

// Store keeps each owner's saved lists in a Redis hash keyed by list id.
// Lists are durable: unlike carts they carry no expiry.
type Store struct {
	R *redis.Client
}

func ownerKey(owner string) string {
	return ownerKeyPrefix + owner
}

// Put writes one saved list document.
func (s *Store) Put(ctx context.Context, owner string, l SavedList) error {
	if s == nil || s.R == nil {
		return errors.New("list store not configured")
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode list: %w", err)
	}
	if err := s.R.HSet(ctx, ownerKey(owner), l.ID, data).Err(); err != nil {
		return fmt.Errorf("save list: %w", err)
	}
	return nil
}

// Get loads one saved list by id.
func (s *Store) Get(ctx context.Context, owner, id string) (SavedList, error) {
	if s == nil || s.R == nil {
		return SavedList{}, errors.New("list store not configured")
	}
	data, err := s.R.HGet(ctx, ownerKey(owner), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SavedList{}, ErrNotFound
		}
		return SavedList{}, fmt.Errorf("load list: %w", err)
	}
	var l SavedList
	if err := json.Unmarshal(data, &l); err != nil {
		return SavedList{}, fmt.Errorf("decode list: %w", err)
	}
	return l, nil
}

// All returns every saved list for the owner, in unspecified order.
func (s *Store) All(ctx context.Context, owner string) ([]SavedList, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("list store not configured")
	}
	raw, err := s.R.HGetAll(ctx, ownerKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	lists := make([]SavedList, 0, len(raw))
	for _, data := range raw {
		var l SavedList
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// Delete removes one saved list. Deleting an absent list is not an error.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	if s == nil || s.R == nil {
		return errors.New("list store not configured")
	}
	if err := s.R.HDel(ctx, ownerKey(owner), id).Err(); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}
