package repo

import (
	"context"
	"fmt"

	"github.com/roach88/starweeb/internal/store"
)

// Collection is a typed CRUD facade over one storage key.
//
// The whole collection is read and written on every call; there is no cache.
// Callers treat the returned slice as their own copy.
type Collection[T any] struct {
	store store.Adapter
	key   string
}

// NewCollection binds a collection of T to key.
func NewCollection[T any](s store.Adapter, key string) *Collection[T] {
	return &Collection[T]{store: s, key: key}
}

// Key returns the storage key backing the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// List returns every record. An absent, empty or null value is an empty
// collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.key, err)
	}
	items := []T{}
	if !ok {
		return items, nil
	}
	if err := decode(c.key, raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the full collection.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// Update performs one read-modify-write cycle. fn receives the current
// records and returns the next collection. Returning an error aborts the
// write.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	items, err := c.List(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.Save(ctx, next)
}

// Prepend adds item at the head of the collection (most recent first).
func (c *Collection[T]) Prepend(ctx context.Context, item T) error {
	return c.Update(ctx, func(items []T) ([]T, error) {
		return append([]T{item}, items...), nil
	})
}

// Append adds item at the tail of the collection.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	return c.Update(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// Find returns the first record matching pred.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, it := range items {
		if pred(it) {
			return it, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns every record matching pred, keeping collection order.
func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Remove drops every record matching pred. Removing nothing still writes
// the collection back, which keeps the operation idempotent.
func (c *Collection[T]) Remove(ctx context.Context, pred func(T) bool) (removed int, err error) {
	err = c.Update(ctx, func(items []T) ([]T, error) {
		out := make([]T, 0, len(items))
		for _, it := range items {
			if pred(it) {
				removed++
				continue
			}
			out = append(out, it)
		}
		return out, nil
	})
	return removed, err
}
