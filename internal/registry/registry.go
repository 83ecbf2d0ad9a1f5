// Package registry provides a name keyed cache that rejects duplicate names
// and remembers insertion order.
package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when a name is inserted twice.
	ErrDuplicate = errors.New("duplicate name")
	// ErrUndefined is returned when looking up a name never inserted.
	ErrUndefined = errors.New("undefined name")
)

// Cache maps names to values for one load pass.
type Cache[T any] struct {
	kind   string
	values map[string]T
	order  []string
}

// New returns an empty cache. kind names the resource in errors, e.g.
// "element" or "font".
func New[T any](kind string) *Cache[T] {
	return &Cache[T]{kind: kind, values: map[string]T{}}
}

// Insert adds v under name.
func (c *Cache[T]) Insert(name string, v T) error {
	if _, ok := c.values[name]; ok {
		return fmt.Errorf("%w: %s '%s' already defined", ErrDuplicate, c.kind, name)
	}
	c.values[name] = v
	c.order = append(c.order, name)
	return nil
}

// Lookup returns the value stored under name.
func (c *Cache[T]) Lookup(name string) (T, error) {
	v, ok := c.values[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s '%s' does not exist", ErrUndefined, c.kind, name)
	}
	return v, nil
}

// Contains reports whether name was inserted.
func (c *Cache[T]) Contains(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names returns all names in insertion order.
func (c *Cache[T]) Names() []string {
	return append([]string(nil), c.order...)
}

// Values returns all values in insertion order.
func (c *Cache[T]) Values() []T {
	out := make([]T, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.values[name])
	}
	return out
}

// Len is the number of entries.
func (c *Cache[T]) Len() int {
	return len(c.order)
}

// Clone returns an independent copy holding the same values.
func (c *Cache[T]) Clone() *Cache[T] {
	out := New[T](c.kind)
	for _, name := range c.order {
		out.values[name] = c.values[name]
		out.order = append(out.order, name)
	}
	return out
}
