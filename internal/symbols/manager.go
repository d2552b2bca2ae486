// Package symbols provides generic symbol management for addresses of a program.
package symbols

import (
	"maps"
	"slices"

	"github.com/retroenv/retrogolib/set"
)

// Manager provides generic symbol tracking keyed by memory address.
// T is the type of symbol being managed (e.g., a label reference).
type Manager[T any] struct {
	items map[uint16]T
	used  set.Set[uint16]
}

// New creates a new symbol manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{
		items: make(map[uint16]T),
		used:  set.New[uint16](),
	}
}

// Get returns the item at the given address.
func (m *Manager[T]) Get(address uint16) (T, bool) {
	item, ok := m.items[address]
	return item, ok
}

// Set sets the item at the given address.
func (m *Manager[T]) Set(address uint16, item T) {
	m.items[address] = item
}

// Update sets the item at the given address to the result of the update
// function, which receives the current item or the zero value.
func (m *Manager[T]) Update(address uint16, update func(item T, exists bool) T) {
	item, ok := m.items[address]
	m.items[address] = update(item, ok)
}

// Has returns whether an item exists at the given address.
func (m *Manager[T]) Has(address uint16) bool {
	_, ok := m.items[address]
	return ok
}

// Delete removes the item at the given address.
func (m *Manager[T]) Delete(address uint16) {
	delete(m.items, address)
}

// Len returns the number of items in the manager.
func (m *Manager[T]) Len() int {
	return len(m.items)
}

// Addresses returns all addresses that have an item, in ascending order.
func (m *Manager[T]) Addresses() []uint16 {
	return slices.Sorted(maps.Keys(m.items))
}

// MarkUsed marks an address as used.
func (m *Manager[T]) MarkUsed(address uint16) {
	m.used.Add(address)
}

// IsUsed returns whether an address is marked as used.
func (m *Manager[T]) IsUsed(address uint16) bool {
	return m.used.Contains(address)
}
