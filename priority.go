package ajx

import (
	"iter"
	"sort"
)

// DefaultPriority is assigned when registration does not request a priority.
// Mid-range, so plugins can deliberately slot before or after the defaults.
const DefaultPriority = 1000

// PriorityList is an ordered container mapping integer priority to a single
// item. A requested priority that is already taken is shifted forward to the
// next free slot, so no insertion ever displaces an existing entry. Iteration
// is always in ascending effective priority, independent of insertion order.
//
// Entries are never removed; the list grows for the lifetime of its owner.
// PriorityList is not safe for concurrent use - the owning registry holds
// the lock.
type PriorityList[T any] struct {
	entries map[int]T
	keys    []int
	sorted  bool
}

// NewPriorityList creates an empty priority list.
func NewPriorityList[T any]() *PriorityList[T] {
	return &PriorityList[T]{entries: make(map[int]T)}
}

// Insert places item at the requested priority, or at the next free slot
// above it when taken. Returns the effective priority; callers must not
// assume the requested priority was honored exactly.
func (l *PriorityList[T]) Insert(item T, priority int) int {
	for {
		if _, taken := l.entries[priority]; !taken {
			break
		}
		priority++
	}
	l.entries[priority] = item
	l.keys = append(l.keys, priority)
	l.sorted = false
	return priority
}

// Len returns the number of stored items.
func (l *PriorityList[T]) Len() int {
	return len(l.entries)
}

// All returns the items in ascending priority order. The sequence is
// re-iterable and always reflects current contents, including items
// inserted after it was obtained.
func (l *PriorityList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !l.sorted {
			sort.Ints(l.keys)
			l.sorted = true
		}
		for _, k := range l.keys {
			if !yield(l.entries[k]) {
				return
			}
		}
	}
}
