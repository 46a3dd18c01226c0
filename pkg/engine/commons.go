package engine

import (
	"math/rand"
)

// Commons is the bounded shared pool of fragment indices used for cooperative
// trait propagation. It grows only during Kropotkin selection, when the best
// individual's fragments are deposited, and it is owned exclusively by one
// Engine: no locking is required because no concurrent writers exist.
type Commons struct {
	entries []int
	maxSize int
}

func newCommons(maxSize int) *Commons {
	return &Commons{maxSize: maxSize}
}

// Append deposits a fragment sequence into the commons, evicting the oldest
// entries when the bound is exceeded. The append is all-or-nothing: either the
// full sequence lands (followed by truncation) or, for an empty input, nothing
// changes.
func (c *Commons) Append(fragments []int) {
	if len(fragments) == 0 {
		return
	}

	grown := make([]int, 0, len(c.entries)+len(fragments))
	grown = append(grown, c.entries...)
	grown = append(grown, fragments...)

	if len(grown) > c.maxSize {
		grown = grown[len(grown)-c.maxSize:]
	}
	c.entries = grown
}

// Sample draws one fragment uniformly at random from the commons contents.
// The second return value is false when the commons is empty.
func (c *Commons) Sample(rng *rand.Rand) (int, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	return c.entries[rng.Intn(len(c.entries))], true
}

// Len returns the current number of entries.
func (c *Commons) Len() int {
	return len(c.entries)
}

// Snapshot returns a copy of the current contents, oldest first.
func (c *Commons) Snapshot() []int {
	return append([]int(nil), c.entries...)
}

// UniqueCount returns the number of distinct fragment indices held.
func (c *Commons) UniqueCount() int {
	seen := make(map[int]struct{}, len(c.entries))
	for _, f := range c.entries {
		seen[f] = struct{}{}
	}
	return len(seen)
}
