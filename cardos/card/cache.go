package card

// Cache is a fixed array of slots addressed by identifier modulo capacity.
//
// It is not safe for concurrent use; one owner mutates it and renders from it.
type Cache struct {
	slots []*Slot
}

// NewCache builds g.Slots slots in placeholder state with no owner.
func NewCache(g Geometry) *Cache {
	n := g.Slots
	if n < 1 {
		n = 1
	}
	c := &Cache{slots: make([]*Slot, n)}
	for i := range c.slots {
		c.slots[i] = newSlot(i, g)
	}
	return c
}

func (c *Cache) Len() int { return len(c.slots) }

// SlotFor maps id to a slot index. Negative identifiers wrap like positive ones.
func (c *Cache) SlotFor(id int32) int {
	n := int64(len(c.slots))
	i := int64(id) % n
	if i < 0 {
		i += n
	}
	return int(i)
}

// Get returns the slot id maps to. The slot may be owned by a colliding id.
func (c *Cache) Get(id int32) *Slot {
	return c.slots[c.SlotFor(id)]
}

// Slot returns the slot at position i.
func (c *Cache) Slot(i int) *Slot {
	return c.slots[i]
}

// Claim makes id the owner of its slot. When a different id owned the slot its
// content is reset first and that id is returned as evicted.
func (c *Cache) Claim(id int32) (evicted int32, collided bool) {
	s := c.Get(id)
	if s.Owned && s.ID != id {
		evicted, collided = s.ID, true
		s.Reset()
	}
	s.ID, s.Owned = id, true
	return evicted, collided
}

// Clear resets the slot of id to placeholder content owned by id.
func (c *Cache) Clear(id int32) *Slot {
	s := c.Get(id)
	s.Reset()
	s.ID, s.Owned = id, true
	return s
}

// Dirty reports whether any slot changed since the last ClearDirty.
func (c *Cache) Dirty() bool {
	for _, s := range c.slots {
		if s.dirty {
			return true
		}
	}
	return false
}

func (c *Cache) ClearDirty() {
	for _, s := range c.slots {
		s.dirty = false
	}
}
