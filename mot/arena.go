package mot

// handle addresses a slot in objectArena. A handle goes stale as soon as its slot
// is released: the slot's generation moves on and lookups with the old handle fail.
type handle struct {
	index      uint32
	generation uint32
}

type slot[F any] struct {
	object     TrackedObject
	tracker    SingleObjectTracker[F]
	generation uint32
	occupied   bool
}

// objectArena owns tracked objects together with their trackers.
// Released slots are reused, while order keeps alive handles in insertion order.
type objectArena[F any] struct {
	slots []slot[F]
	free  []uint32
	order []handle
}

func newObjectArena[F any]() *objectArena[F] {
	return &objectArena[F]{
		slots: make([]slot[F], 0),
		free:  make([]uint32, 0),
		order: make([]handle, 0),
	}
}

func (arena *objectArena[F]) len() int {
	return len(arena.order)
}

// insert stores object with its tracker and returns the handle of the occupied slot
func (arena *objectArena[F]) insert(object TrackedObject, tracker SingleObjectTracker[F]) handle {
	var index uint32
	if n := len(arena.free); n > 0 {
		index = arena.free[n-1]
		arena.free = arena.free[:n-1]
	} else {
		arena.slots = append(arena.slots, slot[F]{})
		index = uint32(len(arena.slots) - 1)
	}
	s := &arena.slots[index]
	h := handle{index: index, generation: s.generation}
	object.handle = h
	object.tracking = tracker != nil
	s.object = object
	s.tracker = tracker
	s.occupied = true
	arena.order = append(arena.order, h)
	return h
}

// get returns slot for handle or nil if handle is stale
func (arena *objectArena[F]) get(h handle) *slot[F] {
	if int(h.index) >= len(arena.slots) {
		return nil
	}
	s := &arena.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return s
}

// handles returns copy of alive handles in insertion order
func (arena *objectArena[F]) handles() []handle {
	handles := make([]handle, len(arena.order))
	copy(handles, arena.order)
	return handles
}

// each visits alive slots in insertion order
func (arena *objectArena[F]) each(fn func(s *slot[F])) {
	for _, h := range arena.order {
		if s := arena.get(h); s != nil {
			fn(s)
		}
	}
}

// removeWhere releases every slot matching predicate in a single pass and returns
// the removed slots in insertion order. Handles of the removed slots become stale.
func (arena *objectArena[F]) removeWhere(predicate func(s *slot[F]) bool) []slot[F] {
	removed := make([]slot[F], 0)
	kept := arena.order[:0]
	for _, h := range arena.order {
		s := arena.get(h)
		if s == nil {
			continue
		}
		if !predicate(s) {
			kept = append(kept, h)
			continue
		}
		removed = append(removed, *s)
		arena.release(h.index)
	}
	arena.order = kept
	return removed
}

func (arena *objectArena[F]) release(index uint32) {
	s := &arena.slots[index]
	s.object = TrackedObject{}
	s.tracker = nil
	s.occupied = false
	s.generation++
	arena.free = append(arena.free, index)
}

// snapshot copies alive objects in insertion order
func (arena *objectArena[F]) snapshot() []TrackedObject {
	objects := make([]TrackedObject, 0, len(arena.order))
	arena.each(func(s *slot[F]) {
		objects = append(objects, s.object)
	})
	return objects
}
