package sched

// removableHeap is a binary min-heap supporting removal of arbitrary
// elements. Pending wakeups go into this heap ordered by deadline, and
// releasing a registration removes its entry before it reaches the top,
// which the standard container/heap cannot do without an external index.
//
// Each push returns a slot token. The token stays valid until the
// element is removed or popped; using it afterwards is a programming
// error and panics.
type removableHeap[T any] struct {
	less func(a, b T) bool

	// Heap-ordered items, each carrying the slot index assigned to it.
	items []heapItem[T]

	// Slot table mapping slot indices to positions in items. Free slots
	// form an intrusive list threaded through next.
	slots    []heapSlotState
	nextFree int
}

type heapItem[T any] struct {
	value T
	slot  int
}

// heapSlotState is either full (pos is the element's position in items)
// or free (next links the free list).
type heapSlotState struct {
	full bool
	pos  int
	next int
}

// heapSlot is the token identifying one live heap element.
type heapSlot struct {
	idx int
}

func newRemovableHeap[T any](less func(a, b T) bool) *removableHeap[T] {
	return &removableHeap[T]{less: less}
}

func (h *removableHeap[T]) len() int {
	return len(h.items)
}

// push inserts v and returns the slot token for later removal.
func (h *removableHeap[T]) push(v T) heapSlot {
	pos := len(h.items)
	var idx int
	if h.nextFree == len(h.slots) {
		idx = len(h.slots)
		h.slots = append(h.slots, heapSlotState{full: true, pos: pos})
		h.nextFree = len(h.slots)
	} else {
		idx = h.nextFree
		s := &h.slots[idx]
		if s.full {
			panic("sched: heap free list corrupted")
		}
		h.nextFree = s.next
		*s = heapSlotState{full: true, pos: pos}
	}
	h.items = append(h.items, heapItem[T]{value: v, slot: idx})
	h.percolateUp(pos)
	return heapSlot{idx: idx}
}

// peek returns the minimum element without removing it.
func (h *removableHeap[T]) peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0].value, true
}

// pop removes and returns the minimum element.
func (h *removableHeap[T]) pop() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.remove(heapSlot{idx: h.items[0].slot}), true
}

// remove deletes the element identified by slot and returns it.
func (h *removableHeap[T]) remove(slot heapSlot) T {
	s := &h.slots[slot.idx]
	if !s.full {
		panic("sched: remove of dead heap slot")
	}
	pos := s.pos
	*s = heapSlotState{next: h.nextFree}
	h.nextFree = slot.idx

	item := h.items[pos]
	last := len(h.items) - 1
	h.items[pos] = h.items[last]
	h.items = h.items[:last]

	if pos < len(h.items) {
		h.slots[h.items[pos].slot].pos = pos
		if h.less(h.items[pos].value, item.value) {
			h.percolateUp(pos)
		} else {
			h.percolateDown(pos)
		}
	}
	return item.value
}

func (h *removableHeap[T]) percolateUp(pos int) {
	for pos > 0 {
		parent := (pos - 1) / 2
		if !h.less(h.items[pos].value, h.items[parent].value) {
			break
		}
		h.swap(pos, parent)
		pos = parent
	}
}

func (h *removableHeap[T]) percolateDown(pos int) {
	for {
		smallest := pos
		if l := 2*pos + 1; l < len(h.items) && h.less(h.items[l].value, h.items[smallest].value) {
			smallest = l
		}
		if r := 2*pos + 2; r < len(h.items) && h.less(h.items[r].value, h.items[smallest].value) {
			smallest = r
		}
		if smallest == pos {
			return
		}
		h.swap(pos, smallest)
		pos = smallest
	}
}

func (h *removableHeap[T]) swap(a, b int) {
	h.items[a], h.items[b] = h.items[b], h.items[a]
	h.slots[h.items[a].slot].pos = a
	h.slots[h.items[b].slot].pos = b
}
