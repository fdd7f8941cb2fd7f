package store

import "firestige.xyz/netsniff/internal/core"

// ring is a fixed-capacity FIFO of records that overwrites its oldest entry
// when full. It is not synchronized; Store guards it.
type ring struct {
	items []core.PacketRecord
	head  int // index of the oldest record
	size  int
}

func newRing(capacity int) *ring {
	return &ring{items: make([]core.PacketRecord, capacity)}
}

// push appends rec and reports whether the oldest record was evicted to make room.
func (r *ring) push(rec core.PacketRecord) bool {
	capacity := len(r.items)
	if r.size < capacity {
		r.items[(r.head+r.size)%capacity] = rec
		r.size++
		return false
	}
	r.items[r.head] = rec
	r.head = (r.head + 1) % capacity
	return true
}

// snapshot copies the records out, oldest first.
func (r *ring) snapshot() []core.PacketRecord {
	out := make([]core.PacketRecord, r.size)
	capacity := len(r.items)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%capacity]
	}
	return out
}

func (r *ring) reset() {
	clear(r.items)
	r.head = 0
	r.size = 0
}

func (r *ring) len() int {
	return r.size
}
