// Package store holds decoded packet records for polling consumers.
package store

import (
	"sort"
	"sync"

	"firestige.xyz/netsniff/internal/core"
)

// DefaultMaxPackets is the buffer capacity used when none is configured.
const DefaultMaxPackets = 1000

// ProtocolCount is one entry of a protocol frequency table.
type ProtocolCount struct {
	Protocol string `json:"protocol" yaml:"protocol"`
	Count    int    `json:"count" yaml:"count"`
}

// Store is a bounded, thread-safe buffer of the most recent records plus an
// unread queue that each DrainNew empties.
//
// Both the buffer and the unread queue evict their oldest record once they hold
// maxPackets records, so a consumer that stops polling costs bounded memory.
// Every method holds a single mutex for its whole critical section, so callers
// never observe a partially applied append, drain or clear.
type Store struct {
	mu     sync.Mutex
	max    int
	buf    *ring
	unread *ring
}

// New creates a Store holding at most maxPackets records. A non-positive value
// selects DefaultMaxPackets.
func New(maxPackets int) *Store {
	if maxPackets <= 0 {
		maxPackets = DefaultMaxPackets
	}
	return &Store{
		max:    maxPackets,
		buf:    newRing(maxPackets),
		unread: newRing(maxPackets),
	}
}

// Capacity returns the maximum number of buffered records.
func (s *Store) Capacity() int {
	return s.max
}

// Append adds rec to the buffer and the unread queue. It reports whether the
// oldest buffered record was evicted.
func (s *Store) Append(rec core.PacketRecord) (evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted = s.buf.push(rec)
	s.unread.push(rec)
	return evicted
}

// DrainNew returns the records appended since the previous DrainNew, oldest
// first, and empties the unread queue. The result is empty, not nil, when
// nothing is pending.
func (s *Store) DrainNew() []core.PacketRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.unread.snapshot()
	s.unread.reset()
	return out
}

// All returns a copy of the buffered records in insertion order.
func (s *Store) All() []core.PacketRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.snapshot()
}

// Len returns the number of buffered records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.len()
}

// Clear empties the buffer and the unread queue.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.reset()
	s.unread.reset()
}

// ProtocolCounts counts the buffered records per protocol label. The result is
// sorted by descending count; equal counts keep the order in which the
// protocols first appear in the buffer. It is recomputed on every call.
func (s *Store) ProtocolCounts() []ProtocolCount {
	return CountProtocols(s.All())
}

// CountProtocols builds the protocol frequency table of records.
func CountProtocols(records []core.PacketRecord) []ProtocolCount {
	index := make(map[string]int)
	counts := make([]ProtocolCount, 0)
	for _, rec := range records {
		i, ok := index[rec.Protocol]
		if !ok {
			i = len(counts)
			index[rec.Protocol] = i
			counts = append(counts, ProtocolCount{Protocol: rec.Protocol})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
