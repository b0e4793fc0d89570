// Package state implements the model checker's snapshot layer: a
// content-addressed, equality-comparable digest of whatever the
// checked application exposes as its mutable memory, plus the
// (actors_count, heap_bytes_used) summary the liveness package sorts
// visited/acceptance sets by (§4.5, §9 "Snapshot equality").
package state

import (
	"github.com/cespare/xxhash/v2"
)

// Summary is the cheap, totally-ordered indexing key pairs are sorted
// by before falling back to full content comparison — the "bloom-like
// filter" §9 describes.
type Summary struct {
	ActorsCount   int
	HeapBytesUsed int64
}

// Less orders summaries lexicographically by (ActorsCount,
// HeapBytesUsed), the sort key the liveness package's equal-range
// search relies on.
func (s Summary) Less(o Summary) bool {
	if s.ActorsCount != o.ActorsCount {
		return s.ActorsCount < o.ActorsCount
	}
	return s.HeapBytesUsed < o.HeapBytesUsed
}

// Snapshot is a capturable digest of the simulated application's
// state: a content hash for equality plus the Summary index key. It
// never retains the serialized bytes themselves — callers that need
// the raw bytes (for replay) keep their own copy; Snapshot only needs
// to answer "equal or not" and "where in the sort order".
type Snapshot struct {
	Summary     Summary
	Fingerprint uint64
}

// Capture hashes blob (a caller-provided serialization of whatever
// memory the checked application exposes) into a Snapshot, tagged with
// summary for indexing.
func Capture(summary Summary, blob []byte) Snapshot {
	return Snapshot{Summary: summary, Fingerprint: xxhash.Sum64(blob)}
}

// Equal reports whether two snapshots are content-equal: same summary
// (the cheap pre-filter) and same fingerprint. Per §9, implementations
// "may start with the summary as a filter and resort to byte-level
// equality only for candidates" — here the fingerprint itself already
// serves as that byte-level check, collisions being astronomically
// unlikely for the state sizes this checker explores.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Summary == o.Summary && s.Fingerprint == o.Fingerprint
}

// Hasher accumulates a serialization incrementally, e.g. across a
// Session's actor-by-actor state walk, before a single final Sum64.
type Hasher struct {
	h *xxhash.Digest
}

// NewHasher creates an empty incremental hasher.
func NewHasher() *Hasher {
	return &Hasher{h: xxhash.New()}
}

// Write feeds another chunk of serialized state into the digest.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum finalizes the digest into a Snapshot tagged with summary.
func (h *Hasher) Sum(summary Summary) Snapshot {
	return Snapshot{Summary: summary, Fingerprint: h.h.Sum64()}
}

// Reset clears the hasher for reuse across successive captures, e.g.
// repeated restore_initial_state()/execute() replay runs.
func (h *Hasher) Reset() {
	h.h.Reset()
}
