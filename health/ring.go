// Copyright The OTLP Sink Authors
// SPDX-License-Identifier: Apache-2.0

package health // import "github.com/otlpsink/otlpsink/health"

// errorRing is a fixed-capacity circular buffer of failure messages. New
// entries overwrite the oldest once the ring is full. Callers synchronize
// access; the Monitor's mutex covers it.
type errorRing struct {
	entries []string
	// next is the slot the next push writes to (0 to capacity-1).
	next int
	// size is the number of occupied slots, at most len(entries).
	size int
}

func newErrorRing(capacity int) *errorRing {
	return &errorRing{entries: make([]string, capacity)}
}

func (r *errorRing) push(msg string) {
	r.entries[r.next] = msg
	r.next = (r.next + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
}

// items returns the retained messages ordered oldest first.
func (r *errorRing) items() []string {
	out := make([]string, 0, r.size)
	start := r.next - r.size
	if start < 0 {
		start += len(r.entries)
	}
	for i := 0; i < r.size; i++ {
		out = append(out, r.entries[(start+i)%len(r.entries)])
	}
	return out
}
