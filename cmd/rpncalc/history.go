package main

import "strings"

// history remembers the most recent evaluations, oldest first.
type history struct {
	max     int
	entries []string
}

func newHistory(max int) *history {
	return &history{max: max}
}

// add records an entry, discarding the oldest once the history is full.
func (h *history) add(entry string) {
	if h.max <= 0 {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, entry)
}

func (h *history) clear() {
	h.entries = h.entries[:0]
}

func (h *history) String() string {
	return strings.Join(h.entries, "\n")
}
