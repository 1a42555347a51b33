package state

import "sync/atomic"

// Initial is the value shown before any prompt has been submitted.
const Initial = "No query has been made yet."

// Holder is a single process-wide slot holding the latest displayable result.
// Writes replace the whole value; readers never see a partial update.
type Holder struct {
	v atomic.Pointer[string]
}

// New returns a Holder initialised to Initial.
func New() *Holder {
	h := &Holder{}
	h.Set(Initial)
	return h
}

// Set replaces the current value. Concurrent writers race; the last one wins.
func (h *Holder) Set(text string) {
	h.v.Store(&text)
}

// Get returns the current value without blocking.
func (h *Holder) Get() string {
	if p := h.v.Load(); p != nil {
		return *p
	}
	return Initial
}
