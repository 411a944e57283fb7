package mw

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Deduper remembers recently seen webhook message ids. Meta redelivers
// webhook events on slow acks, and a redelivered mark command must not be
// reinterpreted as a second transition request.
type Deduper struct {
	seen *cache.Cache
}

// NewDeduper creates a deduper whose entries expire after ttl.
func NewDeduper(ttl time.Duration) *Deduper {
	return &Deduper{seen: cache.New(ttl, 2*ttl)}
}

// Seen records the id and reports whether it had been seen before.
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	if _, found := d.seen.Get(id); found {
		return true
	}
	d.seen.Set(id, struct{}{}, cache.DefaultExpiration)
	return false
}
