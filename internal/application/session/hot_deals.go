// Package session keeps per-request user state that several handlers and
// services read during one request.
package session

import (
	"context"
	"sync"

	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// HotDeals holds the IDs of the deals a user marked as hot. The zero value is
// empty and not loaded. A nil *HotDeals behaves like an empty, never loaded
// store.
type HotDeals struct {
	mu     sync.RWMutex
	loaded bool
	ids    []string
}

// New returns an empty store
func New() *HotDeals {
	return &HotDeals{}
}

// SetIDs replaces the content and marks the store loaded
func (h *HotDeals) SetIDs(ids []string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ids = append([]string(nil), ids...)
	h.loaded = true
}

// Add records a newly marked deal and flags it hot
func (h *HotDeals) Add(deal *entities.ActiveDeal) {
	if h == nil || deal == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	deal.IsHot = true
	if !containsID(h.ids, deal.ID) {
		h.ids = append(h.ids, deal.ID)
	}
}

// Remove drops an unmarked deal
func (h *HotDeals) Remove(dealID string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, id := range h.ids {
		if id == dealID {
			h.ids = append(h.ids[:i], h.ids[i+1:]...)
			break
		}
	}
}

// Contains reports whether the deal is marked
func (h *HotDeals) Contains(dealID string) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return containsID(h.ids, dealID)
}

// MarkHot sets IsHot on every deal of the list
func (h *HotDeals) MarkHot(deals []*entities.ActiveDeal) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, d := range deals {
		if d != nil {
			d.IsHot = containsID(h.ids, d.ID)
		}
	}
}

// Loaded reports whether the store was filled in this request
func (h *HotDeals) Loaded() bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded
}

// IDs returns the marked deal IDs in marking order
func (h *HotDeals) IDs() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.ids...)
}

// Invalidate forgets everything so the next read reloads
func (h *HotDeals) Invalidate() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.loaded = false
	h.ids = nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithHotDeals attaches the store to ctx
func WithHotDeals(ctx context.Context, h *HotDeals) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext returns the store of the request, or nil
func FromContext(ctx context.Context) *HotDeals {
	h, _ := ctx.Value(contextKey{}).(*HotDeals)
	return h
}
