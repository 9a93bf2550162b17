package cart

import (
	"net/url"
	"strings"
	"sync"
)

const MaxHistory = 10

type HistoryEntry struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
}

// History produits consultés, le plus récent en tête, sans doublon
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

func NewHistory(entries ...HistoryEntry) *History {
	h := &History{}
	for i := len(entries) - 1; i >= 0; i-- {
		h.Add(entries[i])
	}
	return h
}

func (h *History) Add(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]HistoryEntry, 0, MaxHistory)
	next = append(next, e)
	for _, x := range h.entries {
		if x.ID != e.ID && len(next) < MaxHistory {
			next = append(next, x)
		}
	}
	h.entries = next
}

func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]HistoryEntry(nil), h.entries...)
}

func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Query paramètres de GET /api/product/browsing-history
func (h *History) Query(listType string) url.Values {
	entries := h.Entries()
	ids := make([]string, 0, len(entries))
	cats := make([]string, 0, len(entries))
	subs := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		cats = append(cats, e.Category)
		subs = append(subs, e.SubCategory)
	}
	v := url.Values{}
	v.Set("type", listType)
	v.Set("ids", strings.Join(ids, ","))
	v.Set("categories", strings.Join(cats, ","))
	v.Set("subCategories", strings.Join(subs, ","))
	return v
}
