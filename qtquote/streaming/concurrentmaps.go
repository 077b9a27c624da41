package streaming

import (
	"sync"

	"github.com/llehouerou/go-qtquote/qtquote/decoder"
)

// SymbolSet is a concurrent set of symbols that remembers insertion order.
type SymbolSet struct {
	sync.RWMutex
	order []string
	items map[string]struct{}
}

func NewSymbolSet() *SymbolSet {
	return &SymbolSet{
		items: make(map[string]struct{}),
	}
}

// Add inserts symbols not already in the set and returns how many were new
func (s *SymbolSet) Add(symbols ...string) int {
	s.Lock()
	defer s.Unlock()
	added := 0
	for _, symbol := range symbols {
		if _, ok := s.items[symbol]; ok {
			continue
		}
		s.items[symbol] = struct{}{}
		s.order = append(s.order, symbol)
		added++
	}
	return added
}

// Remove deletes symbols from the set and returns how many were present
func (s *SymbolSet) Remove(symbols ...string) int {
	s.Lock()
	defer s.Unlock()
	removed := 0
	for _, symbol := range symbols {
		if _, ok := s.items[symbol]; !ok {
			continue
		}
		delete(s.items, symbol)
		removed++
	}
	if removed == 0 {
		return 0
	}
	kept := s.order[:0]
	for _, symbol := range s.order {
		if _, ok := s.items[symbol]; ok {
			kept = append(kept, symbol)
		}
	}
	s.order = kept
	return removed
}

// List returns a copy of the symbols in insertion order
func (s *SymbolSet) List() []string {
	s.RLock()
	defer s.RUnlock()
	res := make([]string, len(s.order))
	copy(res, s.order)
	return res
}

func (s *SymbolSet) Has(symbol string) bool {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.items[symbol]
	return ok
}

// QuoteMap holds the last quote received per code.
type QuoteMap struct {
	sync.RWMutex
	items map[string]decoder.Quote
}

func NewQuoteMap() *QuoteMap {
	return &QuoteMap{
		items: make(map[string]decoder.Quote),
	}
}

// Set replaces the cached quote of key.
func (m *QuoteMap) Set(key string, value decoder.Quote) {
	m.Lock()
	defer m.Unlock()
	m.items[key] = value
}

// Get returns the cached quote of key, if any.
func (m *QuoteMap) Get(key string) (decoder.Quote, bool) {
	m.RLock()
	defer m.RUnlock()
	value, ok := m.items[key]
	return value, ok
}

func (m *QuoteMap) Delete(keys ...string) {
	m.Lock()
	defer m.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
}
