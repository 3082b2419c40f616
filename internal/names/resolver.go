// Package names maps noisy battle/boss labels onto canonical display labels.
// The dictionary is rebuilt wholesale from an external feed and swapped in
// atomically; lookups never fail, unmapped labels pass through normalized.
package names

import (
	"sort"
	"strings"
	"unicode/utf8"

	"raidrelay/internal/textnorm"
)

// Entry is one row of the mapping dictionary. Key must already be a
// normalized comparison key; Build normalizes defensively anyway.
type Entry struct {
	Key    string
	Label  string
	Series string
}

// Resolver is an immutable snapshot of the mapping dictionary.
type Resolver struct {
	exact map[string]Entry
	// keys sorted by descending rune count so that a more specific label is
	// never shadowed by a shorter generic one during substring matching
	keys []string
}

// Build constructs a Resolver from mapping entries. Row order is not
// significant; entries with an empty key or label are skipped. On duplicate
// keys the last entry wins.
func Build(entries []Entry) *Resolver {
	r := &Resolver{exact: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		key := textnorm.Normalize(e.Key)
		label := strings.TrimSpace(e.Label)
		if key == "" || label == "" {
			continue
		}
		if _, seen := r.exact[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.exact[key] = Entry{Key: key, Label: label, Series: strings.TrimSpace(e.Series)}
	}
	// Rune count, not byte length: a short kana key must not outrank a
	// longer ASCII one just because its encoding is wider.
	sort.Slice(r.keys, func(i, j int) bool {
		ri, rj := utf8.RuneCountInString(r.keys[i]), utf8.RuneCountInString(r.keys[j])
		if ri != rj {
			return ri > rj
		}
		return r.keys[i] < r.keys[j]
	})
	return r
}

// Len reports the number of dictionary entries.
func (r *Resolver) Len() int { return len(r.exact) }

// Resolve maps a raw label to its canonical display label. Exact key match
// wins; otherwise the longest dictionary key that is a substring of the
// normalized input wins. Unmapped labels come back as the normalized input
// itself so they still render.
func (r *Resolver) Resolve(raw string) string {
	e, ok := r.Lookup(raw)
	if !ok {
		return textnorm.Normalize(raw)
	}
	return e.Label
}

// Lookup is Resolve with the full entry and a hit indicator, for callers
// that need the series grouping as well.
func (r *Resolver) Lookup(raw string) (Entry, bool) {
	key := textnorm.Normalize(raw)
	if key == "" {
		return Entry{}, false
	}
	if e, ok := r.exact[key]; ok {
		return e, true
	}
	for _, k := range r.keys {
		if strings.Contains(key, k) {
			return r.exact[k], true
		}
	}
	return Entry{}, false
}
