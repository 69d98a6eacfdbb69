// Package index builds the derived lookup structures that drive the
// cascading search filters: distinct origin and destination states plus the
// origin→destinations dependency map.
package index

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

// Index holds the filterable dimensions for one bulk record set. Value
// slices are sorted with locale-aware collation for presentation.
type Index struct {
	Origins      []string
	Dests        []string
	OriginToDest map[string][]string
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	// Collators keep internal buffers, so each sort gets its own.
	c := collate.New(language.AmericanEnglish)
	sort.Slice(out, func(i, j int) bool {
		return c.CompareString(out[i], out[j]) < 0
	})
	return out
}

// Build scans the record set once and derives the index. Rows with an empty
// origin or destination contribute only the side they have. Rebuilds are
// O(n) and happen only on explicit reload; there is no incremental path.
func Build(rows []sink.Row) *Index {
	origins := map[string]bool{}
	dests := map[string]bool{}
	pairs := map[string]map[string]bool{}

	for _, r := range rows {
		o, d := r.OriginState, r.DestState
		if o != "" {
			origins[o] = true
		}
		if d != "" {
			dests[d] = true
		}
		if o != "" && d != "" {
			if pairs[o] == nil {
				pairs[o] = map[string]bool{}
			}
			pairs[o][d] = true
		}
	}

	idx := &Index{
		Origins:      sortedKeys(origins),
		Dests:        sortedKeys(dests),
		OriginToDest: make(map[string][]string, len(pairs)),
	}
	for o, ds := range pairs {
		idx.OriginToDest[o] = sortedKeys(ds)
	}
	return idx
}

// DestsFor returns the destination options given a selected origin: the
// cascade narrows to destinations seen from that origin, or every
// destination when no origin is selected (or the origin is unknown).
func (i *Index) DestsFor(origin string) []string {
	if origin != "" {
		if ds, ok := i.OriginToDest[origin]; ok {
			return ds
		}
	}
	return i.Dests
}

// Distinct returns the locale-sorted distinct non-empty values produced by
// the extractor function over the rows. Used for the customer and equipment
// filter dimensions, which need no dependency map.
func Distinct(rows []sink.Row, extract func(sink.Row) string) []string {
	set := map[string]bool{}
	for _, r := range rows {
		if v := extract(r); v != "" {
			set[v] = true
		}
	}
	return sortedKeys(set)
}
