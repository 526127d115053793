package engine

import (
	"sort"

	"github.com/vovakirdan/skybeat/internal/entity"
)

// platformIndex keeps platforms sorted by the lower edge of their vertical
// band so a Y window can be answered with a binary search.
type platformIndex struct {
	items   []indexed
	maxSpan float64
}

type indexed struct {
	lo, hi float64
	p      *entity.Platform
}

// Insert adds a platform, keeping insertion order stable for equal lower edges.
func (ix *platformIndex) Insert(p *entity.Platform) {
	lo, hi := p.Band()
	i := sort.Search(len(ix.items), func(i int) bool { return ix.items[i].lo > lo })
	ix.items = append(ix.items, indexed{})
	copy(ix.items[i+1:], ix.items[i:])
	ix.items[i] = indexed{lo: lo, hi: hi, p: p}
	if span := hi - lo; span > ix.maxSpan {
		ix.maxSpan = span
	}
}

// Query appends to dst every platform whose band overlaps [minY, maxY].
func (ix *platformIndex) Query(dst []*entity.Platform, minY, maxY float64) []*entity.Platform {
	start := sort.Search(len(ix.items), func(i int) bool { return ix.items[i].lo >= minY-ix.maxSpan })
	for i := start; i < len(ix.items) && ix.items[i].lo <= maxY; i++ {
		if ix.items[i].hi >= minY {
			dst = append(dst, ix.items[i].p)
		}
	}
	return dst
}

// PruneBelow removes platforms whose band lies entirely below y and
// calls evict, if non-nil, for each one.
func (ix *platformIndex) PruneBelow(y float64, evict func(*entity.Platform)) int {
	kept := ix.items[:0]
	for _, it := range ix.items {
		if it.hi >= y {
			kept = append(kept, it)
		} else if evict != nil {
			evict(it.p)
		}
	}
	removed := len(ix.items) - len(kept)
	for i := len(kept); i < len(ix.items); i++ {
		ix.items[i] = indexed{}
	}
	ix.items = kept
	return removed
}

// All returns every platform in index order.
func (ix *platformIndex) All() []*entity.Platform {
	out := make([]*entity.Platform, len(ix.items))
	for i, it := range ix.items {
		out[i] = it.p
	}
	return out
}

// Len returns the number of indexed platforms.
func (ix *platformIndex) Len() int {
	return len(ix.items)
}

// Reset empties the index.
func (ix *platformIndex) Reset() {
	ix.items = ix.items[:0]
	ix.maxSpan = 0
}
