package assembly

import (
	"sync"

	"github.com/dhconnelly/rtreego"
)

// SpatialIndex is the broad-phase bounding-box filter consumed by
// resolution. Query must return a superset of the indices whose stored
// box intersects the argument: false positives are fine, false
// negatives are not.
type SpatialIndex interface {
	Insert(i int, min, max [3]float64)
	Update(i int, min, max [3]float64)
	Remove(i int)
	Query(min, max [3]float64) []int
}

// boxEntry adapts one layer's bounding box to rtreego's Spatial.
type boxEntry struct {
	index int
	rect  rtreego.Rect
}

func (e *boxEntry) Bounds() rtreego.Rect { return e.rect }

// RTreeIndex is an R-tree backed SpatialIndex. Safe for concurrent
// use under one mutex.
type RTreeIndex struct {
	mu      sync.Mutex
	tree    *rtreego.Rtree
	entries map[int]*boxEntry
}

// NewRTreeIndex creates an empty 3D index.
func NewRTreeIndex() *RTreeIndex {
	return &RTreeIndex{
		tree:    rtreego.NewTree(3, 2, 8),
		entries: make(map[int]*boxEntry),
	}
}

// sideEpsilon inflates flat boxes; rtreego rejects zero-length sides,
// and a zero-thickness layer must still be findable by its neighbors.
const sideEpsilon = 1e-9

func makeRect(min, max [3]float64) rtreego.Rect {
	p := rtreego.Point{min[0], min[1], min[2]}
	lengths := []float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	for i := range lengths {
		if lengths[i] < sideEpsilon {
			lengths[i] = sideEpsilon
		}
	}
	// A non-degenerate rect in 3 dimensions cannot fail to construct.
	rect, err := rtreego.NewRect(p, lengths)
	if err != nil {
		panic(err)
	}
	return rect
}

// Insert stores the box for layer i, replacing any previous entry.
func (x *RTreeIndex) Insert(i int, min, max [3]float64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.insertLocked(i, min, max)
}

func (x *RTreeIndex) insertLocked(i int, min, max [3]float64) {
	if old, ok := x.entries[i]; ok {
		x.tree.Delete(old)
	}
	entry := &boxEntry{index: i, rect: makeRect(min, max)}
	x.entries[i] = entry
	x.tree.Insert(entry)
}

// Update replaces the stored box for layer i.
func (x *RTreeIndex) Update(i int, min, max [3]float64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.insertLocked(i, min, max)
}

// Remove drops layer i from the index. Unknown indices are no-ops.
func (x *RTreeIndex) Remove(i int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if entry, ok := x.entries[i]; ok {
		x.tree.Delete(entry)
		delete(x.entries, i)
	}
}

// Query returns the indices of all stored boxes intersecting the
// argument box.
func (x *RTreeIndex) Query(min, max [3]float64) []int {
	x.mu.Lock()
	defer x.mu.Unlock()

	var out []int
	for _, s := range x.tree.SearchIntersect(makeRect(min, max)) {
		out = append(out, s.(*boxEntry).index)
	}
	return out
}
