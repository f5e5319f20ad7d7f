package assembly

import "sync"

// DependencyGraph tracks which layers cut which: an edge cutter->target
// means the target's final shape depends on the cutter's state. Both
// directions of the relation are kept mutually consistent.
//
// Out-of-range indices are silently ignored by the mutating
// operations; the graph is an internal structure resized lazily by the
// builder, and a stale index here is not a caller error.
type DependencyGraph struct {
	mu    sync.Mutex
	nodes []depNode
}

type depNode struct {
	cuts  []int // targets this layer cuts
	cutBy []int // layers cutting this one
}

// NewDependencyGraph creates a graph pre-sized for n layers.
func NewDependencyGraph(n int) *DependencyGraph {
	return &DependencyGraph{nodes: make([]depNode, n)}
}

// Resize grows the node array to hold at least n layers. Existing
// edges are preserved; shrinking is not supported.
func (g *DependencyGraph) Resize(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for len(g.nodes) < n {
		g.nodes = append(g.nodes, depNode{})
	}
}

// AddDependency records that cutter cuts target. Duplicate edges and
// out-of-range indices are no-ops.
func (g *DependencyGraph) AddDependency(cutter, target int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inRange(cutter) || !g.inRange(target) || cutter == target {
		return
	}
	if contains(g.nodes[cutter].cuts, target) {
		return
	}
	g.nodes[cutter].cuts = append(g.nodes[cutter].cuts, target)
	g.nodes[target].cutBy = append(g.nodes[target].cutBy, cutter)
}

// RemoveDependency erases the cutter->target edge in both directions.
func (g *DependencyGraph) RemoveDependency(cutter, target int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inRange(cutter) || !g.inRange(target) {
		return
	}
	g.nodes[cutter].cuts = remove(g.nodes[cutter].cuts, target)
	g.nodes[target].cutBy = remove(g.nodes[target].cutBy, cutter)
}

// CutBy returns the layers recorded as cutting the given target.
func (g *DependencyGraph) CutBy(target int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inRange(target) {
		return nil
	}
	out := make([]int, len(g.nodes[target].cutBy))
	copy(out, g.nodes[target].cutBy)
	return out
}

// AffectedLayers returns the forward-reachable closure over cut edges
// starting at changed: every layer whose final shape can differ after
// the changed layer moves. Explicit-stack DFS; each index appears
// exactly once, the changed layer first, in visitation order.
func (g *DependencyGraph) AffectedLayers(changed int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inRange(changed) {
		return nil
	}

	visited := make(map[int]bool)
	var order []int
	stack := []int{changed}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		order = append(order, i)
		// Push in reverse so the first recorded edge is visited first.
		cuts := g.nodes[i].cuts
		for j := len(cuts) - 1; j >= 0; j-- {
			if !visited[cuts[j]] {
				stack = append(stack, cuts[j])
			}
		}
	}
	return order
}

// Clear drops all edges, keeping the node count.
func (g *DependencyGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.nodes {
		g.nodes[i] = depNode{}
	}
}

func (g *DependencyGraph) inRange(i int) bool { return i >= 0 && i < len(g.nodes) }

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func remove(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
