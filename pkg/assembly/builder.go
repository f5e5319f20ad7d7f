package assembly

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/kernel"
)

// Builder owns the ranked-layer lifecycle: layers are registered with
// an intersection rank, posed, and resolved into non-overlapping final
// shapes where higher rank cuts lower rank. The layer store, the
// intersection cache, the dependency graph and the spatial index are
// each independently synchronized; no two of their locks are ever held
// at once, and no lock is held across a kernel call.
type Builder struct {
	kern kernel.Kernel

	tolerance   float64
	minVolume   float64
	maxWorkers  int
	shareShapes bool

	mu          sync.RWMutex
	layers      []*RankedLayer
	transformed map[int]memoShape // layer index -> pose-hashed transformed solid

	cache     *IntersectionCache
	deps      *DependencyGraph
	index     SpatialIndex
	poseCheck *TransformValidator

	reportMu   sync.Mutex
	lastReport Report
}

type memoShape struct {
	hash  uint64
	shape kernel.Solid
}

// Report summarizes one resolution pass.
type Report struct {
	Layers       int
	Removed      int
	PairsCut     int
	CacheHits    int
	PairFailures int
	Duration     time.Duration
}

const (
	defaultTolerance = 1e-7
	defaultMinVolume = 1e-12
	defaultCacheSize = 256
)

// NewBuilder creates a builder with default configuration. The With
// methods adjust configuration and are meant to be chained before any
// layer is added.
func NewBuilder(k kernel.Kernel) *Builder {
	return &Builder{
		kern:        k,
		tolerance:   defaultTolerance,
		minVolume:   defaultMinVolume,
		maxWorkers:  runtime.NumCPU(),
		shareShapes: true,
		transformed: make(map[int]memoShape),
		cache:       NewIntersectionCache(defaultCacheSize),
		deps:        NewDependencyGraph(0),
		index:       NewRTreeIndex(),
		poseCheck:   NewTransformValidator(0),
	}
}

// WithTolerance sets the boolean-operation tolerance used by retry
// paths.
func (b *Builder) WithTolerance(tol float64) *Builder {
	if tol > 0 {
		b.tolerance = tol
	}
	return b
}

// WithMinVolume sets the volume below which a cut layer is classified
// as consumed.
func (b *Builder) WithMinVolume(v float64) *Builder {
	if v >= 0 {
		b.minVolume = v
	}
	return b
}

// WithMaxWorkers bounds the resolve worker pool.
func (b *Builder) WithMaxWorkers(n int) *Builder {
	if n > 0 {
		b.maxWorkers = n
	}
	return b
}

// WithCacheSize rebinds the intersection cache to a new capacity.
// Meant for configuration time; existing entries are dropped.
func (b *Builder) WithCacheSize(n int) *Builder {
	b.cache = NewIntersectionCache(n)
	return b
}

// WithShapeSharing controls whether an identity-posed layer's derived
// state may alias the original solid. Disabling it forces a defensive
// kernel-level copy per layer.
func (b *Builder) WithShapeSharing(share bool) *Builder {
	b.shareShapes = share
	return b
}

// AddRankedLayer registers a layer at the given rank and returns its
// index. Indices are stable for the life of the builder.
func (b *Builder) AddRankedLayer(name string, s kernel.Solid, mat device.Material, region device.Region, rank int) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("assembly: layer solid must be non-nil: %w", kernel.ErrInvalidInput)
	}

	b.mu.Lock()
	i := len(b.layers)
	if name == "" {
		name = fmt.Sprintf("Layer_%d", i)
	}
	b.layers = append(b.layers, &RankedLayer{
		Name:     name,
		Material: mat,
		Region:   region,
		original: s,
		rank:     rank,
		pose:     kernel.Identity(),
		modified: true,
	})
	b.mu.Unlock()

	b.deps.Resize(i + 1)
	min, max := s.BoundingBox()
	b.index.Insert(i, min, max)

	logger.Info("layer added", "index", i, "name", name, "rank", rank)
	return i, nil
}

// UpdateLayerTransform validates and installs a new pose for the
// layer, invalidating its transformed-shape memo and every cache
// entry involving it. Intersections are not recomputed until the next
// resolve pass.
func (b *Builder) UpdateLayerTransform(i int, pose kernel.Transform) error {
	b.mu.RLock()
	if i < 0 || i >= len(b.layers) {
		b.mu.RUnlock()
		return fmt.Errorf("assembly: layer %d: %w", i, kernel.ErrIndexOutOfRange)
	}
	original := b.layers[i].original
	b.mu.RUnlock()

	if !b.poseCheck.IsValid(pose) {
		return fmt.Errorf("assembly: layer %d: invalid transform: %w", i, kernel.ErrInvalidInput)
	}

	// Kernel work happens outside any lock.
	shape, err := b.applyPose(original, pose)
	if err != nil {
		return fmt.Errorf("assembly: layer %d: %w", i, err)
	}

	b.mu.Lock()
	b.layers[i].pose = pose
	b.layers[i].modified = true
	b.transformed[i] = memoShape{hash: contentHash(i, pose), shape: shape}
	b.mu.Unlock()

	b.cache.InvalidateLayer(i)
	min, max := shape.BoundingBox()
	b.index.Update(i, min, max)
	return nil
}

// ResetLayerToOriginal clears the layer's pose to identity and
// invalidates its derived state.
func (b *Builder) ResetLayerToOriginal(i int) error {
	b.mu.Lock()
	if i < 0 || i >= len(b.layers) {
		b.mu.Unlock()
		return fmt.Errorf("assembly: layer %d: %w", i, kernel.ErrIndexOutOfRange)
	}
	l := b.layers[i]
	l.pose = kernel.Identity()
	l.modified = true
	original := l.original
	delete(b.transformed, i)
	b.mu.Unlock()

	b.cache.InvalidateLayer(i)
	min, max := original.BoundingBox()
	b.index.Update(i, min, max)
	return nil
}

// RecomputeFromOriginals invalidates the derived state for exactly
// the given indices and runs a full resolution pass. Unchanged pairs
// are served from the cache, so the pass only pays kernel time for
// work reachable from the changed layers.
func (b *Builder) RecomputeFromOriginals(changed []int) error {
	b.mu.RLock()
	n := len(b.layers)
	b.mu.RUnlock()
	for _, c := range changed {
		if c < 0 || c >= n {
			return fmt.Errorf("assembly: layer %d: %w", c, kernel.ErrIndexOutOfRange)
		}
	}

	b.mu.Lock()
	for _, c := range changed {
		delete(b.transformed, c)
	}
	b.mu.Unlock()
	for _, c := range changed {
		b.cache.InvalidateLayer(c)
	}

	return b.ResolveIntersections()
}

type layerSnap struct {
	original kernel.Solid
	rank     int
	pose     kernel.Transform
	hash     uint64
}

type cutPair struct {
	target, cutter int
}

// ResolveIntersections recomputes every layer's final shape: the
// transformed shape minus the transformed shapes of all higher-rank
// layers whose bounding boxes overlap it. Pairwise cuts for
// independent pairs run concurrently; per-pair failures are collected
// and joined, never aborting the rest of the pass.
func (b *Builder) ResolveIntersections() error {
	start := time.Now()

	b.mu.RLock()
	n := len(b.layers)
	snaps := make([]layerSnap, n)
	for i, l := range b.layers {
		snaps[i] = layerSnap{
			original: l.original,
			rank:     l.rank,
			pose:     l.pose,
			hash:     contentHash(i, l.pose),
		}
	}
	b.mu.RUnlock()

	if n == 0 {
		return nil
	}

	var errs []error
	failed := make([]bool, n)

	// Phase 1: transformed shapes, memoized by pose hash.
	transformed := make([]kernel.Solid, n)
	for i := range snaps {
		shape, err := b.transformedShape(i, snaps[i])
		if err != nil {
			errs = append(errs, err)
			failed[i] = true
			continue
		}
		transformed[i] = shape
	}

	// Phase 2: candidate cutters per layer via the broad-phase index,
	// filtered by rank (ties fall to insertion order). Dependencies are
	// rebuilt from scratch each pass.
	b.deps.Clear()
	cutters := make([][]int, n)
	for i := range snaps {
		if failed[i] {
			continue
		}
		min, max := transformed[i].BoundingBox()
		for _, j := range b.index.Query(min, max) {
			if j == i || j >= n || failed[j] {
				continue
			}
			if snaps[j].rank > snaps[i].rank || (snaps[j].rank == snaps[i].rank && j > i) {
				cutters[i] = append(cutters[i], j)
			}
		}
		sort.Ints(cutters[i])
		for _, j := range cutters[i] {
			b.deps.AddDependency(j, i)
		}
	}

	// Phase 3: pairwise cuts, cache-first, in parallel. Each pair's
	// result is the target's transformed shape minus the cutter's; the
	// per-layer combine below intersects them, so a pair result stays
	// valid as long as both operands' content hashes do.
	var pairs []cutPair
	pairAt := make(map[cutPair]int)
	for i := range cutters {
		for _, j := range cutters[i] {
			pairAt[cutPair{i, j}] = len(pairs)
			pairs = append(pairs, cutPair{i, j})
		}
	}

	results := make([]kernel.Solid, len(pairs))
	cacheHits := 0
	pairFailures := 0
	var resolveMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(b.maxWorkers)
	for idx, p := range pairs {
		g.Go(func() error {
			key := CacheKey{
				Target:     p.target,
				Cutter:     p.cutter,
				TargetHash: snaps[p.target].hash,
				CutterHash: snaps[p.cutter].hash,
			}
			if cached, ok := b.cache.TryGet(key); ok {
				resolveMu.Lock()
				results[idx] = cached
				cacheHits++
				resolveMu.Unlock()
				return nil
			}

			cut, err := b.subtractWithRetry(transformed[p.target], transformed[p.cutter])
			if err != nil {
				resolveMu.Lock()
				errs = append(errs, fmt.Errorf("assembly: cutting layer %d by layer %d: %w", p.target, p.cutter, err))
				pairFailures++
				failed[p.target] = true
				resolveMu.Unlock()
				return nil
			}
			b.cache.Put(key, cut)
			resolveMu.Lock()
			results[idx] = cut
			resolveMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	// Phase 4: combine per layer, ascending rank order so every
	// layer's cut set is settled before lower-rank layers consume the
	// pass's results.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		if snaps[order[a]].rank != snaps[order[c]].rank {
			return snaps[order[a]].rank < snaps[order[c]].rank
		}
		return order[a] < order[c]
	})

	finals := make([]kernel.Solid, n)
	volumes := make([]float64, n)
	removed := 0
	check := NewGeometryValidator(b.kern, b.minVolume)
	for _, i := range order {
		if failed[i] {
			continue
		}
		shape := transformed[i]
		for ci, j := range cutters[i] {
			cut := results[pairAt[cutPair{i, j}]]
			if ci == 0 {
				shape = cut
				continue
			}
			combined, err := b.kern.Intersection(shape, cut)
			if err != nil {
				errs = append(errs, fmt.Errorf("assembly: combining cuts for layer %d: %w", i, err))
				failed[i] = true
				break
			}
			shape = combined
		}
		if failed[i] {
			continue
		}

		verdict := check.ValidateCutResult(shape)
		if err := verdict.Err(); err != nil {
			logger.Info("layer consumed by higher-rank cuts", "index", i, "detail", err)
			finals[i] = nil
			removed++
			continue
		}
		finals[i] = shape
		volumes[i] = verdict.Volume
	}

	// Phase 5: write back.
	b.mu.Lock()
	for i, l := range b.layers {
		if failed[i] {
			continue
		}
		l.final = finals[i]
		l.lastVolume = volumes[i]
		l.cutBy = cutters[i]
		l.modified = false
	}
	b.mu.Unlock()

	report := Report{
		Layers:       n,
		Removed:      removed,
		PairsCut:     len(pairs),
		CacheHits:    cacheHits,
		PairFailures: pairFailures,
		Duration:     time.Since(start),
	}
	b.reportMu.Lock()
	b.lastReport = report
	b.reportMu.Unlock()

	logger.Info("resolve pass complete",
		"layers", n, "pairs", len(pairs), "cacheHits", cacheHits,
		"removed", removed, "failures", len(errs), "elapsed", report.Duration)
	return errors.Join(errs...)
}

// transformedShape returns the layer's pose-applied solid, reusing
// the memoized shape when the pose hash is unchanged.
func (b *Builder) transformedShape(i int, snap layerSnap) (kernel.Solid, error) {
	b.mu.RLock()
	memo, ok := b.transformed[i]
	b.mu.RUnlock()
	if ok && memo.hash == snap.hash {
		return memo.shape, nil
	}

	shape, err := b.applyPose(snap.original, snap.pose)
	if err != nil {
		return nil, fmt.Errorf("assembly: transforming layer %d: %w", i, err)
	}

	b.mu.Lock()
	b.transformed[i] = memoShape{hash: snap.hash, shape: shape}
	b.mu.Unlock()
	return shape, nil
}

func (b *Builder) applyPose(original kernel.Solid, pose kernel.Transform) (kernel.Solid, error) {
	if pose.IsIdentity() && b.shareShapes {
		return original, nil
	}
	return b.kern.Transform(original, pose)
}

// subtractWithRetry is the boolean-failure policy: one retry with
// repaired operands and a relaxed fuzzy tolerance before the pair is
// surfaced as a hard failure.
func (b *Builder) subtractWithRetry(target, cutter kernel.Solid) (kernel.Solid, error) {
	cut, err := b.kern.Difference(target, cutter)
	if err == nil {
		return cut, nil
	}
	logger.Warn("difference failed, retrying with repaired operands", "err", err)

	cut, retryErr := b.kern.DifferenceFuzzy(b.kern.Repair(target), b.kern.Repair(cutter), b.tolerance*10)
	if retryErr != nil {
		return nil, errors.Join(err, retryErr)
	}
	return cut, nil
}

// BuildDevice materializes a device from the current final shapes,
// skipping layers consumed by cuts. ResolveIntersections must have
// run; layers never resolved have no final shape and are skipped.
func (b *Builder) BuildDevice(name string) (*device.Device, error) {
	d, err := device.New(b.kern, name)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	type finalLayer struct {
		name     string
		solid    kernel.Solid
		material device.Material
		region   device.Region
	}
	var kept []finalLayer
	for _, l := range b.layers {
		if l.final == nil {
			continue
		}
		kept = append(kept, finalLayer{l.Name, l.final, l.Material, l.Region})
	}
	b.mu.RUnlock()

	if len(kept) == 0 {
		return nil, fmt.Errorf("assembly: no resolved layers to build from: %w", kernel.ErrInvalidInput)
	}
	for _, fl := range kept {
		if err := d.AddLayer(&device.Layer{
			Name:     fl.name,
			Solid:    fl.solid,
			Material: fl.material,
			Region:   fl.region,
		}); err != nil {
			return nil, err
		}
	}
	if err := d.BuildGeometry(); err != nil {
		return nil, err
	}
	return d, nil
}

// LayerCount returns the number of registered layers.
func (b *Builder) LayerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.layers)
}

// Layer returns the layer at index i for inspection.
func (b *Builder) Layer(i int) (*RankedLayer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.layers) {
		return nil, fmt.Errorf("assembly: layer %d: %w", i, kernel.ErrIndexOutOfRange)
	}
	return b.layers[i], nil
}

// FinalShape returns layer i's post-resolution shape; nil and no
// error when the layer was consumed.
func (b *Builder) FinalShape(i int) (kernel.Solid, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.layers) {
		return nil, fmt.Errorf("assembly: layer %d: %w", i, kernel.ErrIndexOutOfRange)
	}
	return b.layers[i].final, nil
}

// Dependencies exposes the dependency graph for affected-layer
// queries.
func (b *Builder) Dependencies() *DependencyGraph { return b.deps }

// Cache exposes the intersection cache, mainly for instrumentation.
func (b *Builder) Cache() *IntersectionCache { return b.cache }

// LastReport returns the summary of the most recent resolve pass.
func (b *Builder) LastReport() Report {
	b.reportMu.Lock()
	defer b.reportMu.Unlock()
	return b.lastReport
}
