// Package assembly owns the ranked-layer lifecycle: registering
// posable device layers with an intersection precedence, resolving
// overlaps by rank-ordered boolean cuts, and materializing the result
// as a device. Higher rank cuts lower rank; ties fall to insertion
// order.
package assembly

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/algorithmx/stratum/pkg/device"
	"github.com/algorithmx/stratum/pkg/kernel"
)

// RankedLayer is one registered layer: the immutable original solid,
// its intersection rank, and the mutable derived state produced by
// resolution. The original is never modified; pose changes and cuts
// only affect derived fields.
type RankedLayer struct {
	Name     string
	Material device.Material
	Region   device.Region

	original kernel.Solid
	rank     int
	pose     kernel.Transform

	final      kernel.Solid // nil when fully consumed by cuts
	lastVolume float64
	modified   bool
	cutBy      []int
}

// Rank returns the layer's intersection precedence.
func (l *RankedLayer) Rank() int { return l.rank }

// Original returns the immutable original solid.
func (l *RankedLayer) Original() kernel.Solid { return l.original }

// Pose returns the current pose transform.
func (l *RankedLayer) Pose() kernel.Transform { return l.pose }

// Final returns the post-resolution shape, nil when the layer was
// fully consumed or resolution has not run since the last change.
func (l *RankedLayer) Final() kernel.Solid { return l.final }

// LastVolume returns the volume of the final shape from the most
// recent resolution pass.
func (l *RankedLayer) LastVolume() float64 { return l.lastVolume }

// CutBy returns the indices of the layers that cut this one in the
// most recent resolution pass.
func (l *RankedLayer) CutBy() []int { return l.cutBy }

// Modified reports whether the layer changed since the last
// resolution pass.
func (l *RankedLayer) Modified() bool { return l.modified }

// contentHash fingerprints the layer's current geometric state: the
// identity of its original (stable per index, since originals are
// immutable) plus the exact pose bits. Two layers states hash equal
// iff their transformed shapes are identical.
func contentHash(index int, pose kernel.Transform) uint64 {
	var buf [8]byte
	h := xxhash.New()

	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	h.Write(buf[:])

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(pose.Linear[i][j]))
			h.Write(buf[:])
		}
	}
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(pose.Offset[i]))
		h.Write(buf[:])
	}
	return h.Sum64()
}
