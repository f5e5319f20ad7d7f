package mesh

import (
	"math"
	"testing"

	"github.com/algorithmx/stratum/pkg/kernel"
)

func singleTriangle(p1, p2, p3 [3]float64) kernel.RawFace {
	return kernel.RawFace{
		Points:    [][3]float64{p1, p2, p3},
		Triangles: [][3]int{{0, 1, 2}},
	}
}

func TestElementQualityEquilateral(t *testing.T) {
	// Unit equilateral triangle in the z=0 plane.
	m := newTestMesh(t, singleTriangle(
		[3]float64{0, 0, 0},
		[3]float64{1, 0, 0},
		[3]float64{0.5, math.Sqrt(3) / 2, 0},
	))

	q := m.ElementQuality(&m.Elements()[0])
	if math.Abs(q-1.0) > 1e-9 {
		t.Errorf("equilateral quality = %v, want 1.0", q)
	}
}

func TestElementQualitySliver(t *testing.T) {
	m := newTestMesh(t, singleTriangle(
		[3]float64{0, 0, 0},
		[3]float64{1, 0, 0},
		[3]float64{0.5, 1e-6, 0},
	))

	q := m.ElementQuality(&m.Elements()[0])
	if q > 1e-4 {
		t.Errorf("sliver quality = %v, want near 0", q)
	}
}

func TestElementQualityBounded(t *testing.T) {
	m := newTestMesh(t, gridFace(3, 0, 0))
	for i := range m.Elements() {
		q := m.ElementQuality(&m.Elements()[i])
		if q < 0 || q > 1 {
			t.Errorf("element %d quality = %v, out of [0,1]", i, q)
		}
	}
	if m.AverageQuality() <= 0 || m.AverageQuality() > 1 {
		t.Errorf("average quality = %v, out of (0,1]", m.AverageQuality())
	}
}

func TestAngleStatisticsRightTriangles(t *testing.T) {
	// A grid square triangulates into 45/45/90 right triangles.
	m := newTestMesh(t, gridFace(2, 0, 0))

	if got := m.MinAngle() * 180 / math.Pi; math.Abs(got-45) > 1e-9 {
		t.Errorf("min angle = %v deg, want 45", got)
	}
	if got := m.MaxAngle() * 180 / math.Pi; math.Abs(got-90) > 1e-9 {
		t.Errorf("max angle = %v deg, want 90", got)
	}
}

func TestLowQualityElements(t *testing.T) {
	// One good triangle, one sliver.
	f := kernel.RawFace{
		Points: [][3]float64{
			{0, 0, 0}, {1, 0, 0}, {0.5, math.Sqrt(3) / 2, 0},
			{2, 0, 0}, {3, 0, 0}, {2.5, 1e-6, 0},
		},
		Triangles: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	m := newTestMesh(t, f)

	ids := m.LowQualityElements(0.5)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("low quality ids = %v, want [1]", ids)
	}
	if m.CheckElementQuality(DefaultMinQuality) {
		t.Error("CheckElementQuality should fail with a sliver present")
	}
}
