package kernel

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestIdentityApply(t *testing.T) {
	id := Identity()
	p := [3]float64{1.5, -2, 7}
	if got := id.Apply(p); got != p {
		t.Errorf("Identity().Apply(%v) = %v, want unchanged", p, got)
	}
	if !id.IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if id.Det() != 1 {
		t.Errorf("Identity().Det() = %v, want 1", id.Det())
	}
}

func TestTranslationApply(t *testing.T) {
	tr := Translation(1, 2, 3)
	got := tr.Apply([3]float64{10, 20, 30})
	want := [3]float64{11, 22, 33}
	if got != want {
		t.Errorf("Translation.Apply = %v, want %v", got, want)
	}
}

func TestRotationZQuarterTurn(t *testing.T) {
	rz := RotationZ(90)
	got := rz.Apply([3]float64{1, 0, 0})
	if !almostEqual(got[0], 0, 1e-12) || !almostEqual(got[1], 1, 1e-12) || !almostEqual(got[2], 0, 1e-12) {
		t.Errorf("RotationZ(90).Apply((1,0,0)) = %v, want (0,1,0)", got)
	}
	if !almostEqual(rz.Det(), 1, 1e-12) {
		t.Errorf("rotation determinant = %v, want 1", rz.Det())
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	// Rotate then translate: t.Mul(u) applies u first.
	c := Translation(10, 0, 0).Mul(RotationZ(90))
	got := c.Apply([3]float64{1, 0, 0})
	if !almostEqual(got[0], 10, 1e-12) || !almostEqual(got[1], 1, 1e-12) {
		t.Errorf("compose apply = %v, want (10,1,0)", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	c := Translation(3, -1, 2).Mul(RotationY(37)).Mul(Scaling(2, 2, 2))
	inv, ok := c.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular for an invertible transform")
	}
	p := [3]float64{0.5, -4, 9}
	q := inv.Apply(c.Apply(p))
	for i := 0; i < 3; i++ {
		if !almostEqual(q[i], p[i], 1e-9) {
			t.Errorf("inverse round trip component %d = %v, want %v", i, q[i], p[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := Scaling(1, 1, 0).Inverse(); ok {
		t.Error("Inverse() of a collapsed scale should report singular")
	}
}

func TestScalingDetAndNorms(t *testing.T) {
	s := Scaling(2, 3, 4)
	if !almostEqual(s.Det(), 24, 1e-12) {
		t.Errorf("Scaling(2,3,4).Det() = %v, want 24", s.Det())
	}
	n := s.ColumnNorms()
	want := [3]float64{2, 3, 4}
	for i := range n {
		if !almostEqual(n[i], want[i], 1e-12) {
			t.Errorf("column norm %d = %v, want %v", i, n[i], want[i])
		}
	}
}

func TestIsFinite(t *testing.T) {
	good := Translation(1, 2, 3)
	if !good.IsFinite() {
		t.Error("finite transform reported non-finite")
	}
	bad := Identity()
	bad.Linear[1][1] = math.NaN()
	if bad.IsFinite() {
		t.Error("NaN transform reported finite")
	}
	bad2 := Identity()
	bad2.Offset[0] = math.Inf(1)
	if bad2.IsFinite() {
		t.Error("Inf transform reported finite")
	}
}
