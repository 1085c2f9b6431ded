package landmarks

import (
	"errors"
	"math"
	"testing"

	"idphoto/pkg/geometry"
)

// denseMesh builds a mesh covering every table index, with each point at a
// position derived from its index so tests can predict pixel coordinates.
func denseMesh() *Mesh {
	m := NewMesh()
	for r := Region(0); r < regionCount; r++ {
		for _, idx := range regionIndexes[r] {
			m.SetPoint(idx, geometry.Point2D{
				X: float64(idx%100) / 100,
				Y: float64(idx%50) / 50,
			})
		}
	}
	return m
}

func TestNormalizeScalesToPixels(t *testing.T) {
	m := NewMesh()
	m.SetPoint(10, geometry.Point2D{X: 0.5, Y: 0.25})  // forehead
	m.SetPoint(152, geometry.Point2D{X: 0.5, Y: 0.75}) // chin

	set, err := Normalize(m, 1000, 1200, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	fh, ok := set.Point(ForeheadTop)
	if !ok {
		t.Fatal("forehead top unresolved")
	}
	if fh.X != 500 || fh.Y != 300 {
		t.Errorf("forehead = %+v, want (500,300)", fh)
	}
	chin, _ := set.Point(ChinBottom)
	if chin.X != 500 || chin.Y != 900 {
		t.Errorf("chin = %+v, want (500,900)", chin)
	}
}

func TestNormalizeDenseMeshResolvesAllRegions(t *testing.T) {
	set, err := Normalize(denseMesh(), 640, 480, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for r := Region(0); r < regionCount; r++ {
		if !set.Has(r) {
			t.Errorf("region %s unresolved on a dense mesh", r)
		}
	}
}

func TestNormalizeContourExtrema(t *testing.T) {
	m := NewMesh()
	m.SetPoint(10, geometry.Point2D{X: 0.5, Y: 0.2})
	m.SetPoint(152, geometry.Point2D{X: 0.5, Y: 0.8})
	// Three more contour members with a distinct lowest/highest point.
	m.SetPoint(338, geometry.Point2D{X: 0.4, Y: 0.1})
	m.SetPoint(377, geometry.Point2D{X: 0.6, Y: 0.9})
	m.SetPoint(93, geometry.Point2D{X: 0.2, Y: 0.5})

	set, err := Normalize(m, 100, 100, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	top, _ := set.Point(FaceContourTop)
	if top.Y != 10 {
		t.Errorf("contour top y = %v, want 10", top.Y)
	}
	bottom, _ := set.Point(FaceContourBottom)
	if bottom.Y != 90 {
		t.Errorf("contour bottom y = %v, want 90", bottom.Y)
	}
}

func TestNormalizeForeheadFallsBackToContourTop(t *testing.T) {
	m := NewMesh()
	// No index 10: forehead must come from the contour extremum.
	m.SetPoint(338, geometry.Point2D{X: 0.4, Y: 0.15})
	m.SetPoint(152, geometry.Point2D{X: 0.5, Y: 0.85})
	m.SetPoint(93, geometry.Point2D{X: 0.2, Y: 0.5})

	var traced int
	trace := func(string, ...any) { traced++ }

	set, err := Normalize(m, 200, 200, trace)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	fh, ok := set.Point(ForeheadTop)
	if !ok {
		t.Fatal("forehead top unresolved despite contour fallback")
	}
	if fh.Y != 30 {
		t.Errorf("forehead y = %v, want contour top 30", fh.Y)
	}
	if traced == 0 {
		t.Error("expected trace output for skipped indices and fallback")
	}
}

func TestNormalizeEyeCenterFallback(t *testing.T) {
	m := NewMesh()
	m.SetPoint(10, geometry.Point2D{X: 0.5, Y: 0.2})
	m.SetPoint(152, geometry.Point2D{X: 0.5, Y: 0.8})
	// Corner points only; no iris indices.
	m.SetPoint(133, geometry.Point2D{X: 0.45, Y: 0.36})
	m.SetPoint(33, geometry.Point2D{X: 0.40, Y: 0.36})
	m.SetPoint(362, geometry.Point2D{X: 0.55, Y: 0.36})
	m.SetPoint(263, geometry.Point2D{X: 0.60, Y: 0.36})

	set, err := Normalize(m, 1000, 1000, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	left, ok := set.Point(LeftEyeCenter)
	if !ok {
		t.Fatal("left eye center unresolved")
	}
	if math.Abs(left.X-425) > 1e-9 || math.Abs(left.Y-360) > 1e-9 {
		t.Errorf("left eye center = %+v, want (425,360)", left)
	}
	right, ok := set.Point(RightEyeCenter)
	if !ok {
		t.Fatal("right eye center unresolved")
	}
	if math.Abs(right.X-575) > 1e-9 {
		t.Errorf("right eye center x = %v, want 575", right.X)
	}
}

func TestNormalizeMissingEssentials(t *testing.T) {
	m := NewMesh()
	// Eye corners only: no forehead, no chin, no contour points.
	m.SetPoint(133, geometry.Point2D{X: 0.45, Y: 0.36})
	m.SetPoint(33, geometry.Point2D{X: 0.40, Y: 0.36})

	_, err := Normalize(m, 100, 100, nil)
	if !errors.Is(err, ErrEssentialRegion) {
		t.Errorf("err = %v, want ErrEssentialRegion", err)
	}
}

func TestNormalizeEmptyMesh(t *testing.T) {
	if _, err := Normalize(NewMesh(), 100, 100, nil); !errors.Is(err, ErrEssentialRegion) {
		t.Errorf("empty mesh err = %v, want ErrEssentialRegion", err)
	}
	if _, err := Normalize(nil, 100, 100, nil); !errors.Is(err, ErrEssentialRegion) {
		t.Errorf("nil mesh err = %v, want ErrEssentialRegion", err)
	}
}

func TestNormalizeRejectsBadDimensions(t *testing.T) {
	m := NewMesh()
	m.SetPoint(10, geometry.Point2D{X: 0.5, Y: 0.2})
	m.SetPoint(152, geometry.Point2D{X: 0.5, Y: 0.8})
	if _, err := Normalize(m, 0, 100, nil); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := Normalize(m, 100, -1, nil); err == nil {
		t.Error("expected error for negative height")
	}
}
