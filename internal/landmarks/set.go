package landmarks

import (
	"errors"
	"fmt"

	"idphoto/pkg/geometry"
)

// ErrEssentialRegion reports that forehead top or chin bottom could not be
// resolved even through fallbacks. Geometry without both is unusable.
var ErrEssentialRegion = errors.New("essential landmark region unresolved")

// TraceFunc receives diagnostic messages from normalization. A nil TraceFunc
// is silent.
type TraceFunc func(format string, args ...any)

// Mesh is a landmark mesh in normalized [0,1] coordinates, keyed by
// topology index. Meshes may be sparse: providers that cannot fill the full
// topology set only the indices they know.
type Mesh struct {
	points map[int]geometry.Point2D
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{points: make(map[int]geometry.Point2D)}
}

// MeshFromPoints builds a dense mesh from an indexed point list, as produced
// by the external detector (index i = topology point i).
func MeshFromPoints(pts []geometry.Point2D) *Mesh {
	m := NewMesh()
	for i, p := range pts {
		m.points[i] = p
	}
	return m
}

// SetPoint stores the point for a topology index.
func (m *Mesh) SetPoint(idx int, p geometry.Point2D) {
	m.points[idx] = p
}

// Point returns the point for a topology index, if present.
func (m *Mesh) Point(idx int) (geometry.Point2D, bool) {
	p, ok := m.points[idx]
	return p, ok
}

// Len returns the number of points present.
func (m *Mesh) Len() int {
	return len(m.points)
}

// Set holds pixel-space points per resolved region.
type Set struct {
	regions [regionCount][]geometry.Point2D
}

// Points returns the pixel-space points of a region, or nil if unresolved.
func (s *Set) Points(r Region) []geometry.Point2D {
	if r < 0 || r >= regionCount {
		return nil
	}
	return s.regions[r]
}

// Point returns the first point of a region.
func (s *Set) Point(r Region) (geometry.Point2D, bool) {
	pts := s.Points(r)
	if len(pts) == 0 {
		return geometry.Point2D{}, false
	}
	return pts[0], true
}

// Has reports whether a region resolved to at least one point.
func (s *Set) Has(r Region) bool {
	return len(s.Points(r)) > 0
}

// Normalize maps a mesh onto pixel-space regions for an imgWidth×imgHeight
// image. Indices absent from the mesh are skipped (traced). After the table
// pass it derives the contour extrema and applies the fallback chain:
// forehead top from the contour top, chin bottom from the contour bottom,
// and eye centers from the inner/outer corner midpoint. Fails only when
// forehead top or chin bottom remain unresolved.
func Normalize(mesh *Mesh, imgWidth, imgHeight int, trace TraceFunc) (*Set, error) {
	if mesh == nil || mesh.Len() == 0 {
		return nil, fmt.Errorf("empty mesh: %w", ErrEssentialRegion)
	}
	if imgWidth <= 0 || imgHeight <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", imgWidth, imgHeight)
	}

	set := &Set{}
	w := float64(imgWidth)
	h := float64(imgHeight)

	for r := Region(0); r < regionCount; r++ {
		indexes := regionIndexes[r]
		if len(indexes) == 0 {
			continue
		}
		var coords []geometry.Point2D
		for _, idx := range indexes {
			p, ok := mesh.Point(idx)
			if !ok {
				tracef(trace, "index %d for region %s not present in mesh", idx, r)
				continue
			}
			coords = append(coords, geometry.Point2D{X: p.X * w, Y: p.Y * h})
		}
		set.regions[r] = coords
	}

	deriveContourExtrema(set, trace)

	if !set.Has(ForeheadTop) {
		if set.Has(FaceContourTop) {
			set.regions[ForeheadTop] = set.regions[FaceContourTop]
			tracef(trace, "fallback: used %s for %s", FaceContourTop, ForeheadTop)
		}
	}
	if !set.Has(ChinBottom) {
		if set.Has(FaceContourBottom) {
			set.regions[ChinBottom] = set.regions[FaceContourBottom]
			tracef(trace, "fallback: used %s for %s", FaceContourBottom, ChinBottom)
		}
	}

	if !set.Has(ForeheadTop) {
		return nil, fmt.Errorf("%s: %w", ForeheadTop, ErrEssentialRegion)
	}
	if !set.Has(ChinBottom) {
		return nil, fmt.Errorf("%s: %w", ChinBottom, ErrEssentialRegion)
	}

	resolveEyeCenter(set, LeftEyeCenter, LeftEyeInner, LeftEyeOuter, trace)
	resolveEyeCenter(set, RightEyeCenter, RightEyeInner, RightEyeOuter, trace)

	return set, nil
}

// deriveContourExtrema fills FaceContourTop/Bottom from the highest and
// lowest contour points.
func deriveContourExtrema(set *Set, trace TraceFunc) {
	contour := set.Points(FaceContour)
	if len(contour) == 0 {
		tracef(trace, "face contour missing, top/bottom extrema unavailable")
		return
	}
	top, bottom := contour[0], contour[0]
	for _, p := range contour[1:] {
		if p.Y < top.Y {
			top = p
		}
		if p.Y > bottom.Y {
			bottom = p
		}
	}
	set.regions[FaceContourTop] = []geometry.Point2D{top}
	set.regions[FaceContourBottom] = []geometry.Point2D{bottom}
}

// resolveEyeCenter fills a missing eye center with the midpoint of the
// inner and outer corners.
func resolveEyeCenter(set *Set, center, inner, outer Region, trace TraceFunc) {
	if set.Has(center) {
		return
	}
	in, okIn := set.Point(inner)
	out, okOut := set.Point(outer)
	if !okIn || !okOut {
		tracef(trace, "region %s unresolved: no center points and no corner fallback", center)
		return
	}
	mid := geometry.Centroid([]geometry.Point2D{in, out})
	set.regions[center] = []geometry.Point2D{mid}
	tracef(trace, "fallback: used %s/%s midpoint for %s", inner, outer, center)
}

func tracef(trace TraceFunc, format string, args ...any) {
	if trace != nil {
		trace(format, args...)
	}
}
