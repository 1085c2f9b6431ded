package facefit

import (
	"idphoto/internal/landmarks"
	"idphoto/internal/mask"
)

// Horizontal search padding as a fraction of face width, and vertical
// search depth below the landmark forehead as a fraction of image height.
// Hair only ever raises the head top, so the scan stops just below the
// landmark estimate.
const (
	refineHorizontalPad = 0.15
	refineVerticalPad   = 0.05
)

// RefineHeadTop tightens the landmark forehead-top row using the
// segmentation mask, capturing hair above the forehead landmark. Returns
// the landmark value unchanged when no mask is supplied or the scan finds
// no foreground. Never fails.
func RefineHeadTop(set *landmarks.Set, m *mask.Mask, imgWidth, imgHeight int, trace Tracer) float64 {
	landmarkTopY := regionMinY(set, landmarks.ForeheadTop)

	if m == nil {
		tracef(trace, "no segmentation mask, head top stays at landmark %.1f", landmarkTopY)
		return landmarkTopY
	}
	if m.Width() != imgWidth || m.Height() != imgHeight {
		tracef(trace, "mask dimensions %dx%d differ from image %dx%d, scanning best-effort",
			m.Width(), m.Height(), imgWidth, imgHeight)
	}

	x0, x1 := headSearchWindow(set, imgWidth, trace)
	y1 := int(landmarkTopY + float64(imgHeight)*refineVerticalPad)
	if y1 > imgHeight {
		y1 = imgHeight
	}

	maskTopY, found := m.TopmostForeground(x0, x1, 0, y1)
	if !found {
		tracef(trace, "no foreground in mask window X[%d:%d] Y[0:%d], head top stays at landmark %.1f",
			x0, x1, y1, landmarkTopY)
		return landmarkTopY
	}

	refined := landmarkTopY
	if float64(maskTopY) < refined {
		refined = float64(maskTopY)
	}
	if landmarkTopY-refined > 5 {
		tracef(trace, "hair detected: %.1fpx above landmark forehead", landmarkTopY-refined)
	}
	return refined
}

// headSearchWindow derives the column window [x0, x1) from temple and
// contour points, padded by a fraction of the face width. Falls back to
// the full image width when no horizontal references resolve or the
// window collapses.
func headSearchWindow(set *landmarks.Set, imgWidth int, trace Tracer) (int, int) {
	var xs []float64
	for _, r := range []landmarks.Region{landmarks.TempleLeft, landmarks.TempleRight, landmarks.FaceContour} {
		for _, p := range set.Points(r) {
			xs = append(xs, p.X)
		}
	}
	if len(xs) == 0 {
		tracef(trace, "no horizontal face references, scanning full image width")
		return 0, imgWidth
	}

	minX, maxX := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	pad := (maxX - minX) * refineHorizontalPad
	x0 := int(minX - pad)
	x1 := int(maxX + pad)
	if x0 < 0 {
		x0 = 0
	}
	if x1 > imgWidth {
		x1 = imgWidth
	}
	if x0 >= x1 {
		tracef(trace, "degenerate horizontal window [%d:%d], widening to full image", x0, x1)
		return 0, imgWidth
	}
	return x0, x1
}

// regionMinY returns the smallest y across a region's points.
func regionMinY(set *landmarks.Set, r landmarks.Region) float64 {
	pts := set.Points(r)
	min := pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < min {
			min = p.Y
		}
	}
	return min
}

// regionMaxY returns the largest y across a region's points.
func regionMaxY(set *landmarks.Set, r landmarks.Region) float64 {
	pts := set.Points(r)
	max := pts[0].Y
	for _, p := range pts[1:] {
		if p.Y > max {
			max = p.Y
		}
	}
	return max
}
