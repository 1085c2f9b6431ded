package facefit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"idphoto/internal/landmarks"
	"idphoto/internal/mask"
	"idphoto/pkg/geometry"
)

// portrait describes the synthetic face geometry a test mesh encodes, in
// pixel coordinates of an imgW×imgH image.
type portrait struct {
	imgW, imgH  int
	headTopY    float64
	chinY       float64
	eyeY        float64
	faceMinX    float64
	faceMaxX    float64
	withoutEyes bool
}

// mesh builds a sparse topology mesh realizing the portrait: forehead and
// chin on the center axis, temples at the face extremes (temple indexes are
// also contour indexes, so contour extrema resolve too).
func (p portrait) mesh() *landmarks.Mesh {
	w, h := float64(p.imgW), float64(p.imgH)
	centerX := (p.faceMinX + p.faceMaxX) / 2

	m := landmarks.NewMesh()
	m.SetPoint(10, geometry.Point2D{X: centerX / w, Y: p.headTopY / h})
	m.SetPoint(152, geometry.Point2D{X: centerX / w, Y: p.chinY / h})
	midY := (p.headTopY + p.chinY) / 2 / h
	m.SetPoint(234, geometry.Point2D{X: p.faceMinX / w, Y: midY})
	m.SetPoint(454, geometry.Point2D{X: p.faceMaxX / w, Y: midY})
	if !p.withoutEyes {
		for _, idx := range []int{468, 470} {
			m.SetPoint(idx, geometry.Point2D{X: (centerX - 50) / w, Y: p.eyeY / h})
		}
		for _, idx := range []int{473, 475} {
			m.SetPoint(idx, geometry.Point2D{X: (centerX + 50) / w, Y: p.eyeY / h})
		}
	}
	return m
}

// referencePortrait is the worked example: 1000x1200 image, head height
// 200px, eyes at 360, face centered at x=500.
func referencePortrait() portrait {
	return portrait{
		imgW: 1000, imgH: 1200,
		headTopY: 300, chinY: 500, eyeY: 360,
		faceMinX: 400, faceMaxX: 600,
	}
}

func referenceSpec() Spec {
	s := NewSpec(600, 600, 300, 420)
	s.EyeFromBottomPx = &PxRange{Min: 280, Max: 340}
	return s
}

func TestFitReferenceScenario(t *testing.T) {
	p := referencePortrait()
	res := Fit(p.mesh(), p.imgW, p.imgH, nil, referenceSpec(), t.Logf)

	if !res.PositioningSuccess {
		t.Fatalf("positioning failed: %v", res.Warnings)
	}
	if math.Abs(res.ScaleFactor-1.8) > 1e-9 {
		t.Errorf("scale = %v, want 1.8", res.ScaleFactor)
	}
	if res.Positioning.Method != MethodEyeFromBottom {
		t.Errorf("method = %v, want EyeFromBottom", res.Positioning.Method)
	}
	if res.AchievedEyeFromBottomPx < 280 || res.AchievedEyeFromBottomPx > 340 {
		t.Errorf("eye from bottom = %v, want within [280, 340]", res.AchievedEyeFromBottomPx)
	}
	if res.CropWidth() != 600 || res.CropHeight() != 600 {
		t.Errorf("crop = %dx%d, want 600x600", res.CropWidth(), res.CropHeight())
	}
	if res.AchievedHeadHeightPx < 300 || res.AchievedHeadHeightPx > 420 {
		t.Errorf("achieved head = %v, want within [300, 420]", res.AchievedHeadHeightPx)
	}
}

func TestFitBoundaryClampSmallImage(t *testing.T) {
	// Huge head forces the scale to the sanity floor; the scaled image
	// (550x550) is then smaller than the 600x600 target on both axes.
	p := portrait{
		imgW: 2200, imgH: 2200,
		headTopY: 100, chinY: 2100, eyeY: 900,
		faceMinX: 600, faceMaxX: 1600,
	}
	res := Fit(p.mesh(), p.imgW, p.imgH, nil, referenceSpec(), nil)

	if res.ScaleFactor != MinScale {
		t.Errorf("scale = %v, want clamped to %v", res.ScaleFactor, MinScale)
	}
	if res.CropTop != 0 || res.CropLeft != 0 {
		t.Errorf("crop origin = (%d, %d), want (0, 0)", res.CropLeft, res.CropTop)
	}
	if res.CropWidth() != 600 || res.CropHeight() != 600 {
		t.Errorf("crop = %dx%d, want exact 600x600 despite undersized image",
			res.CropWidth(), res.CropHeight())
	}
	if len(res.Warnings) < 2 {
		t.Errorf("expected warnings for both undersized axes, got %v", res.Warnings)
	}
}

func TestFitSizeInvariantAcrossInputs(t *testing.T) {
	spec := referenceSpec()
	portraits := []portrait{
		referencePortrait(),
		{imgW: 640, imgH: 480, headTopY: 10, chinY: 470, eyeY: 200, faceMinX: 100, faceMaxX: 540},
		{imgW: 3000, imgH: 4000, headTopY: 1800, chinY: 1850, eyeY: 1820, faceMinX: 1400, faceMaxX: 1600},
		{imgW: 100, imgH: 100, headTopY: 20, chinY: 80, eyeY: 45, faceMinX: 30, faceMaxX: 70, withoutEyes: true},
	}
	for _, p := range portraits {
		res := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
		if res.CropWidth() != spec.PhotoWidthPx || res.CropHeight() != spec.PhotoHeightPx {
			t.Errorf("image %dx%d: crop %dx%d, want %dx%d",
				p.imgW, p.imgH, res.CropWidth(), res.CropHeight(),
				spec.PhotoWidthPx, spec.PhotoHeightPx)
		}
		if res.ScaleFactor < MinScale || res.ScaleFactor > MaxScale {
			t.Errorf("image %dx%d: scale %v outside [%v, %v]",
				p.imgW, p.imgH, res.ScaleFactor, MinScale, MaxScale)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	p := referencePortrait()
	spec := referenceSpec()

	first := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
	second := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two identical runs differ (-first +second):\n%s", diff)
	}
}

func TestFitComplianceConsistency(t *testing.T) {
	spec := referenceSpec()
	for _, headH := range []float64{40, 120, 200, 500, 900} {
		p := portrait{
			imgW: 1000, imgH: 1200,
			headTopY: 150, chinY: 150 + headH, eyeY: 150 + headH*0.4,
			faceMinX: 400, faceMaxX: 600,
		}
		res := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
		if res.PositioningSuccess {
			if res.AchievedHeadHeightPx < spec.HeadMinPx || res.AchievedHeadHeightPx > spec.HeadMaxPx {
				t.Errorf("head %v: success=true but achieved %v outside [%v, %v]",
					headH, res.AchievedHeadHeightPx, spec.HeadMinPx, spec.HeadMaxPx)
			}
		}
	}
}

func TestFitScaleMonotonicity(t *testing.T) {
	spec := referenceSpec()
	prev := math.Inf(1)
	for _, headH := range []float64{150, 200, 300, 500, 800} {
		p := portrait{
			imgW: 1000, imgH: 1200,
			headTopY: 100, chinY: 100 + headH, eyeY: 100 + headH*0.4,
			faceMinX: 400, faceMaxX: 600,
		}
		res := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
		if res.ScaleFactor > prev {
			t.Errorf("head %v: scale %v increased from %v", headH, res.ScaleFactor, prev)
		}
		prev = res.ScaleFactor
	}
}

func TestFitMaskOptionality(t *testing.T) {
	p := referencePortrait()
	spec := referenceSpec()

	// Mask whose topmost foreground row matches the landmark head top
	// exactly. Refinement must be a no-op, so both runs agree.
	data := make([]byte, p.imgW*p.imgH)
	for y := int(p.headTopY); y < int(p.chinY); y++ {
		for x := int(p.faceMinX); x < int(p.faceMaxX); x++ {
			data[y*p.imgW+x] = 255
		}
	}
	m, err := mask.New(p.imgW, p.imgH, data)
	if err != nil {
		t.Fatalf("mask.New: %v", err)
	}

	bare := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
	masked := Fit(p.mesh(), p.imgW, p.imgH, m, spec, nil)
	if diff := cmp.Diff(bare, masked); diff != "" {
		t.Errorf("mask matching landmarks changed result (-bare +masked):\n%s", diff)
	}
}

func TestFitMaskCapturesHair(t *testing.T) {
	p := referencePortrait()
	spec := referenceSpec()

	// Foreground 40px above the landmark forehead, inside the search
	// window: hair. The refined head top must move up, enlarging the
	// measured head and shrinking the scale.
	data := make([]byte, p.imgW*p.imgH)
	hairTop := int(p.headTopY) - 40
	for y := hairTop; y < int(p.chinY); y++ {
		for x := int(p.faceMinX); x < int(p.faceMaxX); x++ {
			data[y*p.imgW+x] = 255
		}
	}
	m, _ := mask.New(p.imgW, p.imgH, data)

	bare := Fit(p.mesh(), p.imgW, p.imgH, nil, spec, nil)
	masked := Fit(p.mesh(), p.imgW, p.imgH, m, spec, nil)
	if masked.ScaleFactor >= bare.ScaleFactor {
		t.Errorf("hair should enlarge head and reduce scale: bare %v, masked %v",
			bare.ScaleFactor, masked.ScaleFactor)
	}
	wantScale := 360.0 / 240.0
	if math.Abs(masked.ScaleFactor-wantScale) > 1e-9 {
		t.Errorf("masked scale = %v, want %v", masked.ScaleFactor, wantScale)
	}
}

func TestFitFallbackOnEmptyMesh(t *testing.T) {
	spec := referenceSpec()
	res := Fit(landmarks.NewMesh(), 1000, 1200, nil, spec, nil)

	if res.PositioningSuccess {
		t.Error("empty mesh should fail positioning")
	}
	if res.ScaleFactor != 1.0 {
		t.Errorf("fallback scale = %v, want 1.0", res.ScaleFactor)
	}
	if res.CropTop != 0 || res.CropLeft != 0 ||
		res.CropWidth() != spec.PhotoWidthPx || res.CropHeight() != spec.PhotoHeightPx {
		t.Errorf("fallback crop = (%d,%d) %dx%d, want full-frame target size",
			res.CropLeft, res.CropTop, res.CropWidth(), res.CropHeight())
	}
	if res.Positioning.Method != MethodNone {
		t.Errorf("fallback method = %v, want None", res.Positioning.Method)
	}
	if len(res.Warnings) == 0 {
		t.Error("fallback result must carry an explanatory warning")
	}
}

func TestFitFallbackOnDegenerateHeadHeight(t *testing.T) {
	// Chin at the same row as the forehead: head height zero.
	p := portrait{
		imgW: 1000, imgH: 1200,
		headTopY: 300, chinY: 300, eyeY: 300,
		faceMinX: 400, faceMaxX: 600,
	}
	res := Fit(p.mesh(), p.imgW, p.imgH, nil, referenceSpec(), nil)
	if res.PositioningSuccess {
		t.Error("zero head height should fail positioning")
	}
	if res.CropWidth() != 600 || res.CropHeight() != 600 {
		t.Errorf("fallback crop = %dx%d, want 600x600", res.CropWidth(), res.CropHeight())
	}
}
