package facefit

import "math"

// scaledDims is the face geometry after multiplying by the scale factor.
// All crop coordinates live in this space.
type scaledDims struct {
	headTopY    float64
	chinBottomY float64
	eyeLevelY   float64
	faceCenterX float64
}

func (d Dimensions) scaled(factor float64) scaledDims {
	return scaledDims{
		headTopY:    d.HeadTopY * factor,
		chinBottomY: d.ChinBottomY * factor,
		eyeLevelY:   d.EyeLevelY * factor,
		faceCenterX: d.FaceCenterX * factor,
	}
}

// SelectPosition chooses the crop origin. The vertical rule is a strict
// priority chain over the spec's optional requirements; the horizontal
// origin always centers the face. Origins are fractional here; rounding
// and clamping happen downstream.
func SelectPosition(dims scaledDims, spec Spec, trace Tracer) (cropTop, cropLeft float64, pos Positioning) {
	switch {
	case spec.HeadTopDistPx != nil:
		target := spec.HeadTopDistPx.Mid()
		cropTop = dims.headTopY - target
		pos = Positioning{Method: MethodHeadTopDistance, ParameterPx: target}
		tracef(trace, "positioning by head-top distance, target %.1fpx, crop top %.1f", target, cropTop)

	case spec.EyeFromBottomPx != nil:
		targetFromBottom := spec.EyeFromBottomPx.Mid()
		targetFromTop := float64(spec.PhotoHeightPx) - targetFromBottom
		cropTop = dims.eyeLevelY - targetFromTop
		pos = Positioning{Method: MethodEyeFromBottom, ParameterPx: targetFromBottom}
		tracef(trace, "positioning by eye-from-bottom, target %.1fpx (%.1fpx from top), crop top %.1f",
			targetFromBottom, targetFromTop, cropTop)

	default:
		margin := float64(spec.PhotoHeightPx) * spec.DefaultHeadTopMarginPercent
		cropTop = dims.headTopY - margin
		pos = Positioning{Method: MethodDefaultMargin, ParameterPx: margin}
		tracef(trace, "positioning by default margin %.1fpx, crop top %.1f", margin, cropTop)
	}

	cropLeft = dims.faceCenterX - float64(spec.PhotoWidthPx)/2
	return cropTop, cropLeft, pos
}

// CorrectMargins enforces the minimum visual clearances, head first, then
// chin. Each fix shifts cropTop only. The chin fix can re-violate the head
// margin and that violation is deliberately not re-checked: resolving the
// conflict differently is a per-document product decision, not an engine
// one.
func CorrectMargins(cropTop float64, dims scaledDims, spec Spec, trace Tracer) (float64, []Correction) {
	var corrections []Correction

	headMargin := dims.headTopY - cropTop
	if headMargin < spec.MinVisualHeadMarginPx {
		shift := spec.MinVisualHeadMarginPx - headMargin
		cropTop -= shift
		corrections = append(corrections, CorrectionHeadMargin)
		tracef(trace, "head margin %.1fpx below minimum %.1fpx, shifted crop up by %.1fpx",
			headMargin, spec.MinVisualHeadMarginPx, shift)
	}

	chinMargin := (cropTop + float64(spec.PhotoHeightPx)) - dims.chinBottomY
	if chinMargin < spec.MinVisualChinMarginPx {
		shift := spec.MinVisualChinMarginPx - chinMargin
		cropTop += shift
		corrections = append(corrections, CorrectionChinMargin)
		tracef(trace, "chin margin %.1fpx below minimum %.1fpx, shifted crop down by %.1fpx",
			chinMargin, spec.MinVisualChinMarginPx, shift)
	}

	return cropTop, corrections
}

// ClampToBounds rounds the crop origin and clamps it into the scaled
// image, preserving the exact target dimensions. When the scaled image is
// smaller than the target on an axis, the origin clamps to zero and the
// crop extends past the available pixels; a warning surfaces this so the
// downstream crop stage pads the shortfall.
func ClampToBounds(cropTopF, cropLeftF float64, scale float64, imgWidth, imgHeight int, spec Spec, trace Tracer) (cropTop, cropLeft int, warnings []string) {
	scaledW := int(math.Round(float64(imgWidth) * scale))
	scaledH := int(math.Round(float64(imgHeight) * scale))

	cropTop = clampInt(int(math.Round(cropTopF)), 0, scaledH-spec.PhotoHeightPx)
	cropLeft = clampInt(int(math.Round(cropLeftF)), 0, scaledW-spec.PhotoWidthPx)

	if scaledH < spec.PhotoHeightPx {
		warnings = append(warnings, "scaled image shorter than target photo; crop extends past image bottom")
	}
	if scaledW < spec.PhotoWidthPx {
		warnings = append(warnings, "scaled image narrower than target photo; crop extends past image right edge")
	}
	tracef(trace, "crop origin clamped to (%d, %d) in scaled image %dx%d", cropLeft, cropTop, scaledW, scaledH)
	return cropTop, cropLeft, warnings
}

// clampInt clamps v into [lo, hi], collapsing to lo when hi < lo (the
// scaled image is smaller than the target).
func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
