package facefit

import (
	"fmt"

	"idphoto/internal/landmarks"
	"idphoto/internal/mask"
)

// Fit runs the full positioning pipeline for one portrait. The mask is
// optional. Unusable geometry (essential landmarks unresolved, head height
// not positive) never propagates as an error: Fit converts it into a
// full-frame fallback Result with PositioningSuccess false, so callers
// always receive a rectangle of exact target size.
func Fit(mesh *landmarks.Mesh, imgWidth, imgHeight int, m *mask.Mask, spec Spec, trace Tracer) Result {
	set, err := landmarks.Normalize(mesh, imgWidth, imgHeight, landmarks.TraceFunc(trace))
	if err != nil {
		tracef(trace, "landmark normalization failed: %v", err)
		return fallbackResult(spec, fmt.Sprintf("face analysis error: %v", err))
	}
	return FitNormalized(set, imgWidth, imgHeight, m, spec, trace)
}

// FitNormalized is Fit for callers that already hold a normalized region
// set.
func FitNormalized(set *landmarks.Set, imgWidth, imgHeight int, m *mask.Mask, spec Spec, trace Tracer) Result {
	headTopY := RefineHeadTop(set, m, imgWidth, imgHeight, trace)

	dims, err := AnalyzeDimensions(set, headTopY, imgWidth, imgHeight, trace)
	if err != nil {
		tracef(trace, "dimension analysis failed: %v", err)
		return fallbackResult(spec, fmt.Sprintf("face analysis error: %v", err))
	}

	scale := SelectScale(dims.HeadHeightPx, spec, trace)
	scaled := dims.scaled(scale)

	cropTopF, cropLeftF, pos := SelectPosition(scaled, spec, trace)
	cropTopF, corrections := CorrectMargins(cropTopF, scaled, spec, trace)
	cropTop, cropLeft, warnings := ClampToBounds(cropTopF, cropLeftF, scale, imgWidth, imgHeight, spec, trace)

	res := Result{
		ScaleFactor:        scale,
		CropTop:            cropTop,
		CropBottom:         cropTop + spec.PhotoHeightPx,
		CropLeft:           cropLeft,
		CropRight:          cropLeft + spec.PhotoWidthPx,
		Positioning:        pos,
		Corrections:        corrections,
		PositioningSuccess: true,
		Warnings:           warnings,
	}

	validate(&res, scaled, spec, trace)
	return res
}

// fallbackResult is the safe output for unusable input geometry: identity
// scale and an origin crop of exact target size.
func fallbackResult(spec Spec, warning string) Result {
	return Result{
		ScaleFactor:        1.0,
		CropTop:            0,
		CropBottom:         spec.PhotoHeightPx,
		CropLeft:           0,
		CropRight:          spec.PhotoWidthPx,
		Positioning:        Positioning{Method: MethodNone},
		PositioningSuccess: false,
		Warnings:           []string{warning},
	}
}
