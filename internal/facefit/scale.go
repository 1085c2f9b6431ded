package facefit

// SelectScale chooses the scale factor that brings the head height to the
// midpoint of the spec's allowed range. If the scaled head would still
// fall outside the range, the scale is re-aimed at the violated bound.
// The result is clamped into [MinScale, MaxScale] last, so degenerate
// geometry cannot produce an extreme transform.
func SelectScale(headHeightPx float64, spec Spec, trace Tracer) float64 {
	idealHeadPx := (spec.HeadMinPx + spec.HeadMaxPx) / 2
	scale := idealHeadPx / headHeightPx
	tracef(trace, "scale for ideal head %.1fpx from %.1fpx: %.4f", idealHeadPx, headHeightPx, scale)

	if headHeightPx*scale < spec.HeadMinPx {
		scale = spec.HeadMinPx / headHeightPx
		tracef(trace, "re-aimed scale at head_min %.1fpx: %.4f", spec.HeadMinPx, scale)
	} else if headHeightPx*scale > spec.HeadMaxPx {
		scale = spec.HeadMaxPx / headHeightPx
		tracef(trace, "re-aimed scale at head_max %.1fpx: %.4f", spec.HeadMaxPx, scale)
	}

	clamped := clamp(scale, MinScale, MaxScale)
	if clamped != scale {
		tracef(trace, "scale %.4f outside sanity bounds [%.2f, %.2f], clamped to %.4f",
			scale, MinScale, MaxScale, clamped)
	}
	return clamped
}
