package facefit

import "fmt"

// validate computes the achieved measurements from the final crop origin
// and checks them against the spec. Head height compliance is the only
// critical check; eye position and head-top distance are advisory and
// only add warnings.
func validate(res *Result, dims scaledDims, spec Spec, trace Tracer) {
	photoH := float64(spec.PhotoHeightPx)
	cropTop := float64(res.CropTop)

	headTopFromCrop := dims.headTopY - cropTop
	chinFromCrop := dims.chinBottomY - cropTop
	eyeFromCrop := dims.eyeLevelY - cropTop
	eyeFromBottom := photoH - eyeFromCrop

	// Visible head height models clipping at the frame edges.
	visibleTop := clamp(headTopFromCrop, 0, photoH)
	visibleChin := clamp(chinFromCrop, 0, photoH)
	achievedHead := visibleChin - visibleTop
	if achievedHead < 0 {
		achievedHead = 0
	}

	res.AchievedHeadHeightPx = achievedHead
	res.AchievedEyeFromTopPx = eyeFromCrop
	res.AchievedEyeFromBottomPx = eyeFromBottom
	res.AchievedHeadTopFromCropPx = headTopFromCrop

	if achievedHead < spec.HeadMinPx || achievedHead > spec.HeadMaxPx {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"head height %.1fpx outside spec %.1f-%.1fpx", achievedHead, spec.HeadMinPx, spec.HeadMaxPx))
		res.PositioningSuccess = false
	}

	if spec.EyeFromBottomPx != nil && !spec.EyeFromBottomPx.Contains(eyeFromBottom) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"eye line %.1fpx from bottom outside spec %.1f-%.1fpx",
			eyeFromBottom, spec.EyeFromBottomPx.Min, spec.EyeFromBottomPx.Max))
	}

	if spec.HeadTopDistPx != nil && !spec.HeadTopDistPx.Contains(headTopFromCrop) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"head top %.1fpx from crop top outside spec %.1f-%.1fpx",
			headTopFromCrop, spec.HeadTopDistPx.Min, spec.HeadTopDistPx.Max))
	}

	tracef(trace, "achieved: head %.1fpx, eye from bottom %.1fpx, head top from crop %.1fpx, success=%v",
		achievedHead, eyeFromBottom, headTopFromCrop, res.PositioningSuccess)
}
