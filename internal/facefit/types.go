// Package facefit computes a document-compliant crop rectangle and scale
// factor for a portrait, given a normalized landmark set, an optional
// segmentation mask, and a pixel-space document frame specification.
//
// The computation is a single forward pipeline with no retained state:
// refine head top, analyze dimensions, select scale, select position,
// correct margins, clamp to bounds, validate. It performs no I/O and is
// fully deterministic; identical inputs produce identical results.
package facefit

// Sanity bounds on the scale factor. Spec-driven scaling outside this
// interval indicates degenerate input geometry.
const (
	MinScale = 0.25
	MaxScale = 3.0
)

// PxRange is an inclusive pixel range requirement from a document spec.
type PxRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid returns the midpoint of the range, the aim point for positioning.
func (r PxRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v falls inside the range.
func (r PxRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Spec is a document photo frame requirement in pixel space. Unit
// conversion from physical dimensions happens upstream; the engine only
// ever sees pixels. Optional requirements are nil when the document does
// not define them.
type Spec struct {
	PhotoWidthPx  int `json:"photo_width_px"`
	PhotoHeightPx int `json:"photo_height_px"`

	HeadMinPx float64 `json:"head_min_px"`
	HeadMaxPx float64 `json:"head_max_px"`

	// Vertical positioning requirements, in priority order.
	HeadTopDistPx   *PxRange `json:"head_top_dist_px,omitempty"`
	EyeFromBottomPx *PxRange `json:"eye_from_bottom_px,omitempty"`

	// Minimum visual clearances in the final photo. Zero is a valid
	// override for documents that prioritize exact eye placement.
	MinVisualHeadMarginPx float64 `json:"min_visual_head_margin_px"`
	MinVisualChinMarginPx float64 `json:"min_visual_chin_margin_px"`

	// Fraction of photo height left above the head when no positioning
	// requirement applies.
	DefaultHeadTopMarginPercent float64 `json:"default_head_top_margin_percent"`
}

// NewSpec returns a Spec with the conventional margin defaults. Callers
// override fields afterward; an explicit zero margin survives because the
// engine never re-applies defaults.
func NewSpec(photoWidthPx, photoHeightPx int, headMinPx, headMaxPx float64) Spec {
	return Spec{
		PhotoWidthPx:                photoWidthPx,
		PhotoHeightPx:               photoHeightPx,
		HeadMinPx:                   headMinPx,
		HeadMaxPx:                   headMaxPx,
		MinVisualHeadMarginPx:       5,
		MinVisualChinMarginPx:       5,
		DefaultHeadTopMarginPercent: 0.12,
	}
}

// Method identifies the priority rule that chose the vertical crop origin.
type Method int

const (
	// MethodNone marks a fallback result where no positioning ran.
	MethodNone Method = iota
	// MethodHeadTopDistance positions by crown-to-frame-top distance.
	MethodHeadTopDistance
	// MethodEyeFromBottom positions by the eye line's distance from the
	// photo bottom.
	MethodEyeFromBottom
	// MethodDefaultMargin positions by the default top-margin fraction.
	MethodDefaultMargin
)

func (m Method) String() string {
	switch m {
	case MethodHeadTopDistance:
		return "HeadTopDistance"
	case MethodEyeFromBottom:
		return "EyeFromBottom"
	case MethodDefaultMargin:
		return "DefaultMargin"
	default:
		return "None"
	}
}

// Positioning records the applied rule and its numeric parameter: the
// target distance for HeadTopDistance and EyeFromBottom, the margin in
// pixels for DefaultMargin.
type Positioning struct {
	Method      Method  `json:"method"`
	ParameterPx float64 `json:"parameter_px"`
}

// Correction is a margin fix applied after positioning.
type Correction int

const (
	// CorrectionHeadMargin shifted the crop up to restore head clearance.
	CorrectionHeadMargin Correction = iota
	// CorrectionChinMargin shifted the crop down to restore chin clearance.
	CorrectionChinMargin
)

func (c Correction) String() string {
	switch c {
	case CorrectionHeadMargin:
		return "HeadMarginFix"
	case CorrectionChinMargin:
		return "ChinMarginFix"
	default:
		return "Unknown"
	}
}

// Result is the engine output. The crop rectangle is in scaled-image
// coordinates and is always exactly PhotoWidthPx × PhotoHeightPx, even on
// fallback paths.
type Result struct {
	ScaleFactor float64 `json:"scale_factor"`

	CropTop    int `json:"crop_top"`
	CropBottom int `json:"crop_bottom"`
	CropLeft   int `json:"crop_left"`
	CropRight  int `json:"crop_right"`

	// Achieved measurements in final-photo coordinates.
	AchievedHeadHeightPx      float64 `json:"achieved_head_height_px"`
	AchievedEyeFromTopPx      float64 `json:"achieved_eye_level_from_top_px"`
	AchievedEyeFromBottomPx   float64 `json:"achieved_eye_level_from_bottom_px"`
	AchievedHeadTopFromCropPx float64 `json:"achieved_head_top_from_crop_top_px"`

	Positioning        Positioning  `json:"positioning"`
	Corrections        []Correction `json:"corrections,omitempty"`
	PositioningSuccess bool         `json:"positioning_success"`
	Warnings           []string     `json:"warnings,omitempty"`
}

// CropWidth returns the crop rectangle width.
func (r Result) CropWidth() int { return r.CropRight - r.CropLeft }

// CropHeight returns the crop rectangle height.
func (r Result) CropHeight() int { return r.CropBottom - r.CropTop }

// Tracer receives diagnostic messages from the pipeline stages. The
// engine has no logger of its own; a nil Tracer is silent.
type Tracer func(format string, args ...any)

func tracef(trace Tracer, format string, args ...any) {
	if trace != nil {
		trace(format, args...)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
