package facefit

import (
	"errors"
	"fmt"

	"idphoto/internal/landmarks"
	"idphoto/pkg/geometry"
)

// ErrHeadHeight reports an unusable chin-to-crown distance.
var ErrHeadHeight = errors.New("non-positive head height")

// Eye line estimate when eye centers are unresolved, as a fraction of head
// height below the head top.
const estimatedEyeFraction = 0.40

// Estimated face width as a fraction of image width when no contour
// resolves.
const estimatedFaceWidthFraction = 0.60

// Dimensions holds the measured face geometry in original-image pixels.
type Dimensions struct {
	HeadTopY     float64
	ChinBottomY  float64
	EyeLevelY    float64
	FaceCenterX  float64
	HeadHeightPx float64
	FaceWidthPx  float64
}

// AnalyzeDimensions derives the face measurements from the normalized
// regions and the refined head top. Fails only when the head height is not
// a usable positive distance.
func AnalyzeDimensions(set *landmarks.Set, headTopY float64, imgWidth, imgHeight int, trace Tracer) (Dimensions, error) {
	chinBottomY := regionMaxY(set, landmarks.ChinBottom)

	headHeight := chinBottomY - headTopY
	if headHeight <= 1 {
		return Dimensions{}, fmt.Errorf("%w: %.2f (top %.2f, chin %.2f)",
			ErrHeadHeight, headHeight, headTopY, chinBottomY)
	}

	eyeLevelY, ok := eyeLevel(set)
	if !ok {
		eyeLevelY = headTopY + headHeight*estimatedEyeFraction
		tracef(trace, "eye centers unresolved, estimating eye level at %.1f (40%% below head top)", eyeLevelY)
	}

	faceCenterX, faceWidth, ok := faceExtent(set)
	if !ok {
		faceCenterX = float64(imgWidth) / 2
		faceWidth = float64(imgWidth) * estimatedFaceWidthFraction
		tracef(trace, "face contour unresolved, using image center and estimated width %.1f", faceWidth)
	}

	tracef(trace, "face dimensions: head %.1fpx (top %.1f, chin %.1f), eyes %.1f, center %.1f, width %.1f",
		headHeight, headTopY, chinBottomY, eyeLevelY, faceCenterX, faceWidth)

	return Dimensions{
		HeadTopY:     headTopY,
		ChinBottomY:  chinBottomY,
		EyeLevelY:    eyeLevelY,
		FaceCenterX:  faceCenterX,
		HeadHeightPx: headHeight,
		FaceWidthPx:  faceWidth,
	}, nil
}

// eyeLevel returns the mean row of the two eye centers. Both must resolve.
func eyeLevel(set *landmarks.Set) (float64, bool) {
	left := set.Points(landmarks.LeftEyeCenter)
	right := set.Points(landmarks.RightEyeCenter)
	if len(left) == 0 || len(right) == 0 {
		return 0, false
	}
	return (meanY(left) + meanY(right)) / 2, true
}

// faceExtent returns the horizontal center and width of the face contour.
func faceExtent(set *landmarks.Set) (centerX, width float64, ok bool) {
	contour := set.Points(landmarks.FaceContour)
	if len(contour) == 0 {
		return 0, 0, false
	}
	box := geometry.BoundingBox(contour)
	return box.X + box.Width/2, box.Width, true
}

func meanY(pts []geometry.Point2D) float64 {
	var sum float64
	for _, p := range pts {
		sum += p.Y
	}
	return sum / float64(len(pts))
}
