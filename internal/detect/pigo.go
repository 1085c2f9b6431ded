package detect

import (
	"fmt"
	"image"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"

	"idphoto/internal/landmarks"
	"idphoto/pkg/geometry"
)

// Face geometry ratios for synthesizing mesh slots from a cascade
// detection box. The cascade captures chin-to-forehead, not chin-to-crown,
// so the head top extends above the detection.
const (
	skullExtensionRatio = 0.15 // crown above detection top, fraction of box size
	eyeRowRatio         = 0.42 // eye row below detection top
	eyeSpanRatio        = 0.18 // eye center offset from face center
)

// PigoProvider is a coarse landmark provider backed by a pigo face
// cascade. It produces a sparse mesh carrying only the topology slots the
// normalizer reads, synthesized from the detection geometry. Meant as a
// standalone fallback when no mesh file from the full landmark service is
// available.
type PigoProvider struct {
	classifier *pigo.Pigo
}

// NewPigoProvider loads the cascade file.
func NewPigoProvider(cascadePath string) (*PigoProvider, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade: %w", err)
	}
	return &PigoProvider{classifier: classifier}, nil
}

// DetectMesh runs the cascade and synthesizes a sparse mesh for the best
// detection. Fails when no face is found.
func (p *PigoProvider) DetectMesh(img image.Image) (*landmarks.Mesh, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pixels := grayPixels(img)
	cParams := pigo.CascadeParams{
		MinSize:     40,
		MaxSize:     int(math.Min(float64(w), float64(h)) * 0.8),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   h,
			Cols:   w,
			Dim:    w,
		},
	}

	faces := p.classifier.RunCascade(cParams, 0.0)
	faces = p.classifier.ClusterDetections(faces, 0.2)
	if len(faces) == 0 {
		return nil, fmt.Errorf("no face detected")
	}

	best := faces[0]
	bestScore := math.Inf(-1)
	for _, face := range faces {
		score := float64(face.Scale) + float64(face.Q)*100
		if score > bestScore {
			bestScore = score
			best = face
		}
	}

	return synthesizeMesh(best, w, h), nil
}

// synthesizeMesh fills the topology slots the normalizer's table reads,
// derived from the detection box: crown above the box top by the skull
// extension, chin at the box bottom, eye row 42% down the box, temples at
// the box's horizontal extremes.
func synthesizeMesh(face pigo.Detection, imgWidth, imgHeight int) *landmarks.Mesh {
	w, h := float64(imgWidth), float64(imgHeight)
	size := float64(face.Scale)
	centerX := float64(face.Col)
	faceTop := float64(face.Row) - size/2

	headTopY := faceTop - size*skullExtensionRatio
	if headTopY < 0 {
		headTopY = 0
	}
	chinY := faceTop + size
	eyeY := faceTop + size*eyeRowRatio
	midY := (headTopY + chinY) / 2

	norm := func(x, y float64) geometry.Point2D {
		return geometry.Point2D{X: x / w, Y: y / h}
	}

	mesh := landmarks.NewMesh()
	mesh.SetPoint(10, norm(centerX, headTopY))     // forehead top
	mesh.SetPoint(152, norm(centerX, chinY))       // chin bottom
	mesh.SetPoint(234, norm(centerX-size/2, midY)) // left temple
	mesh.SetPoint(454, norm(centerX+size/2, midY)) // right temple
	for _, idx := range landmarks.RegionIndexes(landmarks.LeftEyeCenter) {
		mesh.SetPoint(idx, norm(centerX-size*eyeSpanRatio, eyeY))
	}
	for _, idx := range landmarks.RegionIndexes(landmarks.RightEyeCenter) {
		mesh.SetPoint(idx, norm(centerX+size*eyeSpanRatio, eyeY))
	}
	return mesh
}

// grayPixels converts an image to the row-major 8-bit grayscale buffer the
// cascade consumes.
func grayPixels(img image.Image) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma := (299*r + 587*g + 114*b) / 1000
			pixels[y*w+x] = uint8(luma >> 8)
		}
	}
	return pixels
}
