// Package preview renders an annotated proof of a fitted document photo:
// the photo on a white canvas with generous margins, a tiled translucent
// watermark, guide lines at the measured head top, eye level and chin
// rows, and double-arrowed measurement spans with pixel labels.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"idphoto/internal/facefit"
)

// Canvas margin on each side, as a fraction of the photo dimension.
const marginFraction = 0.20

// Watermark tile anchors as fractions of the canvas size.
var watermarkAnchors = [][2]float64{
	{0.25, 0.33}, {0.75, 0.33},
	{0.50, 0.50},
	{0.25, 0.67}, {0.75, 0.67},
	{0.50, 0.80},
}

// Options controls preview rendering. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// WatermarkText is tiled across the canvas. Empty disables the
	// watermark.
	WatermarkText string

	// FontPath points to a TTF/OTF file. When empty or unreadable the
	// renderer falls back to a fixed bitmap face.
	FontPath string

	GuideColor   color.RGBA
	MeasureColor color.RGBA
}

// DefaultOptions returns the conventional proof styling.
func DefaultOptions() Options {
	return Options{
		WatermarkText: "PREVIEW",
		GuideColor:    color.RGBA{R: 220, A: 255},
		MeasureColor:  color.RGBA{B: 200, A: 255},
	}
}

// Render composes the annotated proof image. The photo is the final
// document-sized crop; rows are taken from the achieved measurements in
// res, expressed in photo coordinates.
func Render(photo image.Image, res facefit.Result, opts Options) *image.RGBA {
	pb := photo.Bounds()
	photoW := pb.Dx()
	photoH := pb.Dy()
	marginX := int(float64(photoW) * marginFraction)
	marginY := int(float64(photoH) * marginFraction)

	canvasW := photoW + 2*marginX
	canvasH := photoH + 2*marginY
	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(marginX, marginY, marginX+photoW, marginY+photoH), photo, pb.Min, draw.Src)

	if opts.WatermarkText != "" {
		Watermark(canvas, opts.WatermarkText, opts.FontPath)
	}

	if res.AchievedHeadHeightPx > 0 {
		annotate(canvas, res, opts, marginX, marginY, photoW, photoH)
	}

	return canvas
}

// Watermark tiles translucent text across img in place. The point size
// scales with the image width so the tiles read at any output size.
func Watermark(img *image.RGBA, text, fontPath string) {
	b := img.Bounds()
	face := loadFace(fontPath, float64(b.Dx())*0.05)
	c := color.NRGBA{R: 128, G: 128, B: 128, A: 128}
	for _, a := range watermarkAnchors {
		drawTextCentered(img, face, text,
			b.Min.X+int(a[0]*float64(b.Dx())), b.Min.Y+int(a[1]*float64(b.Dy())), c)
	}
}

// annotate draws the guide lines and measurement spans. Rows outside the
// photo area are skipped rather than clipped; a guide at a clamped
// fallback row would mislead more than it informs.
func annotate(canvas *image.RGBA, res facefit.Result, opts Options, marginX, marginY, photoW, photoH int) {
	headRow := marginY + int(res.AchievedHeadTopFromCropPx)
	eyeRow := marginY + int(res.AchievedEyeFromTopPx)
	chinRow := marginY + int(res.AchievedHeadTopFromCropPx+res.AchievedHeadHeightPx)
	bottomRow := marginY + photoH

	indent := photoW / 10
	x1 := marginX + indent
	x2 := marginX + photoW - indent

	const lineWidth = 2
	const arrowSize = 10

	for _, row := range []int{headRow, eyeRow, chinRow} {
		if row >= marginY && row <= bottomRow {
			drawHorizontalLine(canvas, x1, x2, row, lineWidth, opts.GuideColor)
		}
	}

	face := loadFace(opts.FontPath, float64(canvas.Bounds().Dx())*0.03)
	headX := marginX + photoW + marginX/4
	eyeX := marginX + photoW + (marginX*5)/8

	if headRow >= marginY && chinRow <= bottomRow && chinRow > headRow {
		drawDoubleArrow(canvas, headX, headRow, chinRow, arrowSize, lineWidth, opts.MeasureColor)
		label := fmt.Sprintf("head %dpx", int(res.AchievedHeadHeightPx))
		drawText(canvas, face, label, headX+arrowSize, (headRow+chinRow)/2, opts.MeasureColor)
	}

	if res.AchievedEyeFromBottomPx > 0 && eyeRow >= marginY && eyeRow < bottomRow {
		drawDoubleArrow(canvas, eyeX, eyeRow, bottomRow, arrowSize, lineWidth, opts.MeasureColor)
		label := fmt.Sprintf("eye %dpx", int(res.AchievedEyeFromBottomPx))
		drawText(canvas, face, label, eyeX+arrowSize, (eyeRow+bottomRow)/2, opts.MeasureColor)
	}
}

// loadFace parses an OpenType face at the given point size, falling back
// to a fixed bitmap face when the file is missing or malformed.
func loadFace(path string, size float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func drawText(dst *image.RGBA, face font.Face, s string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawTextCentered(dst *image.RGBA, face font.Face, s string, cx, cy int, c color.Color) {
	w := font.MeasureString(face, s)
	drawText(dst, face, s, cx-w.Round()/2, cy, c)
}
