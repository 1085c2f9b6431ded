package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"gocv.io/x/gocv"

	"idphoto/internal/facefit"
)

// ExecuteCrop renders the final document photo: scale the source by the
// fit's scale factor with bilinear resampling, slice the crop rectangle,
// and letterbox onto white when the scaled image cannot cover the full
// target. The output always has exactly the crop's dimensions.
func ExecuteCrop(src image.Image, res facefit.Result) (*image.RGBA, error) {
	targetW := res.CropWidth()
	targetH := res.CropHeight()
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("crop: invalid target size %dx%d", targetW, targetH)
	}

	b := src.Bounds()
	scaledW := int(math.Round(float64(b.Dx()) * res.ScaleFactor))
	scaledH := int(math.Round(float64(b.Dy()) * res.ScaleFactor))
	if scaledW <= 0 || scaledH <= 0 {
		return nil, fmt.Errorf("crop: scale factor %v collapses a %dx%d image", res.ScaleFactor, b.Dx(), b.Dy())
	}

	mat := imageToMat(src)
	defer mat.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(mat, &scaled, image.Pt(scaledW, scaledH), 0, 0, gocv.InterpolationLinear)

	rect := image.Rect(res.CropLeft, res.CropTop, res.CropRight, res.CropBottom).
		Intersect(image.Rect(0, 0, scaledW, scaledH))
	if rect.Empty() {
		return nil, fmt.Errorf("crop: rectangle %v outside scaled bounds %dx%d", rect, scaledW, scaledH)
	}

	region := scaled.Region(rect)
	defer region.Close()
	slice := matToImage(region)

	if rect.Dx() == targetW && rect.Dy() == targetH {
		return slice, nil
	}

	// Boundary-clamp overflow: center what we have on a white canvas.
	canvas := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	offset := image.Pt((targetW-rect.Dx())/2, (targetH-rect.Dy())/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(rect.Size())}, slice, image.Point{}, draw.Src)
	return canvas, nil
}

// imageToMat converts a Go image to a BGR Mat.
func imageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}

// matToImage converts a BGR Mat, view or owned, back to RGBA.
func matToImage(mat gocv.Mat) *image.RGBA {
	rows, cols := mat.Rows(), mat.Cols()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: mat.GetUCharAt(y, x*3+2),
				G: mat.GetUCharAt(y, x*3+1),
				B: mat.GetUCharAt(y, x*3+0),
				A: 255,
			})
		}
	}
	return img
}
