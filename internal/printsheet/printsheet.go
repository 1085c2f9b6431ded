// Package printsheet composes multiple copies of a finished document
// photo onto a standard 4x6 inch print sheet, with the copies spaced by
// uniform margins.
package printsheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"idphoto/internal/preview"
)

// Standard photo print stock, portrait orientation.
const (
	SheetWidthIn  = 4.0
	SheetHeightIn = 6.0
)

// Layout describes the grid of copies on the sheet. PhotoWidthPx and
// PhotoHeightPx are the document photo dimensions; the source image is
// resampled to them when it arrives at a different size.
type Layout struct {
	DPI  int
	Rows int
	Cols int

	PhotoWidthPx  int
	PhotoHeightPx int
}

// DefaultLayout returns the conventional two-by-two grid.
func DefaultLayout(photoWidthPx, photoHeightPx, dpi int) Layout {
	return Layout{
		DPI:           dpi,
		Rows:          2,
		Cols:          2,
		PhotoWidthPx:  photoWidthPx,
		PhotoHeightPx: photoHeightPx,
	}
}

// AutoFit returns the densest grid whose copies fit the sheet with
// non-negative margins.
func AutoFit(photoWidthPx, photoHeightPx, dpi int) (Layout, error) {
	l := Layout{
		DPI:           dpi,
		PhotoWidthPx:  photoWidthPx,
		PhotoHeightPx: photoHeightPx,
	}
	sheetW, sheetH := l.sheetSize()
	if photoWidthPx <= 0 || photoHeightPx <= 0 {
		return Layout{}, fmt.Errorf("printsheet: invalid photo size %dx%d", photoWidthPx, photoHeightPx)
	}
	l.Cols = sheetW / photoWidthPx
	l.Rows = sheetH / photoHeightPx
	if l.Cols == 0 || l.Rows == 0 {
		return Layout{}, fmt.Errorf("printsheet: photo %dx%d px does not fit a %gx%g in sheet at %d dpi",
			photoWidthPx, photoHeightPx, SheetWidthIn, SheetHeightIn, dpi)
	}
	return l, nil
}

func (l Layout) sheetSize() (int, int) {
	return int(SheetWidthIn * float64(l.DPI)), int(SheetHeightIn * float64(l.DPI))
}

// margins returns the uniform horizontal and vertical gaps. There are
// n+1 gaps per axis for n copies, one on each edge and one between
// every pair.
func (l Layout) margins() (int, int, error) {
	sheetW, sheetH := l.sheetSize()
	mx := (sheetW - l.Cols*l.PhotoWidthPx) / (l.Cols + 1)
	my := (sheetH - l.Rows*l.PhotoHeightPx) / (l.Rows + 1)
	if mx < 0 || my < 0 {
		return 0, 0, fmt.Errorf("printsheet: %dx%d grid of %dx%d px photos overflows the sheet",
			l.Rows, l.Cols, l.PhotoWidthPx, l.PhotoHeightPx)
	}
	return mx, my, nil
}

// Compose lays out the copies on a white sheet.
func Compose(photo image.Image, l Layout) (*image.NRGBA, error) {
	return compose(photo, l, "", "")
}

// ComposePreview lays out watermarked copies. Each copy carries the
// watermark so no crop of the sheet yields a clean photo.
func ComposePreview(photo image.Image, l Layout, watermarkText, fontPath string) (*image.NRGBA, error) {
	if watermarkText == "" {
		watermarkText = "PREVIEW"
	}
	return compose(photo, l, watermarkText, fontPath)
}

func compose(photo image.Image, l Layout, watermarkText, fontPath string) (*image.NRGBA, error) {
	if l.Rows <= 0 || l.Cols <= 0 {
		return nil, fmt.Errorf("printsheet: invalid grid %dx%d", l.Rows, l.Cols)
	}
	mx, my, err := l.margins()
	if err != nil {
		return nil, err
	}

	b := photo.Bounds()
	if b.Dx() != l.PhotoWidthPx || b.Dy() != l.PhotoHeightPx {
		photo = imaging.Resize(photo, l.PhotoWidthPx, l.PhotoHeightPx, imaging.Lanczos)
	}

	if watermarkText != "" {
		marked := image.NewRGBA(image.Rect(0, 0, l.PhotoWidthPx, l.PhotoHeightPx))
		draw.Draw(marked, marked.Bounds(), photo, photo.Bounds().Min, draw.Src)
		preview.Watermark(marked, watermarkText, fontPath)
		photo = marked
	}

	sheetW, sheetH := l.sheetSize()
	canvas := imaging.New(sheetW, sheetH, color.White)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			x := mx + col*(l.PhotoWidthPx+mx)
			y := my + row*(l.PhotoHeightPx+my)
			canvas = imaging.Paste(canvas, photo, image.Pt(x, y))
		}
	}
	return canvas, nil
}
