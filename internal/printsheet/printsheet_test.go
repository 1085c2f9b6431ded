package printsheet

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestComposeGrid(t *testing.T) {
	// 600x600 px photos on a 4x6in sheet at 300 dpi: sheet 1200x1800,
	// margins (1200-1200)/3 = 0 horizontal, (1800-1200)/3 = 200 vertical.
	photo := solid(600, 600, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	l := DefaultLayout(600, 600, 300)

	sheet, err := Compose(photo, l)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := sheet.Bounds().Dx(), 1200; got != want {
		t.Errorf("sheet width = %d, want %d", got, want)
	}
	if got, want := sheet.Bounds().Dy(), 1800; got != want {
		t.Errorf("sheet height = %d, want %d", got, want)
	}

	// Photo cells.
	for _, pt := range []image.Point{{300, 500}, {900, 500}, {300, 1300}, {900, 1300}} {
		if got := sheet.NRGBAAt(pt.X, pt.Y); got.R != 10 || got.G != 20 || got.B != 30 {
			t.Errorf("cell pixel at %v = %v, want photo color", pt, got)
		}
	}

	// Margin rows stay white.
	for _, pt := range []image.Point{{600, 100}, {600, 900}, {600, 1700}} {
		if got := sheet.NRGBAAt(pt.X, pt.Y); got != (color.NRGBA{255, 255, 255, 255}) {
			t.Errorf("margin pixel at %v = %v, want white", pt, got)
		}
	}
}

func TestComposeResamplesOddSize(t *testing.T) {
	photo := solid(400, 400, color.RGBA{R: 50, G: 50, B: 50, A: 255})
	l := DefaultLayout(600, 600, 300)

	sheet, err := Compose(photo, l)
	if err != nil {
		t.Fatal(err)
	}
	if got := sheet.NRGBAAt(300, 500); got.R != 50 {
		t.Errorf("resampled cell pixel = %v, want photo gray", got)
	}
}

func TestComposePreviewMarksEveryCopy(t *testing.T) {
	photo := solid(600, 600, color.White)
	l := DefaultLayout(600, 600, 300)

	sheet, err := ComposePreview(photo, l, "PREVIEW", "")
	if err != nil {
		t.Fatal(err)
	}

	cells := []image.Rectangle{
		image.Rect(0, 200, 600, 800),
		image.Rect(600, 200, 1200, 800),
		image.Rect(0, 1000, 600, 1600),
		image.Rect(600, 1000, 1200, 1600),
	}
	for i, cell := range cells {
		marked := false
		for y := cell.Min.Y; y < cell.Max.Y && !marked; y++ {
			for x := cell.Min.X; x < cell.Max.X; x++ {
				if sheet.NRGBAAt(x, y) != (color.NRGBA{255, 255, 255, 255}) {
					marked = true
					break
				}
			}
		}
		if !marked {
			t.Errorf("copy %d carries no watermark", i)
		}
	}
}

func TestComposeOverflow(t *testing.T) {
	photo := solid(700, 700, color.White)
	l := DefaultLayout(700, 700, 300)
	if _, err := Compose(photo, l); err == nil {
		t.Error("expected overflow error for 2x2 grid of 700px photos on a 1200px sheet")
	}
}

func TestAutoFit(t *testing.T) {
	l, err := AutoFit(590, 590, 300)
	if err != nil {
		t.Fatal(err)
	}
	if l.Cols != 2 || l.Rows != 3 {
		t.Errorf("grid = %dx%d, want 3x2", l.Rows, l.Cols)
	}

	if _, err := AutoFit(1300, 600, 300); err == nil {
		t.Error("expected error for photo wider than the sheet")
	}
}
