// Package mask provides the read-only foreground/background plane produced
// by an external segmentation model. Values greater than zero are foreground.
package mask

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
)

// Mask is a row-major byte plane in the source image's pixel space.
// It is read-only after construction and safe to share across calls.
type Mask struct {
	width  int
	height int
	data   []byte
}

// New wraps raw row-major bytes as a mask. The slice is retained, not copied.
func New(width, height int, data []byte) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask dimensions %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("mask data length %d does not match %dx%d", len(data), width, height)
	}
	return &Mask{width: width, height: height, data: data}, nil
}

// FromImage converts an image to a mask using its luma channel. Alpha-only
// segmentation output works as well since fully transparent pixels decode
// to zero luma.
func FromImage(img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]byte, w*h)
	gray, isGray := img.(*image.Gray)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isGray {
				data[y*w+x] = gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
				continue
			}
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels scaled to 8-bit
			luma := (299*r + 587*g + 114*b) / 1000
			data[y*w+x] = byte(luma >> 8)
		}
	}
	m, _ := New(w, h, data)
	return m
}

// LoadPNG reads a segmentation sidecar file.
func LoadPNG(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask: %w", err)
	}
	return FromImage(img), nil
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// ForegroundAt reports whether the pixel at (x, y) is foreground.
// Out-of-range coordinates are background.
func (m *Mask) ForegroundAt(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.data[y*m.width+x] > 0
}

// TopmostForeground scans rows top-down inside the window
// [x0, x1) × [y0, y1) and returns the first row containing a foreground
// pixel. The window is intersected with the mask bounds first.
func (m *Mask) TopmostForeground(x0, x1, y0, y1 int) (int, bool) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > m.width {
		x1 = m.width
	}
	if y1 > m.height {
		y1 = m.height
	}
	for y := y0; y < y1; y++ {
		row := m.data[y*m.width : y*m.width+m.width]
		for x := x0; x < x1; x++ {
			if row[x] > 0 {
				return y, true
			}
		}
	}
	return 0, false
}
