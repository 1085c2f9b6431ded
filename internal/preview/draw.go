package preview

import (
	"image"
	"image/color"
	"math"
)

// drawLine draws a line using Bresenham's algorithm, clipped to bounds.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.Set(x1, y1, c)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawThickLine draws a line with the given thickness.
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, c color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return
	}

	px := -dy / length
	py := dx / length
	halfThick := float64(thickness) / 2

	for t := -halfThick; t <= halfThick; t += 1.0 {
		drawLine(img, int(x1+px*t), int(y1+py*t), int(x2+px*t), int(y2+py*t), c)
	}
}

// drawHorizontalLine draws a horizontal guide of the given width.
func drawHorizontalLine(img *image.RGBA, x1, x2, y, thickness int, c color.RGBA) {
	drawThickLine(img, float64(x1), float64(y), float64(x2), float64(y), thickness, c)
}

// drawDoubleArrow draws a vertical double-arrowed measurement span at
// column x between rows y1 and y2.
func drawDoubleArrow(img *image.RGBA, x, y1, y2, arrowSize, thickness int, c color.RGBA) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}

	drawThickLine(img, float64(x), float64(y1), float64(x), float64(y2), thickness, c)

	half := arrowSize / 2
	// Top arrowhead
	drawThickLine(img, float64(x-half), float64(y1+arrowSize), float64(x), float64(y1), thickness, c)
	drawThickLine(img, float64(x+half), float64(y1+arrowSize), float64(x), float64(y1), thickness, c)
	// Bottom arrowhead
	drawThickLine(img, float64(x-half), float64(y2-arrowSize), float64(x), float64(y2), thickness, c)
	drawThickLine(img, float64(x+half), float64(y2-arrowSize), float64(x), float64(y2), thickness, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
