package viz

import (
	"fmt"
	"strings"
)

// Braille patterns give a 2x4 sub-pixel grid per character cell,
// offset from U+2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type canvas struct {
	width, height int
	grid          [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{width: w, height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

// set marks a sub-pixel; the canvas is (width*2) x (height*4) sub-pixels.
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.width || row >= c.height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PhasePlot draws one trajectory component against another on a braille
// canvas, e.g. position versus velocity of an oscillator.
func PhasePlot(xs, ys []float64, width, height int) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return "not enough data for a phase plot"
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = 2 * defaultHeight
	}

	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)
	if xMax == xMin {
		xMax = xMin + 1
	}
	if yMax == yMin {
		yMax = yMin + 1
	}

	c := newCanvas(width, height)
	subW, subH := float64(width*2-1), float64(height*4-1)

	toPixel := func(x, y float64) (int, int) {
		px := int((x - xMin) / (xMax - xMin) * subW)
		// Screen y grows downward.
		py := int((yMax - y) / (yMax - yMin) * subH)
		return px, py
	}

	px0, py0 := toPixel(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		px1, py1 := toPixel(xs[i], ys[i])
		c.line(px0, py0, px1, py1)
		px0, py0 = px1, py1
	}

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteString(SubtleStyle.Render(
		fmt.Sprintf("x ∈ [%.4g, %.4g]  y ∈ [%.4g, %.4g]", xMin, xMax, yMin, yMax)))
	b.WriteByte('\n')
	return b.String()
}

func minMax(v []float64) (float64, float64) {
	lo, hi := v[0], v[0]
	for _, x := range v {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
