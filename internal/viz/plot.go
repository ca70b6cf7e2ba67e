// Package viz renders solver output as terminal charts.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odelab/internal/solver"
)

const (
	defaultWidth  = 80
	defaultHeight = 12
	maxComponents = 6
)

// Line renders one series as an ascii chart with a caption.
func Line(data []float64, caption string) string {
	if len(data) < 2 {
		return "not enough data to plot"
	}
	return asciigraph.Plot(downsample(data, 400),
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.Caption(caption),
	)
}

// PlotSolution renders a scalar trajectory, headed by equation and method.
func PlotSolution(equation string, sol *solver.Solution) string {
	if !sol.Success {
		return ErrorStyle.Render("solve failed: " + sol.Error)
	}

	data := make([]float64, len(sol.Points))
	for i, p := range sol.Points {
		data[i] = p.Y
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("dy/dt = %s", equation)))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s, %d points, t ∈ [%g, %g]",
		sol.Method, sol.Meta.PointCount, sol.Meta.T0, sol.Meta.TEnd)))
	b.WriteString("\n\n")
	b.WriteString(Line(data, fmt.Sprintf("y(t), range [%.4g, %.4g]", sol.Meta.YMin, sol.Meta.YMax)))
	b.WriteString("\n")
	return b.String()
}

// PlotSystem renders each state component of a coupled trajectory as its
// own chart, capped at six components.
func PlotSystem(equations []string, sol *solver.SystemSolution) string {
	if !sol.Success {
		return ErrorStyle.Render("solve failed: " + sol.Error)
	}
	if len(sol.Points) == 0 {
		return "no data to plot"
	}

	var b strings.Builder
	for i, eq := range equations {
		b.WriteString(TitleStyle.Render(fmt.Sprintf("dy%d/dt = %s", i+1, eq)))
		b.WriteString("\n")
	}
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s, %d points, t ∈ [%g, %g]",
		sol.Method, sol.Meta.PointCount, sol.Meta.T0, sol.Meta.TEnd)))
	b.WriteString("\n\n")

	n := len(sol.Points[0].Y)
	if n > maxComponents {
		n = maxComponents
	}
	for i := 0; i < n; i++ {
		data := make([]float64, len(sol.Points))
		for j, p := range sol.Points {
			data[j] = p.Y[i]
		}
		b.WriteString(Line(data, fmt.Sprintf("y%d(t), range [%.4g, %.4g]",
			i+1, sol.Meta.YRanges[i][0], sol.Meta.YRanges[i][1])))
		b.WriteString("\n\n")
	}
	return b.String()
}

// downsample thins a long series so chart width stays readable; asciigraph
// plots one column per sample.
func downsample(data []float64, maxSamples int) []float64 {
	if len(data) <= maxSamples {
		return data
	}
	out := make([]float64, maxSamples)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(maxSamples-1)]
	}
	return out
}
