package analysis

import (
	"math"

	"adspend/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// ScatterSpec names the fields feeding a scatter chart. Color, Label and Size are optional.
type ScatterSpec struct {
	X     string
	Y     string
	Color string
	Label string
	Size  string
}

// ScatterPoint is one plotted row
type ScatterPoint struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Color string   `json:"color,omitempty"`
	Label string   `json:"label,omitempty"`
	Size  *float64 `json:"size,omitempty"`
}

// TrendLine is the least-squares fit y = Intercept + Slope*x over the plotted points
type TrendLine struct {
	Intercept   float64  `json:"intercept"`
	Slope       float64  `json:"slope"`
	Correlation *float64 `json:"correlation,omitempty"` // nil when y is constant
	Points      int      `json:"points"`
}

// ScatterPoints keeps rows where both X and Y are present
func ScatterPoints(ds *dataset.Dataset, spec ScatterSpec) []ScatterPoint {
	xPos, yPos := ds.Index(spec.X), ds.Index(spec.Y)
	if xPos < 0 || yPos < 0 {
		return nil
	}
	colorPos, labelPos, sizePos := ds.Index(spec.Color), ds.Index(spec.Label), ds.Index(spec.Size)

	points := make([]ScatterPoint, 0, ds.Len())
	for _, row := range ds.Rows {
		x, y := row[xPos], row[yPos]
		if x.IsMissing() || y.IsMissing() {
			continue
		}
		p := ScatterPoint{X: x.Num, Y: y.Num}
		if colorPos >= 0 {
			p.Color = row[colorPos].Text
		}
		if labelPos >= 0 {
			p.Label = row[labelPos].Text
		}
		if sizePos >= 0 && !row[sizePos].IsMissing() {
			size := row[sizePos].Num
			p.Size = &size
		}
		points = append(points, p)
	}
	return points
}

// Trend fits a line through the points. ok is false with fewer than two distinct x values.
func Trend(points []ScatterPoint) (TrendLine, bool) {
	if len(points) < 2 {
		return TrendLine{}, false
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	if stat.Variance(xs, nil) == 0 {
		return TrendLine{}, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	line := TrendLine{Intercept: alpha, Slope: beta, Points: len(points)}
	if r := stat.Correlation(xs, ys, nil); !math.IsNaN(r) {
		line.Correlation = &r
	}
	return line, true
}
