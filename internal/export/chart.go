package export

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/natacion/clubmanager/internal/services"
)

var (
	barColor  = drawing.ColorFromHex("1f77b4")
	textColor = drawing.ColorFromHex("333333")
)

// PointsChart renders club points as a PNG bar chart, one bar per club.
func PointsChart(scores []services.ClubScore) ([]byte, error) {
	bars := make([]chart.Value, 0, len(scores))
	top := 0.0
	for _, s := range scores {
		bars = append(bars, chart.Value{
			Label: s.Name,
			Value: s.Points,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
		top = max(top, s.Points)
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "No clubs", Value: 0})
	}
	if top <= 0 {
		// go-chart refuses a zero-height range.
		top = 1
	}

	graph := chart.BarChart{
		Title:      "Club points",
		TitleStyle: chart.Style{FontColor: textColor},
		Width:      max(600, 80*len(bars)+160),
		Height:     420,
		BarWidth:   48,
		BarSpacing: 24,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
