package plot

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DrawNameTrend renders a births-per-year bar chart for one name as PNG
// bytes. Years and births must be parallel slices sorted by year.
func DrawNameTrend(title string, years []int, births []float64) ([]byte, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("no data points for %s", title)
	}
	if len(years) != len(births) {
		return nil, fmt.Errorf("years and births length mismatch: %d vs %d", len(years), len(births))
	}

	// Label only every n-th bar, long series crowd the axis otherwise.
	labelEvery := len(years)/25 + 1
	var bars []chart.Value
	for i := range years {
		label := ""
		if i%labelEvery == 0 {
			label = strconv.Itoa(years[i])
		}
		bars = append(bars, chart.Value{
			Value: births[i],
			Label: label,
		})
	}

	graph := chart.BarChart{
		Title: title,
		Background: chart.Style{
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorBlue,
		},
		Height:   1024,
		Width:    2028,
		BarWidth: 30,
		Bars:     bars,
		YAxis: chart.YAxis{
			Name: "Births",
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return fmt.Sprintf("%.0f", vf)
				}
				return ""
			},
		},
	}

	// Add grid lines
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering trend chart: %v", err)
	}
	return buffer.Bytes(), nil
}
