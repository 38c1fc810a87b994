package tui

import (
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"

	"github.com/cattrack/cattrack/internal/database/repository"
)

const (
	chartHeight   = 8
	minChartWidth = 30
	maxChartWidth = 80
)

func chartWidth(width int) int {
	if width > maxChartWidth {
		return maxChartWidth
	}
	return width
}

// spendChart plots daily spend in dollars. It is empty when there is nothing
// worth drawing or no room for it.
func spendChart(days []repository.DayTotal, width int) string {
	if len(days) < 2 || width < minChartWidth {
		return ""
	}
	var top int64
	for _, d := range days {
		if d.SpendCents > top {
			top = d.SpendCents
		}
	}
	if top == 0 {
		return ""
	}

	start, end := days[0].Day, days[len(days)-1].Day
	chart := tslc.New(width, chartHeight)
	chart.SetStyle(chartStyle)
	chart.AxisStyle = axisStyle
	chart.LabelStyle = axisStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, float64(top)/100)
	chart.SetViewYRange(0, float64(top)/100)
	for _, d := range days {
		chart.Push(tslc.TimePoint{Time: d.Day, Value: float64(d.SpendCents) / 100})
	}
	chart.DrawBraille()
	return chart.View()
}
