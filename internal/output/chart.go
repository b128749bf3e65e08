package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fpgo/finplan/internal/ledger"
)

// seriesPalette cycles across accounts.
var seriesPalette = []string{
	"2563eb", // blue-600
	"16a34a", // green-600
	"dc2626", // red-600
	"9333ea", // purple-600
	"ea580c", // orange-600
	"0891b2", // cyan-600
}

// RenderBalanceChart renders the state log as a PNG line chart, one series
// per account. Returns raw PNG bytes.
func RenderBalanceChart(snapshots []ledger.StateSnapshot) ([]byte, error) {
	type points struct {
		x []time.Time
		y []float64
	}
	byAccount := make(map[string]*points)
	var accounts []string
	for _, snap := range snapshots {
		p, ok := byAccount[snap.Account]
		if !ok {
			p = &points{}
			byAccount[snap.Account] = p
			accounts = append(accounts, snap.Account)
		}
		p.x = append(p.x, snap.Date)
		p.y = append(p.y, snap.Balance.InexactFloat64())
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no snapshots to chart")
	}

	var series []chart.Series
	for i, name := range accounts {
		p := byAccount[name]
		if len(p.x) < 2 {
			return nil, fmt.Errorf("account %s has %d data points, need at least 2", name, len(p.x))
		}
		series = append(series, chart.TimeSeries{
			Name: name,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(seriesPalette[i%len(seriesPalette)]),
				StrokeWidth: 2.0,
			},
			XValues: p.x,
			YValues: p.y,
		})
	}

	graph := chart.Chart{
		Title:  "Account Balances",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
