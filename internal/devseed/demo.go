package devseed

import (
	"context"
	"fmt"
	"time"

	"github.com/target/bizportal/internal/domain/dashboard"
	"github.com/target/bizportal/internal/ports"
)

// DemoStatsSource serves a fixed dataset for showcasing the dashboard.
type DemoStatsSource struct{}

var _ ports.StatsSource = DemoStatsSource{}

var demoCards = []dashboard.StatsCard{
	{Title: "Tổng yêu cầu", Value: 700, Increase: "+20.1%", Icon: "message-square", IconColor: "text-blue-500"},
	{Title: "Khảo sát thành công", Value: 520, Increase: "+10.1%", Icon: "clipboard-check", IconColor: "text-green-500"},
	{Title: "Dự án thành công", Value: 300, Increase: "+12.2%", Icon: "briefcase", IconColor: "text-red-500"},
}

// client, manager, area manager, staff per month starting in January.
var demoMonths = [12][4]int64{
	{15000, 16000, 12000, 11000},
	{17500, 18500, 14000, 13000},
	{16800, 17800, 13500, 12500},
	{19200, 20200, 15000, 14000},
	{22000, 23000, 18000, 16000},
	{21500, 22500, 17500, 15500},
	{23000, 24000, 19000, 17000},
	{25000, 26000, 20000, 18000},
	{24500, 25500, 19500, 17500},
	{26000, 27000, 21000, 19000},
	{27500, 28500, 22000, 20000},
	{28000, 29000, 23000, 21000},
}

// StatsCards returns a copy of the demo cards.
func (DemoStatsSource) StatsCards(context.Context, time.Time) ([]dashboard.StatsCard, error) {
	out := make([]dashboard.StatsCard, len(demoCards))
	copy(out, demoCards)
	return out, nil
}

// UsersGrowth returns the demo series dated within year.
func (DemoStatsSource) UsersGrowth(_ context.Context, year int) ([]dashboard.ChartPoint, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year out of range: %d", year)
	}
	points := make([]dashboard.ChartPoint, len(demoMonths))
	for i, m := range demoMonths {
		points[i] = dashboard.ChartPoint{
			Date:        fmt.Sprintf("%04d-%02d-01", year, i+1),
			Client:      m[0],
			Manager:     m[1],
			AreaManager: m[2],
			Staff:       m[3],
		}
	}
	return points, nil
}
