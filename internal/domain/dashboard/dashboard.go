// Package dashboard contains the display models behind the portal's home
// widgets: stats cards, the users growth chart, and section headings.
package dashboard

import (
	"fmt"
	"math"
	"time"
)

// StatsCard is a single headline metric.
type StatsCard struct {
	Title     string `json:"title"`
	Value     int64  `json:"value"`
	Increase  string `json:"increase"`
	Icon      string `json:"icon"`
	IconColor string `json:"icon_color"`
}

// Caption is the line rendered under the value.
func (c StatsCard) Caption() string {
	return c.Increase + " from last month"
}

// IconClass maps the card's icon name and color to CSS classes.
func (c StatsCard) IconClass() string {
	name, ok := iconClasses[c.Icon]
	if !ok {
		name = "icon-generic"
	}
	if c.IconColor == "" {
		return "icon " + name
	}
	return "icon " + name + " " + c.IconColor
}

var iconClasses = map[string]string{
	"message-square":  "icon-message-square",
	"clipboard-check": "icon-clipboard-check",
	"briefcase":       "icon-briefcase",
	"users":           "icon-users",
}

// PercentChange formats the month-over-month change as "+20.1%".
// A zero previous value reports "+0%" unless current is also zero.
func PercentChange(current, previous int64) string {
	if previous == 0 {
		if current == 0 {
			return "+0%"
		}
		return "+100%"
	}
	pct := float64(current-previous) / float64(previous) * 100
	pct = math.Round(pct*10) / 10
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// Series keys for the users chart.
const (
	SeriesStats       = "stats"
	SeriesClient      = "client"
	SeriesManager     = "manager"
	SeriesAreaManager = "area_Manager"
	SeriesStaff       = "staff"
)

// ChartSeries lists the selectable series in display order.
func ChartSeries() []string {
	return []string{SeriesClient, SeriesManager, SeriesAreaManager, SeriesStaff}
}

// SeriesConfig controls how one series is drawn.
type SeriesConfig struct {
	Label     string `json:"label"`
	Color     string `json:"color"`
	FillColor string `json:"fillColor"`
}

// DefaultChartConfig returns the stock series palette.
func DefaultChartConfig() map[string]SeriesConfig {
	return map[string]SeriesConfig{
		SeriesStats:       {Label: "Statistics", Color: "#9E9E9E", FillColor: "#9E9E9E20"},
		SeriesClient:      {Label: "Clients", Color: "#4CAF50", FillColor: "#4CAF5020"},
		SeriesManager:     {Label: "Managers", Color: "#2196F3", FillColor: "#2196F320"},
		SeriesAreaManager: {Label: "Area Managers", Color: "#FFC107", FillColor: "#FFC10720"},
		SeriesStaff:       {Label: "Staff", Color: "#FF5722", FillColor: "#FF572220"},
	}
}

// ChartPoint is one month of user counts.
type ChartPoint struct {
	Date        string `json:"date"`
	Client      int64  `json:"client"`
	Manager     int64  `json:"manager"`
	AreaManager int64  `json:"area_Manager"`
	Staff       int64  `json:"staff"`
}

// Value returns the count for a series key.
func (p ChartPoint) Value(series string) int64 {
	switch series {
	case SeriesClient:
		return p.Client
	case SeriesManager:
		return p.Manager
	case SeriesAreaManager:
		return p.AreaManager
	case SeriesStaff:
		return p.Staff
	default:
		return 0
	}
}

// MonthLabel renders the point's month as "Jan".
func (p ChartPoint) MonthLabel() string {
	t, err := time.Parse(time.DateOnly, p.Date)
	if err != nil {
		return p.Date
	}
	return t.Format("Jan")
}

// UsersChart is the users growth widget payload.
type UsersChart struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Active      string                  `json:"active"`
	Points      []ChartPoint            `json:"points"`
	Config      map[string]SeriesConfig `json:"config"`
	Totals      map[string]int64        `json:"totals"`
}

// NewUsersChart assembles the widget and computes per-series totals.
// An unknown active series falls back to clients.
func NewUsersChart(points []ChartPoint, active string) UsersChart {
	valid := false
	for _, s := range ChartSeries() {
		if s == active {
			valid = true
			break
		}
	}
	if !valid {
		active = SeriesClient
	}
	return UsersChart{
		Title:       "Users Growth",
		Description: "Monthly users growth trend for the year",
		Active:      active,
		Points:      points,
		Config:      DefaultChartConfig(),
		Totals:      Totals(points),
	}
}

// Totals sums every series across points.
func Totals(points []ChartPoint) map[string]int64 {
	totals := make(map[string]int64, 4)
	for _, s := range ChartSeries() {
		totals[s] = 0
	}
	for _, p := range points {
		for _, s := range ChartSeries() {
			totals[s] += p.Value(s)
		}
	}
	return totals
}

// Overview bundles everything the dashboard page shows.
type Overview struct {
	Cards []StatsCard `json:"cards"`
	Chart UsersChart  `json:"chart"`
}
