// Package filters translates the dashboard's human-readable filter labels
// into the values the upstream analytics API understands.
package filters

import (
	"time"

	"restrolytics-backend/internal/models"
)

const (
	// DefaultDateRange is the unselected date-range sentinel shown in the UI.
	DefaultDateRange  = "Date range"
	DefaultRestaurant = "All Restaurants"
	DefaultHourRange  = "0-23"
)

// DateBounds is a resolved from/to calendar date pair. The zero value
// means no date filter.
type DateBounds struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// AmountBounds is a currency bucket in rupees.
type AmountBounds struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// HourBounds is an hour-of-day window as HH:MM strings.
type HourBounds struct {
	Min   string `json:"min"`
	Max   string `json:"max"`
	Label string `json:"label"`
}

// dateRangeDays maps each predefined range to how many days back "from"
// reaches. Bounds are computed relative to now at call time.
var dateRangeDays = map[string]int{
	"Today":         0,
	"Last 7 days":   7,
	"Last 30 days":  30,
	"Last 3 months": 90,
	"Last 6 months": 180,
	"Last year":     365,
}

var amountRangeMappings = map[string]AmountBounds{
	"₹100-₹200": {Min: 100, Max: 200, Label: "₹100-₹200"},
	"₹200-₹500": {Min: 200, Max: 500, Label: "₹200-₹500"},
	"₹500-₹700": {Min: 500, Max: 700, Label: "₹500-₹700"},
	"₹700-₹1k":  {Min: 700, Max: 1000, Label: "₹700-₹1k"},
}

var hourRangeMappings = map[string]HourBounds{
	"0-23":               {Min: "00:00", Max: "23:59", Label: "0-23 (All day)"},
	"6-10 (Breakfast)":   {Min: "06:00", Max: "10:00", Label: "6-10 (Breakfast)"},
	"10-15 (Lunch)":      {Min: "10:00", Max: "15:00", Label: "10-15 (Lunch)"},
	"15-19 (Dinner)":     {Min: "15:00", Max: "19:00", Label: "15-19 (Dinner)"},
	"19-23 (Late Night)": {Min: "19:00", Max: "23:00", Label: "19-23 (Late Night)"},
	"0-6 (Night)":        {Min: "00:00", Max: "06:00", Label: "0-6 (Night)"},
	"6-12 (Morning)":     {Min: "06:00", Max: "12:00", Label: "6-12 (Morning)"},
	"12-18 (Afternoon)":  {Min: "12:00", Max: "18:00", Label: "12-18 (Afternoon)"},
	"18-24 (Evening)":    {Min: "18:00", Max: "23:59", Label: "18-24 (Evening)"},
}

// DefaultFilters returns the baseline filter selection. AmountRange has
// no default, it starts unset.
func DefaultFilters() models.Filters {
	return models.Filters{
		DateRange:  DefaultDateRange,
		Restaurant: DefaultRestaurant,
		HourRange:  DefaultHourRange,
	}
}

// FilterOptions lists the selectable values per filter, in display order.
func FilterOptions() map[string][]string {
	return map[string][]string{
		"dateRange": {
			"Today",
			"Last 7 days",
			"Last 30 days",
			"Last 3 months",
			"Last 6 months",
			"Last year",
			"Custom range",
		},
		"amountRange": {
			"₹100-₹200",
			"₹200-₹500",
			"₹500-₹700",
			"₹700-₹1k",
		},
		"hourRange": {
			"6-10 (Breakfast)",
			"10-15 (Lunch)",
			"15-19 (Dinner)",
			"19-23 (Late Night)",
			"0-6 (Night)",
			"6-12 (Morning)",
			"12-18 (Afternoon)",
			"18-24 (Evening)",
			"0-23",
		},
	}
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MapDateRangeToAPI resolves a date-range label to concrete bounds.
// Custom dates, when both are present, win over the predefined table even
// if the label names a preset. The default sentinel and unknown labels
// resolve to no bounds.
func MapDateRangeToAPI(dateRange, customFrom, customTo string) DateBounds {
	if dateRange == "" || dateRange == DefaultDateRange {
		return DateBounds{}
	}

	if customFrom != "" && customTo != "" {
		return DateBounds{From: customFrom, To: customTo}
	}

	if days, ok := dateRangeDays[dateRange]; ok {
		now := nowFunc()
		return DateBounds{
			From: isoDate(now.Add(-time.Duration(days) * 24 * time.Hour)),
			To:   isoDate(now),
		}
	}

	return DateBounds{}
}

// MapAmountRangeToValues resolves an amount bucket label. nil means no
// amount filter; callers must not treat it as a zero bound.
func MapAmountRangeToValues(amountRange string) *AmountBounds {
	if b, ok := amountRangeMappings[amountRange]; ok {
		return &b
	}
	return nil
}

// MapHourRangeToValues resolves an hour bucket label. Unlike amount
// mapping it never signals "no filter": unknown or absent labels fall
// back to the full-day window.
func MapHourRangeToValues(hourRange string) HourBounds {
	if b, ok := hourRangeMappings[hourRange]; ok {
		return b
	}
	return HourBounds{Min: "00:00", Max: "23:59"}
}

func defaultFor(filterType string) (string, bool) {
	switch filterType {
	case "dateRange":
		return DefaultDateRange, true
	case "restaurant":
		return DefaultRestaurant, true
	case "amountRange":
		return "", true
	case "hourRange":
		return DefaultHourRange, true
	}
	return "", false
}

// IsDefaultFilter reports whether value is the default for filterType.
func IsDefaultFilter(filterType, value string) bool {
	def, ok := defaultFor(filterType)
	return ok && value == def
}

// NonDefaultFilters returns the filters that differ from their own default.
func NonDefaultFilters(f models.Filters) map[string]string {
	active := make(map[string]string)
	for key, value := range map[string]string{
		"dateRange":   f.DateRange,
		"restaurant":  f.Restaurant,
		"amountRange": f.AmountRange,
		"hourRange":   f.HourRange,
	} {
		if !IsDefaultFilter(key, value) {
			active[key] = value
		}
	}
	return active
}

// HasActiveFilters reports whether any filter value falls outside the set
// of all default values. The check is deliberately coarse: a value equal
// to any field's default counts as inactive, so e.g. an hour range set to
// the literal string "All Restaurants" would be misclassified. Kept as-is
// for parity with the dashboard's behavior.
func HasActiveFilters(f models.Filters) bool {
	defaults := map[string]bool{
		DefaultDateRange:  true,
		DefaultRestaurant: true,
		"":                true,
		DefaultHourRange:  true,
	}
	for _, value := range []string{
		f.DateRange, f.Restaurant, f.AmountRange, f.HourRange,
		f.CustomFromDate, f.CustomToDate,
	} {
		if !defaults[value] {
			return true
		}
	}
	return false
}

// FilterRestaurantsByAmount narrows top-restaurant rows to the selected
// amount bucket using their lifetime order sum. A zero Max means the
// bucket is open-ended.
func FilterRestaurantsByAmount(restaurants []models.TopRestaurant, amountRange string) []models.TopRestaurant {
	bounds := MapAmountRangeToValues(amountRange)
	if bounds == nil {
		return restaurants
	}

	filtered := make([]models.TopRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		amount := r.OrdersSumOrderAmount
		if bounds.Max == 0 {
			if amount >= bounds.Min {
				filtered = append(filtered, r)
			}
			continue
		}
		if amount >= bounds.Min && amount <= bounds.Max {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
