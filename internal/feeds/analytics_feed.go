package feeds

import (
	"context"
	"sync"

	"restrolytics-backend/internal/models"
)

// AnalyticsFeed coordinates the two independent analytics fetches, trends
// and top-restaurants, each with its own loading flag and parameter
// snapshot. The two responses are genuinely different upstream
// computations and are never merged into one record.
type AnalyticsFeed struct {
	mu      sync.Mutex
	service AnalyticsClient

	trends       []models.RestaurantTrend
	top          []models.TopRestaurant
	trendsState  State
	topState     State
	errMsg       string
	lastTrends   string
	lastTop      string
}

func NewAnalyticsFeed(service AnalyticsClient) *AnalyticsFeed {
	return &AnalyticsFeed{
		service:     service,
		trendsState: StateIdle,
		topState:    StateIdle,
	}
}

// Ensure refetches whichever of the two datasets has a parameter snapshot
// differing from its last fetched one. The first call always fetches. The
// snapshot is claimed before the request goes out, so concurrent callers
// with the same snapshot are suppressed; there is no cancellation of an
// in-flight request whose parameters were superseded, the last response
// to resolve wins.
func (f *AnalyticsFeed) Ensure(ctx context.Context, trendsParams models.TrendsParams, topParams models.TopRestaurantsParams) {
	trendsSnap := snapshotOf(trendsParams)
	topSnap := snapshotOf(topParams)

	f.mu.Lock()
	fetchTrends := trendsSnap != f.lastTrends && f.trendsState != StateLoading
	fetchTop := topSnap != f.lastTop && f.topState != StateLoading
	if fetchTrends {
		f.trendsState = StateLoading
		f.lastTrends = trendsSnap
	}
	if fetchTop {
		f.topState = StateLoading
		f.lastTop = topSnap
	}
	f.mu.Unlock()

	if fetchTrends {
		trends, err := f.service.GetRestaurantTrends(ctx, trendsParams)
		f.mu.Lock()
		if err != nil {
			f.trendsState = StateError
			f.errMsg = err.Error()
		} else {
			f.trends = trends
			f.trendsState = StateSuccess
			f.errMsg = ""
		}
		f.mu.Unlock()
	}

	if fetchTop {
		top, err := f.service.GetTopRestaurants(ctx, topParams)
		f.mu.Lock()
		if err != nil {
			f.topState = StateError
			f.errMsg = err.Error()
		} else {
			f.top = top
			f.topState = StateSuccess
		}
		f.mu.Unlock()
	}
}

// States returns the independent trends and top-restaurants states plus
// the most recent error message.
func (f *AnalyticsFeed) States() (trends State, top State, errMsg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trendsState, f.topState, f.errMsg
}

// TrendsData returns the raw trends rows.
func (f *AnalyticsFeed) TrendsData() []models.RestaurantTrend {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RestaurantTrend, len(f.trends))
	copy(out, f.trends)
	return out
}

// TopData returns the raw top-restaurants rows.
func (f *AnalyticsFeed) TopData() []models.TopRestaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TopRestaurant, len(f.top))
	copy(out, f.top)
	return out
}

// Computed derives the dashboard aggregate from the raw responses: daily
// buckets summed into per-restaurant and grand totals, average order value
// guarded against division by zero, and top performers taken straight from
// the top-restaurants response.
func (f *AnalyticsFeed) Computed() models.ComputedAnalytics {
	f.mu.Lock()
	trends := f.trends
	top := f.top
	f.mu.Unlock()

	computed := models.ComputedAnalytics{
		TopPerformingRestaurants: []models.TopPerformer{},
		TrendsByRestaurant:       map[int]models.RestaurantSummary{},
	}

	for _, row := range trends {
		if row.Trends.Daily == nil {
			continue
		}

		var restaurantOrders int
		var restaurantRevenue float64
		for _, day := range row.Trends.Daily {
			restaurantOrders += day.Count
			restaurantRevenue += day.AmountSum
		}

		computed.TotalOrders += restaurantOrders
		computed.TotalRevenue += restaurantRevenue

		summary := models.RestaurantSummary{
			Name:         row.RestaurantName,
			TotalOrders:  restaurantOrders,
			TotalRevenue: restaurantRevenue,
			Daily:        row.Trends.Daily,
			Hourly:       row.Trends.Hourly,
		}
		if summary.Hourly == nil {
			summary.Hourly = []models.HourlyBucket{}
		}
		if restaurantOrders > 0 {
			summary.AverageOrderValue = restaurantRevenue / float64(restaurantOrders)
		}
		computed.TrendsByRestaurant[row.RestaurantID] = summary
	}

	computed.TotalRestaurants = len(trends)

	for _, r := range top {
		performer := models.TopPerformer{
			ID:      r.ID,
			Name:    r.Name,
			Orders:  r.OrdersCount,
			Revenue: r.OrdersSumOrderAmount,
		}
		if performer.Orders > 0 {
			performer.AOV = performer.Revenue / float64(performer.Orders)
		}
		computed.TopPerformingRestaurants = append(computed.TopPerformingRestaurants, performer)
	}

	if computed.TotalOrders > 0 {
		computed.AverageOrderValue = computed.TotalRevenue / float64(computed.TotalOrders)
	}

	return computed
}

// Invalidate clears both snapshots so the next Ensure fetches fresh data.
func (f *AnalyticsFeed) Invalidate() {
	f.mu.Lock()
	f.lastTrends = ""
	f.lastTop = ""
	f.mu.Unlock()
}
