package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restrolytics-backend/internal/models"
)

type stubRestaurantLister struct {
	calls       int
	restaurants []models.Restaurant
	err         error
}

func (s *stubRestaurantLister) GetRestaurants(ctx context.Context, perPage int) ([]models.Restaurant, error) {
	s.calls++
	return s.restaurants, s.err
}

type stubAnalyticsClient struct {
	trendsCalls int
	topCalls    int
	trends      []models.RestaurantTrend
	top         []models.TopRestaurant
	trendsErr   error
}

func (s *stubAnalyticsClient) GetRestaurantTrends(ctx context.Context, params models.TrendsParams) ([]models.RestaurantTrend, error) {
	s.trendsCalls++
	return s.trends, s.trendsErr
}

func (s *stubAnalyticsClient) GetTopRestaurants(ctx context.Context, params models.TopRestaurantsParams) ([]models.TopRestaurant, error) {
	s.topCalls++
	return s.top, nil
}

type stubOrdersClient struct {
	calls      int
	lastParams models.OrdersParams
	orders     []models.Order
	pagination *models.Pagination
	err        error
}

func (s *stubOrdersClient) GetOrdersList(ctx context.Context, params models.OrdersParams) ([]models.Order, *models.Pagination, error) {
	s.calls++
	s.lastParams = params
	return s.orders, s.pagination, s.err
}

func sampleRestaurants() []models.Restaurant {
	return []models.Restaurant{
		{ID: 1, Name: "Biryani House", Location: "Chennai", Cuisine: "South Indian", CreatedAt: "2023-05-01T10:00:00Z"},
		{ID: 2, Name: "Curry Corner", Location: "Mumbai", Cuisine: "North Indian", CreatedAt: "2021-01-15T09:00:00Z"},
		{ID: 3, Name: "Wok Station", Location: "Delhi", Cuisine: "Chinese", CreatedAt: "2022-08-20T12:00:00Z"},
		{ID: 4, Name: "amber grill", Location: "Pune", Cuisine: "Barbecue", CreatedAt: "2024-02-10T08:00:00Z"},
		{ID: 5, Name: "Dosa Palace", Location: "Chennai", Cuisine: "South Indian", CreatedAt: "2020-11-05T18:00:00Z"},
	}
}

func TestRestaurantsFeedFetchesOnce(t *testing.T) {
	stub := &stubRestaurantLister{restaurants: sampleRestaurants()}
	feed := NewRestaurantsFeed(stub, 100)

	feed.Ensure(context.Background())
	feed.Ensure(context.Background())
	feed.Ensure(context.Background())

	assert.Equal(t, 1, stub.calls)
	state, errMsg := feed.State()
	assert.Equal(t, StateSuccess, state)
	assert.Empty(t, errMsg)
	assert.Len(t, feed.All(), 5)
}

func TestRestaurantsFeedRefetch(t *testing.T) {
	stub := &stubRestaurantLister{err: errors.New("API Error: 500 - Unknown error")}
	feed := NewRestaurantsFeed(stub, 100)

	feed.Ensure(context.Background())
	state, errMsg := feed.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, "API Error: 500 - Unknown error", errMsg)

	stub.err = nil
	stub.restaurants = sampleRestaurants()
	feed.Refetch(context.Background())

	state, _ = feed.State()
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, 2, stub.calls)
}

func TestRestaurantsFeedViewSearch(t *testing.T) {
	feed := NewRestaurantsFeed(&stubRestaurantLister{restaurants: sampleRestaurants()}, 100)
	feed.Ensure(context.Background())

	byCity := feed.View("chennai", "", "")
	require.Len(t, byCity, 2)

	byCuisine := feed.View("chinese", "", "")
	require.Len(t, byCuisine, 1)
	assert.Equal(t, "Wok Station", byCuisine[0].Name)

	assert.Empty(t, feed.View("nowhere", "", ""))
}

func TestRestaurantsFeedViewSort(t *testing.T) {
	feed := NewRestaurantsFeed(&stubRestaurantLister{restaurants: sampleRestaurants()}, 100)
	feed.Ensure(context.Background())

	// Case-folded name sort: "amber grill" sorts before "Biryani House".
	byName := feed.View("", "name", "asc")
	require.Len(t, byName, 5)
	assert.Equal(t, "amber grill", byName[0].Name)
	assert.Equal(t, "Biryani House", byName[1].Name)

	desc := feed.View("", "name", "desc")
	assert.Equal(t, "Wok Station", desc[0].Name)

	byCreated := feed.View("", "created_at", "asc")
	assert.Equal(t, "Dosa Palace", byCreated[0].Name)
	assert.Equal(t, "amber grill", byCreated[4].Name)
}

func TestRestaurantsFeedResolveIDs(t *testing.T) {
	feed := NewRestaurantsFeed(&stubRestaurantLister{restaurants: sampleRestaurants()}, 100)

	// Nothing resolves before the list has loaded.
	assert.Empty(t, feed.ResolveIDs([]string{"Curry Corner"}))

	feed.Ensure(context.Background())
	ids := feed.ResolveIDs([]string{"Curry Corner", "No Such Place", "Dosa Palace"})
	assert.Equal(t, []int{2, 5}, ids)
}

func TestAnalyticsFeedDeduplicatesIdenticalParams(t *testing.T) {
	stub := &stubAnalyticsClient{}
	feed := NewAnalyticsFeed(stub)

	// Structurally identical parameter values built separately must not
	// trigger a second fetch.
	first := models.TrendsParams{RestaurantIDs: []int{1, 2}, DateRange: "Last 7 days"}
	second := models.TrendsParams{RestaurantIDs: []int{1, 2}, DateRange: "Last 7 days"}

	feed.Ensure(context.Background(), first, models.TopRestaurantsParams{})
	feed.Ensure(context.Background(), second, models.TopRestaurantsParams{})

	assert.Equal(t, 1, stub.trendsCalls)
	assert.Equal(t, 1, stub.topCalls)

	// A real parameter change fetches again.
	feed.Ensure(context.Background(), models.TrendsParams{DateRange: "Today"}, models.TopRestaurantsParams{})
	assert.Equal(t, 2, stub.trendsCalls)
	assert.Equal(t, 1, stub.topCalls)
}

func TestAnalyticsFeedInitialFetchWithEmptyParams(t *testing.T) {
	stub := &stubAnalyticsClient{}
	feed := NewAnalyticsFeed(stub)

	// Baseline dashboard state is populated even with everything unset.
	feed.Ensure(context.Background(), models.TrendsParams{}, models.TopRestaurantsParams{})
	assert.Equal(t, 1, stub.trendsCalls)
	assert.Equal(t, 1, stub.topCalls)
}

func TestAnalyticsFeedErrorDoesNotRetryUntilParamsChange(t *testing.T) {
	stub := &stubAnalyticsClient{trendsErr: errors.New("No response received from server")}
	feed := NewAnalyticsFeed(stub)

	feed.Ensure(context.Background(), models.TrendsParams{}, models.TopRestaurantsParams{})
	feed.Ensure(context.Background(), models.TrendsParams{}, models.TopRestaurantsParams{})
	assert.Equal(t, 1, stub.trendsCalls)

	trendsState, _, errMsg := feed.States()
	assert.Equal(t, StateError, trendsState)
	assert.Equal(t, "No response received from server", errMsg)

	stub.trendsErr = nil
	feed.Ensure(context.Background(), models.TrendsParams{DateRange: "Today"}, models.TopRestaurantsParams{})
	assert.Equal(t, 2, stub.trendsCalls)
	trendsState, _, _ = feed.States()
	assert.Equal(t, StateSuccess, trendsState)
}

func TestAnalyticsFeedComputed(t *testing.T) {
	stub := &stubAnalyticsClient{
		trends: []models.RestaurantTrend{
			{
				RestaurantID:   1,
				RestaurantName: "Biryani House",
				Trends: models.TrendBuckets{
					Daily: []models.DailyBucket{{Count: 3, AmountSum: 150}},
				},
			},
			{
				RestaurantID:   2,
				RestaurantName: "Curry Corner",
				Trends: models.TrendBuckets{
					Daily: []models.DailyBucket{{Count: 1, AmountSum: 40}},
				},
			},
		},
		top: []models.TopRestaurant{
			{ID: 1, Name: "Biryani House", OrdersCount: 3, OrdersSumOrderAmount: 150},
			{ID: 9, Name: "Phantom Kitchen", OrdersCount: 0, OrdersSumOrderAmount: 0},
		},
	}
	feed := NewAnalyticsFeed(stub)
	feed.Ensure(context.Background(), models.TrendsParams{}, models.TopRestaurantsParams{})

	computed := feed.Computed()
	assert.Equal(t, 2, computed.TotalRestaurants)
	assert.Equal(t, 4, computed.TotalOrders)
	assert.Equal(t, 190.0, computed.TotalRevenue)
	assert.Equal(t, 47.5, computed.AverageOrderValue)

	require.Len(t, computed.TopPerformingRestaurants, 2)
	assert.Equal(t, 50.0, computed.TopPerformingRestaurants[0].AOV)
	// Zero orders must yield a zero AOV, never NaN or Inf.
	assert.Equal(t, 0.0, computed.TopPerformingRestaurants[1].AOV)

	summary, ok := computed.TrendsByRestaurant[1]
	require.True(t, ok)
	assert.Equal(t, "Biryani House", summary.Name)
	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 50.0, summary.AverageOrderValue)
}

func TestAnalyticsFeedComputedEmpty(t *testing.T) {
	feed := NewAnalyticsFeed(&stubAnalyticsClient{})
	computed := feed.Computed()

	assert.Zero(t, computed.TotalOrders)
	assert.Zero(t, computed.AverageOrderValue)
	assert.NotNil(t, computed.TopPerformingRestaurants)
	assert.NotNil(t, computed.TrendsByRestaurant)
}

func TestOrdersFeedNoRestaurantNoFetch(t *testing.T) {
	stub := &stubOrdersClient{}
	feed := NewOrdersFeed(stub)

	feed.Ensure(context.Background(), models.OrdersParams{}, 1, "10")
	assert.Zero(t, stub.calls)

	state, _ := feed.State()
	assert.Equal(t, StateIdle, state)
	page := feed.Page()
	assert.Empty(t, page.Data)
	assert.Zero(t, page.TotalOrders)
}

func TestOrdersFeedDeduplicatesIdenticalParams(t *testing.T) {
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1, OrderAmount: 250}},
		pagination: &models.Pagination{Total: 1, TotalPages: 1},
	}
	feed := NewOrdersFeed(stub)

	params := models.OrdersParams{RestaurantID: 7, DateRange: "Last 7 days"}
	feed.Ensure(context.Background(), params, 1, "10")
	feed.Ensure(context.Background(), models.OrdersParams{RestaurantID: 7, DateRange: "Last 7 days"}, 1, "10")

	assert.Equal(t, 1, stub.calls)
}

func TestOrdersFeedFilterChangeResetsPage(t *testing.T) {
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1}},
		pagination: &models.Pagination{Total: 40, TotalPages: 4},
	}
	feed := NewOrdersFeed(stub)

	params := models.OrdersParams{RestaurantID: 7}
	feed.Ensure(context.Background(), params, 1, "10")
	feed.Ensure(context.Background(), params, 3, "10")
	assert.Equal(t, 3, stub.lastParams.Page)

	// New filters while sitting on page 3: the fetch restarts at page 1.
	changed := models.OrdersParams{RestaurantID: 7, AmountRange: "₹200-₹500"}
	feed.Ensure(context.Background(), changed, 3, "10")
	assert.Equal(t, 1, stub.lastParams.Page)
	assert.Equal(t, 1, feed.Page().CurrentPage)
}

func TestOrdersFeedAllPageSize(t *testing.T) {
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1}, {ID: 2}},
		pagination: &models.Pagination{Total: 42},
	}
	feed := NewOrdersFeed(stub)

	feed.Ensure(context.Background(), models.OrdersParams{RestaurantID: 7}, 1, "all")

	assert.Equal(t, 1000, stub.lastParams.PerPage)
	page := feed.Page()
	assert.Equal(t, 42, page.TotalOrders)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, "all", page.ItemsPerPage)
}

func TestOrdersFeedTotalPagesFallbacks(t *testing.T) {
	// ceil(total / perPage) when the upstream omits total_pages.
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1}},
		pagination: &models.Pagination{Total: 25},
	}
	feed := NewOrdersFeed(stub)
	feed.Ensure(context.Background(), models.OrdersParams{RestaurantID: 7}, 1, "10")
	assert.Equal(t, 3, feed.Page().TotalPages)

	// One page when pagination metadata is absent entirely.
	stub = &stubOrdersClient{orders: []models.Order{{ID: 1}, {ID: 2}}}
	feed = NewOrdersFeed(stub)
	feed.Ensure(context.Background(), models.OrdersParams{RestaurantID: 7}, 1, "10")
	page := feed.Page()
	assert.Equal(t, 2, page.TotalOrders)
	assert.Equal(t, 1, page.TotalPages)
}

func TestOrdersFeedClearsOnDeselection(t *testing.T) {
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1}},
		pagination: &models.Pagination{Total: 1, TotalPages: 1},
	}
	feed := NewOrdersFeed(stub)

	feed.Ensure(context.Background(), models.OrdersParams{RestaurantID: 7}, 1, "10")
	require.Len(t, feed.Page().Data, 1)

	feed.Ensure(context.Background(), models.OrdersParams{}, 1, "10")
	page := feed.Page()
	assert.Empty(t, page.Data)
	assert.Zero(t, page.TotalOrders)
	state, _ := feed.State()
	assert.Equal(t, StateIdle, state)
}

func TestOrdersFeedInvalidateForcesRefetch(t *testing.T) {
	stub := &stubOrdersClient{
		orders:     []models.Order{{ID: 1}},
		pagination: &models.Pagination{Total: 1, TotalPages: 1},
	}
	feed := NewOrdersFeed(stub)

	params := models.OrdersParams{RestaurantID: 7}
	feed.Ensure(context.Background(), params, 1, "10")
	feed.Ensure(context.Background(), params, 1, "10")
	assert.Equal(t, 1, stub.calls)

	feed.Invalidate()
	feed.Ensure(context.Background(), params, 1, "10")
	assert.Equal(t, 2, stub.calls)
}
