package models

// Filters holds the operator's active dashboard filter selection.
// DateRange, Restaurant and HourRange always carry a defined default;
// AmountRange is empty when no amount bucket is selected.
type Filters struct {
	DateRange      string `json:"dateRange" form:"date_range"`
	Restaurant     string `json:"restaurant" form:"restaurant"`
	AmountRange    string `json:"amountRange,omitempty" form:"amount_range"`
	HourRange      string `json:"hourRange" form:"hour_range"`
	CustomFromDate string `json:"customFromDate,omitempty" form:"custom_from"`
	CustomToDate   string `json:"customToDate,omitempty" form:"custom_to"`
}

// Restaurant is the read-only upstream restaurant record. The list is
// fetched once and all search/sort/filter happens on our side.
type Restaurant struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Cuisine   string `json:"cuisine"`
	CreatedAt string `json:"created_at"`
}

// Order is a single upstream order row. The upstream API is inconsistent
// about field names across deployments, so both spellings are kept.
type Order struct {
	ID          int     `json:"id"`
	OrderID     int     `json:"order_id,omitempty"`
	OrderAmount float64 `json:"order_amount"`
	OrderDate   string  `json:"order_date,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// TrendsParams drives the restaurant-trends request. Filter values are
// still human-readable labels; the service maps them to wire values.
type TrendsParams struct {
	RestaurantIDs  []int  `json:"restaurant_ids,omitempty"`
	DateRange      string `json:"dateRange,omitempty"`
	CustomFromDate string `json:"customFromDate,omitempty"`
	CustomToDate   string `json:"customToDate,omitempty"`
	AmountRange    string `json:"amountRange,omitempty"`
	HourRange      string `json:"hourRange,omitempty"`
}

// TopRestaurantsParams is TrendsParams minus the hour filter: the top-N
// ranking is insensitive to hour-of-day.
type TopRestaurantsParams struct {
	RestaurantIDs  []int  `json:"restaurant_ids,omitempty"`
	DateRange      string `json:"dateRange,omitempty"`
	CustomFromDate string `json:"customFromDate,omitempty"`
	CustomToDate   string `json:"customToDate,omitempty"`
	AmountRange    string `json:"amountRange,omitempty"`
}

// OrdersParams keys the orders list to a single restaurant and adds
// pagination and sorting.
type OrdersParams struct {
	RestaurantID   int    `json:"restaurant_id,omitempty"`
	DateRange      string `json:"dateRange,omitempty"`
	CustomFromDate string `json:"customFromDate,omitempty"`
	CustomToDate   string `json:"customToDate,omitempty"`
	AmountRange    string `json:"amountRange,omitempty"`
	HourRange      string `json:"hourRange,omitempty"`
	Page           int    `json:"page,omitempty"`
	PerPage        int    `json:"per_page,omitempty"`
	SortBy         string `json:"sortBy,omitempty"`
	SortDirection  string `json:"sortDirection,omitempty"`
}

// RestaurantTrend is one upstream row of /analytics/restaurant-trends.
type RestaurantTrend struct {
	RestaurantID   int          `json:"restaurant_id"`
	RestaurantName string       `json:"restaurant_name"`
	Trends         TrendBuckets `json:"trends"`
}

type TrendBuckets struct {
	Daily  []DailyBucket  `json:"daily"`
	Hourly []HourlyBucket `json:"hourly"`
}

type DailyBucket struct {
	Date      string  `json:"date,omitempty"`
	Count     int     `json:"count"`
	AmountSum float64 `json:"amount_sum"`
}

type HourlyBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// TopRestaurant is one upstream row of /analytics/top-restaurants.
type TopRestaurant struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	OrdersCount          int     `json:"orders_count"`
	OrdersSumOrderAmount float64 `json:"orders_sum_order_amount"`
}

// Pagination is the upstream orders pagination block. TotalPages may be
// absent, in which case the feed derives it from Total.
type Pagination struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages,omitempty"`
}

// ComputedAnalytics is derived from the trends and top-restaurants
// responses. It is recomputed whenever either raw response changes and is
// never persisted.
type ComputedAnalytics struct {
	TotalRestaurants         int                       `json:"totalRestaurants"`
	TotalOrders              int                       `json:"totalOrders"`
	TotalRevenue             float64                   `json:"totalRevenue"`
	AverageOrderValue        float64                   `json:"averageOrderValue"`
	TopPerformingRestaurants []TopPerformer            `json:"topPerformingRestaurants"`
	TrendsByRestaurant       map[int]RestaurantSummary `json:"trendsByRestaurant"`
}

// TopPerformer comes straight from the top-restaurants response; it is
// deliberately not recomputed from trends, the two upstream aggregations
// can disagree.
type TopPerformer struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	AOV     float64 `json:"aov"`
}

// RestaurantSummary is the per-restaurant rollup of daily trend buckets.
type RestaurantSummary struct {
	Name              string         `json:"name"`
	TotalOrders       int            `json:"total_orders"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	Daily             []DailyBucket  `json:"daily"`
	Hourly            []HourlyBucket `json:"hourly"`
}

// OrdersPage is the orders feed output consumed by the dashboard.
type OrdersPage struct {
	Data         []Order `json:"data"`
	CurrentPage  int     `json:"currentPage"`
	ItemsPerPage string  `json:"itemsPerPage"`
	TotalOrders  int     `json:"totalOrders"`
	TotalPages   int     `json:"totalPages"`
}
