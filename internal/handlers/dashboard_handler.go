package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"restrolytics-backend/internal/feeds"
	"restrolytics-backend/internal/filters"
	"restrolytics-backend/internal/middleware"
	"restrolytics-backend/internal/models"
	"restrolytics-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
)

// DashboardHandler owns the dashboard's view state derivation: it turns
// one filter selection into the three independent parameter objects the
// feeds consume and assembles ready-to-render payloads.
type DashboardHandler struct {
	restaurants *feeds.RestaurantsFeed
	analytics   *feeds.AnalyticsFeed
	orders      *feeds.OrdersFeed
	producer    *messaging.KafkaProducer
}

func NewDashboardHandler(restaurants *feeds.RestaurantsFeed, analytics *feeds.AnalyticsFeed, orders *feeds.OrdersFeed, producer *messaging.KafkaProducer) *DashboardHandler {
	return &DashboardHandler{
		restaurants: restaurants,
		analytics:   analytics,
		orders:      orders,
		producer:    producer,
	}
}

func (h *DashboardHandler) RegisterRoutes(api *gin.RouterGroup) {
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/restaurants", h.GetRestaurants)
		dashboard.POST("/restaurants/refresh", h.RefreshRestaurants)
		dashboard.GET("/orders", h.GetOrders)
		dashboard.POST("/orders/refresh", h.RefreshOrders)
		dashboard.GET("/filters", h.GetFilterOptions)
	}
}

// filtersFromQuery reads the filter selection, falling back to the
// defaults for anything absent.
func filtersFromQuery(c *gin.Context) models.Filters {
	return models.Filters{
		DateRange:      c.DefaultQuery("date_range", filters.DefaultDateRange),
		Restaurant:     c.DefaultQuery("restaurant", filters.DefaultRestaurant),
		AmountRange:    c.Query("amount_range"),
		HourRange:      c.DefaultQuery("hour_range", filters.DefaultHourRange),
		CustomFromDate: c.Query("custom_from"),
		CustomToDate:   c.Query("custom_to"),
	}
}

// resolveRestaurantIDs works out which restaurant ids the analytics
// requests should carry. Explicit ids win; otherwise the selection label
// is resolved by name against the loaded list ("All Restaurants" means no
// filter, "Multiple (N)" pulls ids from the names list). Name resolution
// silently yields no filter when the list has not loaded or a name
// misses.
func (h *DashboardHandler) resolveRestaurantIDs(c *gin.Context, f models.Filters) []int {
	if ids := parseIDList(c.Query("restaurant_ids")); len(ids) > 0 {
		return ids
	}

	if f.Restaurant == "" || f.Restaurant == filters.DefaultRestaurant {
		return nil
	}

	if strings.HasPrefix(f.Restaurant, "Multiple (") {
		names := splitCSV(c.Query("restaurant_names"))
		return h.restaurants.ResolveIDs(names)
	}

	if r, ok := h.restaurants.FindByName(f.Restaurant); ok {
		return []int{r.ID}
	}
	return nil
}

// selectedRestaurantID identifies the single restaurant the orders list
// is keyed to: an explicit id, or a name resolved against the list.
func (h *DashboardHandler) selectedRestaurantID(c *gin.Context) int {
	if id, err := strconv.Atoi(c.Query("selected_restaurant_id")); err == nil && id > 0 {
		return id
	}
	if name := c.Query("selected_restaurant"); name != "" {
		if r, ok := h.restaurants.FindByName(name); ok {
			return r.ID
		}
	}
	return 0
}

// GetDashboard serves the aggregate dashboard payload: computed analytics,
// the filter summary, and the selected restaurant's trend rollup.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	f := filtersFromQuery(c)

	h.restaurants.Ensure(c.Request.Context())
	restaurantIDs := h.resolveRestaurantIDs(c, f)

	trendsParams := models.TrendsParams{
		RestaurantIDs:  restaurantIDs,
		DateRange:      f.DateRange,
		CustomFromDate: f.CustomFromDate,
		CustomToDate:   f.CustomToDate,
		AmountRange:    f.AmountRange,
		HourRange:      f.HourRange,
	}

	// Top-N ranking is insensitive to hour-of-day; the hour filter is
	// deliberately left out.
	topParams := models.TopRestaurantsParams{
		RestaurantIDs:  restaurantIDs,
		DateRange:      f.DateRange,
		CustomFromDate: f.CustomFromDate,
		CustomToDate:   f.CustomToDate,
		AmountRange:    f.AmountRange,
	}

	h.analytics.Ensure(c.Request.Context(), trendsParams, topParams)

	trendsState, topState, errMsg := h.analytics.States()
	computed := h.analytics.Computed()

	payload := gin.H{
		"success":           true,
		"computedAnalytics": computed,
		"filterSummary": gin.H{
			"activeFilters":    f,
			"hasActiveFilters": filters.HasActiveFilters(f),
			"nonDefault":       filters.NonDefaultFilters(f),
			"restaurantIds":    restaurantIDs,
		},
		"analyticsLoading":      trendsState == feeds.StateLoading,
		"topRestaurantsLoading": topState == feeds.StateLoading,
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}

	if selectedID := h.selectedRestaurantID(c); selectedID != 0 {
		if summary, ok := computed.TrendsByRestaurant[selectedID]; ok {
			payload["selectedRestaurantTrends"] = summary
		}
	}

	h.producer.Publish(messaging.UsageEvent{
		RequestID:     middleware.GetRequestID(c),
		Endpoint:      "dashboard",
		ActiveFilters: filters.NonDefaultFilters(f),
		RestaurantIDs: restaurantIDs,
		ServedAt:      time.Now().UTC(),
	})

	c.JSON(http.StatusOK, payload)
}

// GetRestaurants serves the searched, sorted and paginated restaurant
// list. All of it is derived from the one cached upstream fetch.
func (h *DashboardHandler) GetRestaurants(c *gin.Context) {
	h.restaurants.Ensure(c.Request.Context())

	state, errMsg := h.restaurants.State()
	if state == feeds.StateError {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch restaurants",
			Message: errMsg,
		})
		return
	}

	search := c.Query("search")
	sortBy := c.DefaultQuery("sort", "name")
	dir := c.DefaultQuery("dir", "asc")

	view := h.restaurants.View(search, sortBy, dir)

	// A single-restaurant selection narrows the list to that entry;
	// "Multiple (N)" keeps the full list visible.
	f := filtersFromQuery(c)
	if f.Restaurant != filters.DefaultRestaurant && !strings.HasPrefix(f.Restaurant, "Multiple (") {
		narrowed := make([]models.Restaurant, 0, 1)
		for _, r := range view {
			if r.Name == f.Restaurant {
				narrowed = append(narrowed, r)
			}
		}
		view = narrowed
	}

	page, perPage, paged := paginateRestaurants(view, c.DefaultQuery("page", "1"), c.DefaultQuery("per_page", "10"))

	c.JSON(http.StatusOK, RestaurantsResponse{
		Restaurants: paged.items,
		Pagination: PaginationResponse{
			Page:       page,
			Limit:      perPage,
			Total:      len(view),
			TotalPages: paged.totalPages,
		},
		Loading: state == feeds.StateLoading,
	})
}

type restaurantPage struct {
	items      []models.Restaurant
	totalPages int
}

// paginateRestaurants slices the view window. per_page "all" serves the
// whole list as a single page.
func paginateRestaurants(view []models.Restaurant, pageQuery, perPageQuery string) (int, int, restaurantPage) {
	page, _ := strconv.Atoi(pageQuery)
	if page < 1 {
		page = 1
	}

	if perPageQuery == "all" {
		return 1, len(view), restaurantPage{items: view, totalPages: 1}
	}

	perPage, err := strconv.Atoi(perPageQuery)
	if err != nil || perPage < 1 {
		perPage = 10
	}

	totalPages := (len(view) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start >= len(view) {
		return page, perPage, restaurantPage{items: []models.Restaurant{}, totalPages: totalPages}
	}
	end := start + perPage
	if end > len(view) {
		end = len(view)
	}
	return page, perPage, restaurantPage{items: view[start:end], totalPages: totalPages}
}

// RefreshRestaurants is the manual retry affordance for the restaurant
// list.
func (h *DashboardHandler) RefreshRestaurants(c *gin.Context) {
	h.restaurants.Refetch(c.Request.Context())

	state, errMsg := h.restaurants.State()
	if state == feeds.StateError {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch restaurants",
			Message: errMsg,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(h.restaurants.All())})
}

// ordersParamsFromQuery derives the orders request for the selected
// restaurant. A zero restaurant id means nothing is selected and the feed
// clears itself.
func (h *DashboardHandler) ordersParamsFromQuery(c *gin.Context) models.OrdersParams {
	f := filtersFromQuery(c)
	return models.OrdersParams{
		RestaurantID:   h.selectedRestaurantID(c),
		DateRange:      f.DateRange,
		CustomFromDate: f.CustomFromDate,
		CustomToDate:   f.CustomToDate,
		AmountRange:    f.AmountRange,
		HourRange:      f.HourRange,
		SortBy:         c.Query("sort_by"),
		SortDirection:  c.Query("sort_dir"),
	}
}

// GetOrders serves one page of orders for the selected restaurant.
func (h *DashboardHandler) GetOrders(c *gin.Context) {
	h.restaurants.Ensure(c.Request.Context())

	params := h.ordersParamsFromQuery(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage := c.DefaultQuery("per_page", "10")

	h.orders.Ensure(c.Request.Context(), params, page, perPage)

	state, errMsg := h.orders.State()
	ordersPage := h.orders.Page()

	payload := gin.H{
		"success":      state != feeds.StateError,
		"data":         ordersPage.Data,
		"currentPage":  ordersPage.CurrentPage,
		"itemsPerPage": ordersPage.ItemsPerPage,
		"totalOrders":  ordersPage.TotalOrders,
		"totalPages":   ordersPage.TotalPages,
		"loading":      state == feeds.StateLoading,
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}

	c.JSON(http.StatusOK, payload)
}

// RefreshOrders forces a fresh fetch of the current orders page; the
// manual retry affordance.
func (h *DashboardHandler) RefreshOrders(c *gin.Context) {
	h.restaurants.Ensure(c.Request.Context())

	h.orders.Invalidate()

	params := h.ordersParamsFromQuery(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage := c.DefaultQuery("per_page", "10")
	h.orders.Ensure(c.Request.Context(), params, page, perPage)

	state, errMsg := h.orders.State()
	if state == feeds.StateError {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch orders",
			Message: errMsg,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "totalOrders": h.orders.Page().TotalOrders})
}

// GetFilterOptions serves the selectable filter values and defaults the
// client renders the filter bar from.
func (h *DashboardHandler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"options":  filters.FilterOptions(),
		"defaults": filters.DefaultFilters(),
	})
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIDList(value string) []int {
	var ids []int
	for _, part := range splitCSV(value) {
		if id, err := strconv.Atoi(part); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
