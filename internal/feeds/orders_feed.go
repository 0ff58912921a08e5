package feeds

import (
	"context"
	"strconv"
	"sync"

	"restrolytics-backend/internal/models"
)

// allPageSize substitutes the "all" page-size sentinel on the wire.
const allPageSize = 1000

const defaultOrdersPerPage = 10

// OrdersFeed fetches the order list for the single selected restaurant.
// No selection means no fetch and cleared state. A filter change resets to
// page one; page and page-size changes refetch preserving filters.
type OrdersFeed struct {
	mu      sync.Mutex
	service OrdersClient

	orders       []models.Order
	state        State
	errMsg       string
	currentPage  int
	itemsPerPage string
	totalOrders  int
	totalPages   int
	lastFilters  string
	lastFetch    string
}

func NewOrdersFeed(service OrdersClient) *OrdersFeed {
	return &OrdersFeed{
		service:      service,
		state:        StateIdle,
		currentPage:  1,
		itemsPerPage: strconv.Itoa(defaultOrdersPerPage),
	}
}

// effectivePerPage translates the page-size selection to a wire value.
func effectivePerPage(itemsPerPage string) int {
	if itemsPerPage == "all" {
		return allPageSize
	}
	if n, err := strconv.Atoi(itemsPerPage); err == nil && n > 0 {
		return n
	}
	return defaultOrdersPerPage
}

// Ensure fetches the requested page when needed. params carries the filter
// state without pagination; page and itemsPerPage come from the view.
// Structurally identical requests are served from the held state without a
// network call.
func (f *OrdersFeed) Ensure(ctx context.Context, params models.OrdersParams, page int, itemsPerPage string) {
	params.Page = 0
	params.PerPage = 0

	if params.RestaurantID == 0 {
		f.clear()
		return
	}

	if page < 1 {
		page = 1
	}
	if itemsPerPage == "" {
		itemsPerPage = strconv.Itoa(defaultOrdersPerPage)
	}

	filterSnap := snapshotOf(params)

	f.mu.Lock()
	if filterSnap != f.lastFilters {
		// Filters changed, start over from the first page.
		page = 1
	}
	fetchSnap := filterSnap + "|" + strconv.Itoa(page) + "|" + itemsPerPage
	if fetchSnap == f.lastFetch || f.state == StateLoading {
		f.mu.Unlock()
		return
	}
	f.state = StateLoading
	f.lastFilters = filterSnap
	f.lastFetch = fetchSnap
	f.currentPage = page
	f.itemsPerPage = itemsPerPage
	f.mu.Unlock()

	perPage := effectivePerPage(itemsPerPage)
	params.Page = page
	params.PerPage = perPage

	orders, pagination, err := f.service.GetOrdersList(ctx, params)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.errMsg = err.Error()
		return
	}

	f.orders = orders
	f.state = StateSuccess
	f.errMsg = ""

	switch {
	case pagination != nil && pagination.TotalPages > 0:
		f.totalOrders = pagination.Total
		f.totalPages = pagination.TotalPages
	case pagination != nil && pagination.Total > 0:
		f.totalOrders = pagination.Total
		divisor := perPage
		if itemsPerPage == "all" {
			divisor = pagination.Total
		}
		f.totalPages = (pagination.Total + divisor - 1) / divisor
	default:
		// Upstream omitted pagination metadata entirely.
		f.totalOrders = len(orders)
		f.totalPages = 1
	}
}

func (f *OrdersFeed) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = nil
	f.state = StateIdle
	f.errMsg = ""
	f.currentPage = 1
	f.totalOrders = 0
	f.totalPages = 0
	f.lastFilters = ""
	f.lastFetch = ""
}

// Invalidate clears the fetch snapshot so the next Ensure hits the
// upstream again; the manual retry affordance.
func (f *OrdersFeed) Invalidate() {
	f.mu.Lock()
	f.lastFetch = ""
	f.mu.Unlock()
}

func (f *OrdersFeed) State() (State, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.errMsg
}

// Page returns the current orders page view.
func (f *OrdersFeed) Page() models.OrdersPage {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := make([]models.Order, len(f.orders))
	copy(data, f.orders)

	return models.OrdersPage{
		Data:         data,
		CurrentPage:  f.currentPage,
		ItemsPerPage: f.itemsPerPage,
		TotalOrders:  f.totalOrders,
		TotalPages:   f.totalPages,
	}
}
