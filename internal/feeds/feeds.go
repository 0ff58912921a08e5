// Package feeds holds the stateful coordinators between the dashboard
// handlers and the upstream API clients. Each feed owns its data, its
// loading and error state, and a serialized snapshot of the last fetched
// parameter set used to suppress redundant refetching.
package feeds

import (
	"context"
	"encoding/json"

	"restrolytics-backend/internal/models"
)

// State is the fetch lifecycle of a feed.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// RestaurantLister is the upstream client the restaurants feed needs.
type RestaurantLister interface {
	GetRestaurants(ctx context.Context, perPage int) ([]models.Restaurant, error)
}

// AnalyticsClient is the upstream client the analytics feed needs.
type AnalyticsClient interface {
	GetRestaurantTrends(ctx context.Context, params models.TrendsParams) ([]models.RestaurantTrend, error)
	GetTopRestaurants(ctx context.Context, params models.TopRestaurantsParams) ([]models.TopRestaurant, error)
}

// OrdersClient is the upstream client the orders feed needs.
type OrdersClient interface {
	GetOrdersList(ctx context.Context, params models.OrdersParams) ([]models.Order, *models.Pagination, error)
}

// snapshotOf canonicalizes a parameter struct for structural equality.
// Struct field order is fixed, so equal values always serialize equally
// regardless of how the value was assembled upstream.
func snapshotOf(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
