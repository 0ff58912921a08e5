package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"restrolytics-backend/internal/filters"
	"restrolytics-backend/internal/models"
	"restrolytics-backend/pkg/cache"
)

// topRestaurantsLimit caps the top-restaurants result count regardless of
// caller intent.
const topRestaurantsLimit = 20

// AnalyticsService is a thin client for the upstream analytics endpoints.
// It builds one outbound request per call; any caching beyond the optional
// read-through layer belongs to the feeds.
type AnalyticsService struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.RedisCache
	cacheTTL   time.Duration
}

func NewAnalyticsService(baseURL string, timeout time.Duration, redisCache *cache.RedisCache, cacheTTL time.Duration) *AnalyticsService {
	return &AnalyticsService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    redisCache,
		cacheTTL: cacheTTL,
	}
}

// Wire request shapes. Fields are omitted when not meaningfully set, never
// sent as null.

type trendsRequest struct {
	RestaurantIDs []int    `json:"restaurant_ids,omitempty"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	MinAmount     *float64 `json:"minA,omitempty"`
	MaxAmount     *float64 `json:"maxA,omitempty"`
	HourFrom      string   `json:"hFrom,omitempty"`
	HourTo        string   `json:"hTo,omitempty"`
}

type topRestaurantsRequest struct {
	Limit         int      `json:"limit"`
	RestaurantIDs []int    `json:"restaurant_ids,omitempty"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	MinAmount     *float64 `json:"minA,omitempty"`
	MaxAmount     *float64 `json:"maxA,omitempty"`
}

type ordersRequest struct {
	RestaurantID  int      `json:"restaurant_id,omitempty"`
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	MinAmount     *float64 `json:"minA,omitempty"`
	MaxAmount     *float64 `json:"maxA,omitempty"`
	HourFrom      string   `json:"hFrom,omitempty"`
	HourTo        string   `json:"hTo,omitempty"`
	Page          int      `json:"page,omitempty"`
	PerPage       int      `json:"per_page,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortDirection string   `json:"sort_dir,omitempty"`
}

// envelope is the upstream response wrapper. Data is kept raw because the
// API sometimes responds with a bare array instead.
type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// GetRestaurantTrends fetches per-restaurant daily/hourly trend buckets.
func (s *AnalyticsService) GetRestaurantTrends(ctx context.Context, params models.TrendsParams) ([]models.RestaurantTrend, error) {
	body := trendsRequest{}

	if len(params.RestaurantIDs) > 0 {
		body.RestaurantIDs = params.RestaurantIDs
	}

	dates := filters.MapDateRangeToAPI(params.DateRange, params.CustomFromDate, params.CustomToDate)
	body.From = dates.From
	body.To = dates.To

	if params.AmountRange != "" {
		if amount := filters.MapAmountRangeToValues(params.AmountRange); amount != nil {
			body.MinAmount = &amount.Min
			body.MaxAmount = &amount.Max
		}
	}

	// The full-day window is the server default; only a narrower window
	// goes on the wire.
	if params.HourRange != "" && params.HourRange != filters.DefaultHourRange {
		hours := filters.MapHourRangeToValues(params.HourRange)
		body.HourFrom = hours.Min
		body.HourTo = hours.Max
	}

	var trends []models.RestaurantTrend
	if s.cacheGet(ctx, "trends", body, &trends) {
		return trends, nil
	}

	respBody, err := s.post(ctx, "/analytics/restaurant-trends", body)
	if err != nil {
		return nil, err
	}

	trends = decodeRows[models.RestaurantTrend](respBody, "restaurant trends")
	s.cacheSet(ctx, "trends", body, trends)
	return trends, nil
}

// GetTopRestaurants fetches the revenue-ranked restaurant list. The hour
// filter never applies here and the result count is always capped.
func (s *AnalyticsService) GetTopRestaurants(ctx context.Context, params models.TopRestaurantsParams) ([]models.TopRestaurant, error) {
	body := topRestaurantsRequest{Limit: topRestaurantsLimit}

	if len(params.RestaurantIDs) > 0 {
		body.RestaurantIDs = params.RestaurantIDs
	}

	if params.DateRange != "" && params.DateRange != filters.DefaultDateRange {
		dates := filters.MapDateRangeToAPI(params.DateRange, params.CustomFromDate, params.CustomToDate)
		body.From = dates.From
		body.To = dates.To
	}

	if params.AmountRange != "" {
		if amount := filters.MapAmountRangeToValues(params.AmountRange); amount != nil {
			body.MinAmount = &amount.Min
			body.MaxAmount = &amount.Max
		}
	}

	var top []models.TopRestaurant
	if s.cacheGet(ctx, "top", body, &top) {
		return top, nil
	}

	respBody, err := s.post(ctx, "/analytics/top-restaurants", body)
	if err != nil {
		return nil, err
	}

	top = decodeRows[models.TopRestaurant](respBody, "top restaurants")
	s.cacheSet(ctx, "top", body, top)
	return top, nil
}

// GetOrdersList fetches one page of orders. Pagination metadata may be nil
// when the upstream omits it.
func (s *AnalyticsService) GetOrdersList(ctx context.Context, params models.OrdersParams) ([]models.Order, *models.Pagination, error) {
	body := ordersRequest{}

	if params.RestaurantID != 0 {
		body.RestaurantID = params.RestaurantID
	}

	if params.DateRange != "" && params.DateRange != filters.DefaultDateRange {
		dates := filters.MapDateRangeToAPI(params.DateRange, params.CustomFromDate, params.CustomToDate)
		body.From = dates.From
		body.To = dates.To
	}

	if params.AmountRange != "" {
		if amount := filters.MapAmountRangeToValues(params.AmountRange); amount != nil {
			body.MinAmount = &amount.Min
			body.MaxAmount = &amount.Max
		}
	}

	if params.HourRange != "" && params.HourRange != filters.DefaultHourRange {
		hours := filters.MapHourRangeToValues(params.HourRange)
		body.HourFrom = hours.Min
		body.HourTo = hours.Max
	}

	body.Page = params.Page
	body.PerPage = params.PerPage
	body.SortBy = params.SortBy
	body.SortDirection = params.SortDirection

	respBody, err := s.post(ctx, "/orders", body)
	if err != nil {
		return nil, nil, err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err == nil && env.Success && len(env.Data) > 0 {
		var orders []models.Order
		if err := json.Unmarshal(env.Data, &orders); err == nil {
			return orders, env.Pagination, nil
		}
	}

	var orders []models.Order
	if err := json.Unmarshal(respBody, &orders); err == nil {
		return orders, nil, nil
	}

	log.Printf("Unexpected orders response shape, returning empty result")
	return nil, nil, nil
}

// post submits one JSON request and classifies failures: a non-2xx
// response, no response at all, or a request that never made it out.
func (s *AnalyticsService) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &models.RequestSetupError{Err: err}
	}

	url := fmt.Sprintf("%s%s", s.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &models.RequestSetupError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("No response from %s: %v", url, err)
		return nil, models.ErrNoResponse
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.ErrNoResponse
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.APIError{
			Status:  resp.StatusCode,
			Message: serverMessage(respBody),
		}
	}

	return respBody, nil
}

// serverMessage pulls the optional message field out of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// decodeRows handles the two recognized response shapes, an envelope with
// a data array or a bare array. Anything else logs a warning and degrades
// to an empty result rather than failing the dashboard.
func decodeRows[T any](respBody []byte, what string) []T {
	var env envelope
	if err := json.Unmarshal(respBody, &env); err == nil && env.Success && len(env.Data) > 0 {
		var rows []T
		if err := json.Unmarshal(env.Data, &rows); err == nil {
			return rows
		}
	}

	var rows []T
	if err := json.Unmarshal(respBody, &rows); err == nil {
		return rows
	}

	log.Printf("Unexpected %s response shape, returning empty result", what)
	return nil
}

func (s *AnalyticsService) cacheKey(prefix string, body interface{}) string {
	raw, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return prefix + ":" + string(raw)
}

func (s *AnalyticsService) cacheGet(ctx context.Context, prefix string, body, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	key := s.cacheKey(prefix, body)
	if key == "" {
		return false
	}
	return s.cache.GetWithPrefix(ctx, "analytics", key, dest) == nil
}

func (s *AnalyticsService) cacheSet(ctx context.Context, prefix string, body, value interface{}) {
	if s.cache == nil {
		return
	}
	key := s.cacheKey(prefix, body)
	if key == "" {
		return
	}
	if err := s.cache.SetWithPrefix(ctx, "analytics", key, value, s.cacheTTL); err != nil {
		log.Printf("Failed to cache %s response: %v", prefix, err)
	}
}
