package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restrolytics-backend/internal/models"
)

// defaultRestaurantsPerPage pulls enough restaurants for the dashboard in
// one page; search, sort and filtering all happen on our side.
const defaultRestaurantsPerPage = 100

// RestaurantService fetches the upstream restaurant list. Only pagination
// is transmitted, no other filter goes on the wire.
type RestaurantService struct {
	baseURL    string
	httpClient *http.Client
}

func NewRestaurantService(baseURL string, timeout time.Duration) *RestaurantService {
	return &RestaurantService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRestaurants fetches up to perPage restaurants. perPage <= 0 uses the
// dashboard default.
func (s *RestaurantService) GetRestaurants(ctx context.Context, perPage int) ([]models.Restaurant, error) {
	if perPage <= 0 {
		perPage = defaultRestaurantsPerPage
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))

	reqURL := fmt.Sprintf("%s/restaurants?%s", s.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.RequestSetupError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("No response from %s: %v", reqURL, err)
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

	return decodeRestaurants(respBody), nil
}

// decodeRestaurants accepts the paginated envelope {success, data: {data:
// [...]}}, the flat envelope {success, data: [...]}, or a bare array. An
// unrecognized shape degrades to empty with a logged warning.
func decodeRestaurants(respBody []byte) []models.Restaurant {
	var env envelope
	if err := json.Unmarshal(respBody, &env); err == nil && env.Success && len(env.Data) > 0 {
		var paginated struct {
			Data []models.Restaurant `json:"data"`
		}
		if err := json.Unmarshal(env.Data, &paginated); err == nil && paginated.Data != nil {
			return paginated.Data
		}

		var restaurants []models.Restaurant
		if err := json.Unmarshal(env.Data, &restaurants); err == nil {
			return restaurants
		}
	}

	var restaurants []models.Restaurant
	if err := json.Unmarshal(respBody, &restaurants); err == nil {
		return restaurants
	}

	log.Printf("Unexpected restaurant response shape, returning empty result")
	return nil
}
