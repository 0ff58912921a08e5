package feeds

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"restrolytics-backend/internal/models"
)

// RestaurantsFeed fetches the full restaurant list once and serves every
// search/sort/filter request from that in-memory copy. The list is not
// refetched on filter change; Refetch is the manual retry affordance.
type RestaurantsFeed struct {
	mu          sync.Mutex
	service     RestaurantLister
	perPage     int
	restaurants []models.Restaurant
	state       State
	errMsg      string
	fetched     bool
}

func NewRestaurantsFeed(service RestaurantLister, perPage int) *RestaurantsFeed {
	return &RestaurantsFeed{
		service: service,
		perPage: perPage,
		state:   StateIdle,
	}
}

// Ensure loads the list on first use. Subsequent calls are no-ops until
// Refetch clears the fetched flag.
func (f *RestaurantsFeed) Ensure(ctx context.Context) {
	f.mu.Lock()
	if f.fetched || f.state == StateLoading {
		f.mu.Unlock()
		return
	}
	f.state = StateLoading
	f.mu.Unlock()

	restaurants, err := f.service.GetRestaurants(ctx, f.perPage)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.errMsg = err.Error()
		return
	}
	f.restaurants = restaurants
	f.state = StateSuccess
	f.errMsg = ""
	f.fetched = true
}

// Refetch forces a fresh load on the next Ensure.
func (f *RestaurantsFeed) Refetch(ctx context.Context) {
	f.mu.Lock()
	f.fetched = false
	f.mu.Unlock()
	f.Ensure(ctx)
}

func (f *RestaurantsFeed) State() (State, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.errMsg
}

// All returns the unfiltered cached list.
func (f *RestaurantsFeed) All() []models.Restaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Restaurant, len(f.restaurants))
	copy(out, f.restaurants)
	return out
}

// View derives the searched and sorted projection entirely in memory.
// Search is a case-insensitive substring match over name, location and
// cuisine. Sorting is lexicographic over case-folded strings, except
// created_at which compares as a date. Ascending unless dir is "desc".
func (f *RestaurantsFeed) View(search, sortBy, dir string) []models.Restaurant {
	filtered := f.All()

	if search != "" {
		term := strings.ToLower(search)
		matched := filtered[:0]
		for _, r := range filtered {
			if strings.Contains(strings.ToLower(r.Name), term) ||
				strings.Contains(strings.ToLower(r.Location), term) ||
				strings.Contains(strings.ToLower(r.Cuisine), term) {
				matched = append(matched, r)
			}
		}
		filtered = matched
	}

	if sortBy != "" {
		sort.SliceStable(filtered, func(i, j int) bool {
			if dir == "desc" {
				return lessRestaurant(filtered[j], filtered[i], sortBy)
			}
			return lessRestaurant(filtered[i], filtered[j], sortBy)
		})
	}

	return filtered
}

func lessRestaurant(a, b models.Restaurant, sortBy string) bool {
	switch sortBy {
	case "location":
		return strings.ToLower(a.Location) < strings.ToLower(b.Location)
	case "cuisine":
		return strings.ToLower(a.Cuisine) < strings.ToLower(b.Cuisine)
	case "created_at":
		return parseCreatedAt(a.CreatedAt).Before(parseCreatedAt(b.CreatedAt))
	default:
		// Unknown sort keys fall back to name, matching the dashboard.
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

func parseCreatedAt(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FindByName resolves a restaurant by exact name. Name-based resolution is
// display-state compatibility; it yields nothing when the list has not
// loaded or the name misses.
func (f *RestaurantsFeed) FindByName(name string) (models.Restaurant, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.restaurants {
		if r.Name == name {
			return r, true
		}
	}
	return models.Restaurant{}, false
}

// ResolveIDs maps restaurant names to ids, dropping names that do not
// resolve against the loaded list.
func (f *RestaurantsFeed) ResolveIDs(names []string) []int {
	var ids []int
	for _, name := range names {
		if r, ok := f.FindByName(name); ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
