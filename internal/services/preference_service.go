package services

import (
	"context"
	"fmt"
	"sync"

	"restrolytics-backend/pkg/cache"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PreferenceService holds process-wide operator preferences. It is an
// explicit dependency injected at the application root, not a package
// singleton. Values survive restarts when Redis is available; otherwise
// they live in memory for the process lifetime.
type PreferenceService struct {
	mu    sync.RWMutex
	cache *cache.RedisCache
	theme string
}

func NewPreferenceService(redisCache *cache.RedisCache) *PreferenceService {
	p := &PreferenceService{
		cache: redisCache,
		theme: ThemeDark,
	}

	if redisCache != nil {
		var saved string
		if err := redisCache.GetWithPrefix(context.Background(), "preferences", "theme", &saved); err == nil {
			if saved == ThemeLight || saved == ThemeDark {
				p.theme = saved
			}
		}
	}

	return p
}

func (p *PreferenceService) Theme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("invalid theme %q", theme)
	}

	p.mu.Lock()
	p.theme = theme
	p.mu.Unlock()

	if p.cache != nil {
		// No expiry; the preference persists until changed.
		return p.cache.SetWithPrefix(ctx, "preferences", "theme", theme, 0)
	}
	return nil
}

// ToggleTheme flips between light and dark and returns the new value.
func (p *PreferenceService) ToggleTheme(ctx context.Context) (string, error) {
	next := ThemeDark
	if p.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, p.SetTheme(ctx, next)
}
