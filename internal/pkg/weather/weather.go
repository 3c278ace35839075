// Package weather looks up the current local weather used to pick the
// dashboard theme. It never fails: on error it serves the last cached value
// or a fixed default.
package weather

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Conditions
const (
	Sunny  = "sunny"
	Clear  = "clear"
	Cloudy = "cloudy"
	Mist   = "mist"
	Rain   = "rain"
	Snow   = "snow"
)

// Default is served when nothing was ever fetched.
var Default = Weather{Temp: 15, Condition: Clear}

// DefaultCacheTTL is how long a lookup is reused.
const DefaultCacheTTL = 30 * time.Minute

// Weather is the current temperature in Celsius and a coarse condition.
type Weather struct {
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
}

// CacheStore persists the last lookup across restarts.
type CacheStore interface {
	LoadJSON(ctx context.Context, key string, v any) error
	SaveJSON(ctx context.Context, key string, v any) error
}

// Config configures the service
type Config struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	CacheTTL  time.Duration
	CacheKey  string
	Timeout   time.Duration
}

type entry struct {
	Data      Weather   `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Service serves cached weather lookups
type Service struct {
	http   *resty.Client
	cfg    Config
	store  CacheStore
	logger zerolog.Logger
	now    func() time.Time
	group  singleflight.Group

	mu     sync.Mutex
	cached *entry
}

// NewService creates a weather service. store may be nil.
func NewService(cfg Config, store CacheStore, lgr zerolog.Logger) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		http:   resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
		cfg:    cfg,
		store:  store,
		logger: lgr,
		now:    time.Now,
	}
}

// Current returns the current weather.
func (s *Service) Current(ctx context.Context) Weather {
	if e := s.load(ctx); e != nil && s.now().Sub(e.Timestamp) < s.cfg.CacheTTL {
		return e.Data
	}

	v, err, _ := s.group.Do("current", func() (any, error) {
		return s.fetch(ctx)
	})
	if err == nil {
		w := v.(Weather)
		s.remember(ctx, w)
		return w
	}

	s.logger.Warn().Err(err).Msg("Weather lookup failed")
	if e := s.load(ctx); e != nil {
		return e.Data
	}
	return Default
}

func (s *Service) load(ctx context.Context) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		e := *s.cached
		return &e
	}
	if s.store == nil || s.cfg.CacheKey == "" {
		return nil
	}
	var e entry
	if err := s.store.LoadJSON(ctx, s.cfg.CacheKey, &e); err != nil {
		s.logger.Debug().Err(err).Msg("No persisted weather cache")
		return nil
	}
	s.cached = &e
	return &e
}

func (s *Service) remember(ctx context.Context, w Weather) {
	e := entry{Data: w, Timestamp: s.now()}
	s.mu.Lock()
	s.cached = &e
	s.mu.Unlock()

	if s.store == nil || s.cfg.CacheKey == "" {
		return
	}
	if err := s.store.SaveJSON(ctx, s.cfg.CacheKey, e); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist weather cache")
	}
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		IsDay       int     `json:"is_day"`
	} `json:"current"`
}

func (s *Service) fetch(ctx context.Context) (Weather, error) {
	var out forecastResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(s.cfg.Latitude, 'f', 4, 64),
			"longitude": strconv.FormatFloat(s.cfg.Longitude, 'f', 4, 64),
			"current":   "temperature_2m,weather_code,is_day",
		}).
		SetResult(&out).
		Get("/v1/forecast")
	if err != nil {
		return Weather{}, fmt.Errorf("weather request: %w", err)
	}
	if resp.IsError() {
		return Weather{}, fmt.Errorf("weather request: unexpected status %d", resp.StatusCode())
	}

	return Weather{
		Temp:      out.Current.Temperature,
		Condition: Condition(out.Current.WeatherCode, out.Current.IsDay != 0),
	}, nil
}

// Condition maps a WMO weather code to a theme condition.
func Condition(code int, day bool) string {
	switch {
	case code == 0 && day:
		return Sunny
	case code <= 1:
		return Clear
	case code <= 3:
		return Cloudy
	case code == 45 || code == 48:
		return Mist
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return Snow
	case code >= 51 && code <= 67, code >= 80 && code <= 82, code >= 95:
		return Rain
	}
	return Clear
}
