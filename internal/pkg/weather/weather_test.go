package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStore) LoadJSON(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return errors.New("missing")
	}
	return json.Unmarshal(raw, v)
}

func (m *mapStore) SaveJSON(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = raw
	return nil
}

func newForecastServer(t *testing.T, status *atomic.Int32, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "48.5665", r.URL.Query().Get("latitude"))
		if code := status.Load(); code != http.StatusOK {
			w.WriteHeader(int(code))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":21.5,"weather_code":61,"is_day":1}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrentFetchesAndCaches(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newForecastServer(t, &status, &hits)

	store := &mapStore{}
	svc := NewService(Config{BaseURL: srv.URL, Latitude: 48.5665, Longitude: 13.4312, CacheKey: "tracker_weather"}, store, zerolog.Nop())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	w := svc.Current(context.Background())
	assert.Equal(t, Weather{Temp: 21.5, Condition: Rain}, w)
	assert.EqualValues(t, 1, hits.Load())

	now = now.Add(10 * time.Minute)
	assert.Equal(t, w, svc.Current(context.Background()))
	assert.EqualValues(t, 1, hits.Load(), "fresh cache is reused")

	// The persisted cache survives a new service instance
	again := NewService(Config{BaseURL: srv.URL, Latitude: 48.5665, CacheKey: "tracker_weather"}, store, zerolog.Nop())
	again.now = svc.now
	assert.Equal(t, w, again.Current(context.Background()))
	assert.EqualValues(t, 1, hits.Load())

	now = now.Add(31 * time.Minute)
	svc.Current(context.Background())
	assert.EqualValues(t, 2, hits.Load(), "expired cache triggers a lookup")
}

func TestCurrentServesStaleOnFailure(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusOK)
	srv := newForecastServer(t, &status, &hits)

	svc := NewService(Config{BaseURL: srv.URL, Latitude: 48.5665}, nil, zerolog.Nop())
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first := svc.Current(context.Background())
	require.Equal(t, Rain, first.Condition)

	status.Store(http.StatusServiceUnavailable)
	now = now.Add(2 * time.Hour)
	assert.Equal(t, first, svc.Current(context.Background()))
	assert.EqualValues(t, 2, hits.Load())
}

func TestCurrentFallsBackToDefault(t *testing.T) {
	var status, hits atomic.Int32
	status.Store(http.StatusInternalServerError)
	srv := newForecastServer(t, &status, &hits)

	svc := NewService(Config{BaseURL: srv.URL, Latitude: 48.5665}, &mapStore{}, zerolog.Nop())
	assert.Equal(t, Default, svc.Current(context.Background()))
	assert.Equal(t, Weather{Temp: 15, Condition: "clear"}, Default)
}

func TestCondition(t *testing.T) {
	tests := []struct {
		code int
		day  bool
		want string
	}{
		{0, true, Sunny},
		{0, false, Clear},
		{1, true, Clear},
		{3, true, Cloudy},
		{45, true, Mist},
		{55, true, Rain},
		{73, false, Snow},
		{81, true, Rain},
		{86, true, Snow},
		{95, true, Rain},
		{19, true, Clear},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Condition(tt.code, tt.day), "code %d", tt.code)
	}
}
