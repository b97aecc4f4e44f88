package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"activity-marketplace/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-resty/resty/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatim(t *testing.T, calls *int32, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupCachesResult(t *testing.T) {
	var calls int32
	srv := nominatim(t, &calls, `[{"lat":"40.4168","lon":"-3.7038","display_name":"Madrid, España"}]`)
	mr := miniredis.RunT(t)
	cache := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer cache.Close()

	g := New(config.Geocoder{Enable: true, BaseURL: srv.URL, UserAgent: "test-agent", CacheTTL: 60},
		resty.New().SetTimeout(time.Second), cache)

	loc, err := g.Lookup(context.Background(), "Madrid")
	require.NoError(t, err)
	assert.InDelta(t, 40.4168, loc.Lat, 1e-6)
	assert.InDelta(t, -3.7038, loc.Lon, 1e-6)
	assert.Equal(t, "Madrid, España", loc.DisplayName)

	again, err := g.Lookup(context.Background(), "  madrid ")
	require.NoError(t, err)
	assert.Equal(t, loc.Lat, again.Lat)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("geocode:madrid"))
}

func TestLookupNotFound(t *testing.T) {
	var calls int32
	srv := nominatim(t, &calls, `[]`)
	g := New(config.Geocoder{Enable: true, BaseURL: srv.URL, UserAgent: "test-agent"}, resty.New(), nil)

	_, err := g.Lookup(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupDisabled(t *testing.T) {
	g := New(config.Geocoder{}, resty.New(), nil)
	_, err := g.Lookup(context.Background(), "Madrid")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestLookupWithoutJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`[{"lat":"41.38","lon":"2.17","display_name":"Barcelona"}]`))
	}))
	defer srv.Close()
	g := New(config.Geocoder{Enable: true, BaseURL: srv.URL}, resty.New(), nil)

	loc, err := g.Lookup(context.Background(), "Barcelona")
	require.NoError(t, err)
	assert.InDelta(t, 41.38, loc.Lat, 1e-6)
}

func TestLookupUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()
	g := New(config.Geocoder{Enable: true, BaseURL: srv.URL}, resty.New(), nil)

	_, err := g.Lookup(context.Background(), "Barcelona")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
