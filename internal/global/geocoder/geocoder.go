// Package geocoder 把活动地点解析为经纬度，结果缓存在 Redis
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"activity-marketplace/config"

	"github.com/go-resty/resty/v2"
	goredis "github.com/redis/go-redis/v9"
)

var (
	ErrDisabled = errors.New("geocoder disabled")
	ErrNotFound = errors.New("location not found")
)

const cachePrefix = "geocode:"

type Location struct {
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// nominatim 返回的经纬度是字符串
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type Geocoder struct {
	http    *resty.Client
	cache   *goredis.Client // 可为 nil
	ttl     time.Duration
	enabled bool
}

func New(c config.Geocoder, httpClient *resty.Client, cache *goredis.Client) *Geocoder {
	httpClient.SetBaseURL(strings.TrimRight(c.BaseURL, "/"))
	if c.UserAgent != "" {
		httpClient.SetHeader("User-Agent", c.UserAgent)
	}
	return &Geocoder{
		http:    httpClient,
		cache:   cache,
		ttl:     time.Duration(c.CacheTTL) * time.Second,
		enabled: c.Enable,
	}
}

func normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Lookup 先查缓存，未命中再请求地理编码服务
func (g *Geocoder) Lookup(ctx context.Context, query string) (*Location, error) {
	if !g.enabled {
		return nil, ErrDisabled
	}
	key := normalize(query)
	if key == "" {
		return nil, ErrNotFound
	}

	if loc, ok := g.cached(ctx, key); ok {
		return loc, nil
	}

	var places []place
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": query, "format": "json", "limit": "1"}).
		SetResult(&places).
		// 部分服务返回 text/plain，统一按 JSON 解析，解析失败直接报错
		ForceContentType("application/json").
		Get("/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errors.New("geocoder: " + resp.Status())
	}
	if len(places) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, err
	}
	loc := &Location{Query: query, Lat: lat, Lon: lon, DisplayName: places[0].DisplayName}
	g.store(ctx, key, loc)
	return loc, nil
}

func (g *Geocoder) cached(ctx context.Context, key string) (*Location, bool) {
	if g.cache == nil {
		return nil, false
	}
	raw, err := g.cache.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var loc Location
	if json.Unmarshal(raw, &loc) != nil {
		return nil, false
	}
	return &loc, true
}

// store 写缓存失败不影响结果
func (g *Geocoder) store(ctx context.Context, key string, loc *Location) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	_ = g.cache.Set(ctx, cachePrefix+key, raw, g.ttl).Err()
}
