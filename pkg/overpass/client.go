package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go.uber.org/zap"

	"github.com/sakay-app/sakay-routing/pkg"
	"github.com/sakay-app/sakay-routing/pkg/geo"
	"github.com/sakay-app/sakay-routing/pkg/util"
)

// ErrFetchFailed road data service unreachable or non-OK after all retries.
var ErrFetchFailed = errors.New("road network fetch failed")

const DefaultURL = "https://overpass-api.de/api/interpreter"

// highway classes the router cares about, everything else is filtered
// server side by the overpass query itself.
const highwayFilter = "motorway|trunk|primary|secondary|tertiary|residential|unclassified|service" +
	"|motorway_link|trunk_link|primary_link|secondary_link|tertiary_link"

type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *responseCache
	log        *zap.Logger

	maxRetries int
	retryDelay time.Duration
}

func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		// overpass public instances throttle aggressively, stay polite
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		cache:      newResponseCache(pkg.OSM_CACHE_TTL),
		log:        log,
		maxRetries: pkg.MAX_FETCH_RETRIES,
		retryDelay: pkg.FETCH_RETRY_DELAY,
	}
}

func buildQuery(center geo.Coordinate, radiusMeters float64) string {
	return fmt.Sprintf(`[out:json][timeout:25];
(
  way["highway"~"^(%s)$"](around:%.0f,%f,%f);
  node(w);
  >;
);
out body;`, highwayFilter, radiusMeters, center.Lat, center.Lon)
}

// FetchRoadNetwork query road ways and their nodes within radiusMeters of
// center. A fresh cached response (< 24h) short circuits the network
// round trip. On failure the call is retried with linearly increasing
// backoff before giving up with ErrFetchFailed.
func (c *Client) FetchRoadNetwork(ctx context.Context, center geo.Coordinate, radiusMeters float64) (*Response, error) {
	key := cacheKey(center, radiusMeters)
	if cached, ok := c.cache.get(key); ok {
		c.log.Debug("using cached overpass response", zap.String("key", key))
		return cached, nil
	}

	query := buildQuery(center, radiusMeters)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, util.WrapErrorf(ErrFetchFailed, util.ErrInternalServerError,
				"overpass fetch canceled: %v", err)
		}

		c.log.Info("fetching road network",
			zap.Float64("lat", center.Lat), zap.Float64("lon", center.Lon),
			zap.Float64("radius_m", radiusMeters), zap.Int("attempt", attempt))

		resp, err := c.doFetch(ctx, query)
		if err == nil {
			c.cache.put(key, resp)
			c.log.Info("overpass response ok", zap.Int("elements", len(resp.Elements)))
			return resp, nil
		}

		lastErr = err
		c.log.Warn("overpass fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt < c.maxRetries {
			select {
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			case <-ctx.Done():
				return nil, util.WrapErrorf(ErrFetchFailed, util.ErrInternalServerError,
					"overpass fetch canceled: %v", ctx.Err())
			}
		}
	}

	return nil, util.WrapErrorf(ErrFetchFailed, util.ErrInternalServerError,
		"failed to fetch road network after %d attempts: %v", c.maxRetries, lastErr)
}

func (c *Client) doFetch(ctx context.Context, query string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding overpass response: %w", err)
	}
	return &parsed, nil
}
