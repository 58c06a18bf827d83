// Package insights enriches rendered dashboards with natural-language
// annotations fetched from the upstream finance API. Annotations are
// best-effort: a failed or slow upstream never blocks a dashboard load.
package insights

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"time"

	"finboard/internal/cache"
	"finboard/internal/gateway"
	"finboard/internal/log"
)

// DefaultCacheSize bounds how many distinct chart shapes we remember.
const DefaultCacheSize = 64

// DefaultCacheTTL keeps annotations fresh enough for a session.
const DefaultCacheTTL = 10 * time.Minute

// Provider is the upstream call the service memoizes.
type Provider interface {
	ChartInsights(ctx context.Context, req gateway.ChartInsightsRequest) (gateway.ChartInsightsResponse, error)
}

// Service caches chart-insight responses keyed by the series they describe.
// Identical dashboards across reloads hit the cache instead of the upstream.
type Service struct {
	provider Provider
	cache    *cache.LRUCache[gateway.ChartInsightsResponse]
	logger   *log.Logger
}

// NewService creates an insights service over the given provider.
func NewService(provider Provider, size int, ttl time.Duration, logger *log.Logger) *Service {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		provider: provider,
		cache:    cache.NewLRUCache[gateway.ChartInsightsResponse](size, ttl),
		logger:   logger.WithComponent(log.ComponentInsights),
	}
}

// Cache exposes the underlying cache for cleanup registration.
func (s *Service) Cache() cache.Cleaner {
	return s.cache
}

// ChartInsights returns annotations for the given series, consulting the
// cache first. Unsuccessful upstream responses are not cached.
func (s *Service) ChartInsights(ctx context.Context, req gateway.ChartInsightsRequest) (gateway.ChartInsightsResponse, error) {
	key := cacheKey(req)
	if resp, ok := s.cache.Get(key); ok {
		s.logger.Debug("chart insights served from cache", log.FieldOperation, log.OpRead)
		return resp, nil
	}

	resp, err := s.provider.ChartInsights(ctx, req)
	if err != nil {
		s.logger.Warn("chart insights fetch failed",
			log.FieldOperation, log.OpFetch,
			log.FieldError, err.Error())
		return gateway.ChartInsightsResponse{}, err
	}
	if resp.Success {
		s.cache.Set(key, resp)
	}
	return resp, nil
}

// cacheKey hashes the request series into a stable string. Category keys are
// sorted so the key does not depend on map iteration order.
func cacheKey(req gateway.ChartInsightsRequest) string {
	h := fnv.New64a()
	for _, v := range req.DataPoints {
		h.Write([]byte(strconv.FormatFloat(v, 'g', -1, 64)))
		h.Write([]byte{'|'})
	}
	for _, l := range req.Labels {
		h.Write([]byte(l))
		h.Write([]byte{'|'})
	}
	keys := make([]string, 0, len(req.CategoryData))
	for k := range req.CategoryData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(strconv.FormatFloat(req.CategoryData[k], 'g', -1, 64)))
		h.Write([]byte{'|'})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
