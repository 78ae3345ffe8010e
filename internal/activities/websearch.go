package activities

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/trendscope/aggregator-core/internal/cachestore"
)

const (
	maxQueryLength   = 1000
	maxSearchResults = 5
	searchDepth      = "advanced"
	defaultCacheTTL  = 6 * time.Hour
)

// =============================================================================
// ACTIVITY 2: FetchWebContext
// =============================================================================

// FetchWebContext serves the external-search step for a request: a fresh cache
// entry wins outright, otherwise the provider is queried and a non-empty
// result set is written back with a new expiry. Cache-layer failures degrade
// (read failure is a miss, write failure is logged); only a provider failure
// fails the fetch, and even that is reported in the result rather than as an
// activity error.
func (a *Activities) FetchWebContext(ctx context.Context, req InterpretedRequest) (*ExternalFetchResult, error) {
	logger := activity.GetLogger(ctx)

	if !hasSource(req.RequiredSources, SourceWebSearch) {
		return &ExternalFetchResult{Status: FetchSkipped, Results: []SearchResult{}}, nil
	}

	query := buildSearchQuery(req)
	key := cacheKey(query)
	now := time.Now().UTC()

	entry, err := a.cache.Get(ctx, key)
	if err != nil {
		// Read failure is treated as a miss.
		logger.Warn("cache read failed", "key", key, "err", err)
		entry = nil
	}
	if entry != nil && entry.ExpiresAt.After(now) {
		var results []SearchResult
		if err := json.Unmarshal(entry.Payload, &results); err == nil {
			a.counters.incCacheHit()
			logger.Info("web context served from cache", "key", key, "results", len(results))
			return &ExternalFetchResult{Status: FetchCached, QueryUsed: query, Results: results}, nil
		}
		logger.Warn("cache entry undecodable, refetching", "key", key, "err", err)
	}

	a.counters.incProviderCall()
	results, err := a.search.Search(ctx, query, maxSearchResults, searchDepth)
	if err != nil {
		logger.Warn("search provider failed", "key", key, "err", err)
		return &ExternalFetchResult{
			Status:    FetchError,
			QueryUsed: query,
			Results:   []SearchResult{},
			Error:     err.Error(),
		}, nil
	}
	if results == nil {
		results = []SearchResult{}
	}

	if len(results) > 0 {
		payload, _ := json.Marshal(results)
		put := cachestore.Entry{
			Key:       key,
			QueryText: query,
			Payload:   payload,
			WrittenAt: now,
			ExpiresAt: now.Add(a.cacheTTL),
		}
		if err := a.cache.Put(ctx, put); err != nil {
			// The fresh result still goes back to the caller.
			logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	logger.Info("web context fetched", "key", key, "results", len(results))
	return &ExternalFetchResult{Status: FetchFresh, QueryUsed: query, Results: results}, nil
}

// buildSearchQuery formulates the canonical query text: the non-empty parts of
// the original context plus recognized and unmapped subjects, space-separated,
// capped at maxQueryLength. This exact string is both the cache-key pre-image
// and the literal provider query.
func buildSearchQuery(req InterpretedRequest) string {
	var parts []string
	if q := strings.TrimSpace(req.OriginalContext.Query); q != "" {
		parts = append(parts, q)
	}
	if c := strings.TrimSpace(req.OriginalContext.Category); c != "" {
		parts = append(parts, "category: "+c)
	}
	if c := strings.TrimSpace(req.OriginalContext.Country); c != "" {
		parts = append(parts, "country: "+c)
	}
	var subjects []string
	for _, s := range req.QuerySubjects.SpecificKnown {
		if v := strings.TrimSpace(s.Subject); v != "" {
			subjects = append(subjects, v)
		}
	}
	if len(subjects) > 0 {
		parts = append(parts, "specific items: "+strings.Join(subjects, ", "))
	}
	var unmapped []string
	for _, s := range req.QuerySubjects.UnmappedItems {
		if v := strings.TrimSpace(s); v != "" {
			unmapped = append(unmapped, v)
		}
	}
	if len(unmapped) > 0 {
		parts = append(parts, "related terms: "+strings.Join(unmapped, ", "))
	}

	query := strings.Join(parts, " ")
	if len(query) > maxQueryLength {
		query = query[:maxQueryLength]
	}
	return query
}

// cacheKey derives the cache key as the hex-encoded SHA-256 digest of the
// canonical query text. Distinct interpretations that formulate identical
// query text share one entry on purpose.
func cacheKey(queryText string) string {
	h := sha256.Sum256([]byte(queryText))
	return hex.EncodeToString(h[:])
}
