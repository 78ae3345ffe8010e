// Package activities implements Temporal activities for the aggregation tier
// of the query-answering pipeline.
package activities

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/trendscope/aggregator-core/internal/cachestore"
)

// Activities holds the aggregation activities and their collaborators. All
// external resources (backend client, cache store, search client) are injected
// at construction; lifetime is managed by the worker process.
type Activities struct {
	backends BackendClient
	cache    cachestore.Store
	search   SearchClient
	cacheTTL time.Duration

	counters aggregationCounters
}

// NewActivities creates a new Activities instance.
func NewActivities(backends BackendClient, cache cachestore.Store, search SearchClient) *Activities {
	ttl := defaultCacheTTL
	if v := getenv("WEB_CACHE_TTL_SECONDS", ""); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return &Activities{
		backends: backends,
		cache:    cache,
		search:   search,
		cacheTTL: ttl,
	}
}

// =============================================================================
// ACTIVITY 1: AggregateSources
// =============================================================================

// AggregateSources routes an interpreted request to the backends it names and
// merges their outcomes into one aggregate. Backend failures are isolated per
// source and recorded in the result's error list; the activity itself only
// fails for malformed input.
func (a *Activities) AggregateSources(ctx context.Context, req InterpretedRequest) (*AggregateResult, error) {
	logger := activity.GetLogger(ctx)

	if req.RequiredSources == nil {
		return nil, fmt.Errorf("requiredSources is required")
	}
	if strings.TrimSpace(req.OriginalContext.Country) == "" {
		return nil, fmt.Errorf("originalContext.country is required")
	}
	if strings.TrimSpace(req.OriginalContext.Category) == "" {
		return nil, fmt.Errorf("originalContext.category is required")
	}

	result := &AggregateResult{Status: StatusSuccess, Interpretation: req}

	calls, synthetic := planBackendCalls(req)
	result.Errors = append(result.Errors, synthetic...)

	logger.Info("routing sources",
		"requiredSources", req.RequiredSources,
		"planned", len(calls),
		"skipped", len(synthetic))

	// The planned calls are mutually independent; issue them concurrently,
	// each under its own deadline inside the invoker. Merge order does not
	// affect the final value: every backend writes a distinct field or
	// appends a tagged error entry.
	type contribution struct {
		backend string
		subject string
		outcome Outcome
	}
	ch := make(chan contribution, len(calls))
	var wg sync.WaitGroup
	for _, call := range calls {
		wg.Add(1)
		go func(call backendCall) {
			defer wg.Done()
			ch <- contribution{
				backend: call.backend,
				subject: call.subject,
				outcome: a.backends.Invoke(ctx, call.backend, call.params),
			}
		}(call)
	}
	wg.Wait()
	close(ch)

	for c := range ch {
		switch {
		case c.outcome.Payload != nil:
			result.setPayload(c.backend, c.outcome.Payload)
		case c.outcome.Backend != nil:
			a.counters.incBackendErr()
			logger.Warn("backend reported error", "backend", c.backend, "err", c.outcome.Backend.Message)
			result.Errors = append(result.Errors, SourceError{
				Source:  c.backend,
				Error:   c.outcome.Backend.Message,
				Details: c.outcome.Backend.Details,
				Subject: c.subject,
			})
		default:
			a.counters.incTransportErr()
			logger.Warn("backend call failed", "backend", c.backend, "err", c.outcome.Transport)
			result.Errors = append(result.Errors, SourceError{
				Source:  c.backend,
				Error:   c.outcome.Transport,
				Subject: c.subject,
			})
		}
	}

	if len(result.Errors) > 0 {
		result.Status = StatusPartial
	}

	logger.Info("source aggregation complete",
		"invoked", len(calls),
		"errors", len(result.Errors),
		"status", result.Status)

	return result, nil
}
