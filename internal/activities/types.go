// Package activities provides Temporal activity implementations for the
// source-routing aggregation tier.
package activities

import "encoding/json"

// Source tokens accepted in InterpretedRequest.RequiredSources.
const (
	SourceTrendsCategory = "internal_trends_category"
	SourceTrendsItem     = "internal_trends_item"
	SourceMegaTrends     = "internal_mega"
	SourceWebSearch      = "web_search"
)

// Backend names used by the router and in per-source error entries.
const (
	BackendTrendAnalysis = "trend_analysis"
	BackendMegaTrends    = "mega_trends"
	BackendChartDetails  = "chart_details"
)

// Aggregate statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// External fetch statuses.
const (
	FetchSkipped = "skipped"
	FetchCached  = "cached"
	FetchFresh   = "fresh"
	FetchError   = "error"
)

// TaskGetForecast is the primaryTask value that turns on the chart forecast flag.
const TaskGetForecast = "get_forecast"

// InterpretedRequest matches the interpretation-service output consumed by the
// aggregation workflow. Created once per user query, immutable thereafter.
type InterpretedRequest struct {
	RequiredSources    []string        `json:"requiredSources"`
	QuerySubjects      QuerySubjects   `json:"querySubjects"`
	OriginalContext    OriginalContext `json:"originalContext"`
	PrimaryTask        string          `json:"primaryTask,omitempty"`
	TimeframeReference string          `json:"timeframeReference,omitempty"`
}

// QuerySubjects carries the entities recognized in the user query.
type QuerySubjects struct {
	SpecificKnown []KnownSubject `json:"specificKnown,omitempty"`
	UnmappedItems []string       `json:"unmappedItems,omitempty"`
}

// KnownSubject is one recognized entity with its kind ("color" or "style").
type KnownSubject struct {
	Subject string `json:"subject"`
	Type    string `json:"type"`
}

// OriginalContext is the literal query plus its category/country scope.
type OriginalContext struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Country  string `json:"country"`
}

// AggregateResult is the single output object of AggregateSources. Each backend
// the router invoked contributes either one data field or one error entry,
// never both.
type AggregateResult struct {
	Status           string             `json:"status"`
	TrendsData       json.RawMessage    `json:"trendsData,omitempty"`
	MegaTrendsData   json.RawMessage    `json:"megaTrendsData,omitempty"`
	ChartDetailsData json.RawMessage    `json:"chartDetailsData,omitempty"`
	Errors           []SourceError      `json:"errors,omitempty"`
	Interpretation   InterpretedRequest `json:"interpretation"`
}

// SourceError records one failed backend call.
type SourceError struct {
	Source  string `json:"source"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Subject string `json:"subject,omitempty"`
}

func (r *AggregateResult) setPayload(backend string, payload json.RawMessage) {
	switch backend {
	case BackendTrendAnalysis:
		r.TrendsData = payload
	case BackendMegaTrends:
		r.MegaTrendsData = payload
	case BackendChartDetails:
		r.ChartDetailsData = payload
	}
}

// ExternalFetchResult is the single output object of FetchWebContext.
type ExternalFetchResult struct {
	Status    string         `json:"status"`
	QueryUsed string         `json:"queryUsed,omitempty"`
	Results   []SearchResult `json:"results"`
	Error     string         `json:"error,omitempty"`
}

// SearchResult is one ranked result from the external search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Outcome is the classified result of one backend call. Exactly one of
// Payload, Backend, Transport is populated.
type Outcome struct {
	Payload   json.RawMessage
	Backend   *BackendErrorInfo
	Transport string
}

// BackendErrorInfo carries an application-level failure reported by a backend,
// with the backend's own error payload kept for diagnostics.
type BackendErrorInfo struct {
	Message string
	Details json.RawMessage
}

func hasSource(sources []string, token string) bool {
	for _, s := range sources {
		if s == token {
			return true
		}
	}
	return false
}
