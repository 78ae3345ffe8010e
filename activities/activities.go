package activities

import internal "github.com/trendscope/aggregator-core/internal/activities"

// Activities re-exports the aggregator activities implementation.
type Activities = internal.Activities

// NewActivities returns the shared activities implementation.
var NewActivities = internal.NewActivities

// Re-export the aggregation types for downstream workers.
type (
	InterpretedRequest  = internal.InterpretedRequest
	QuerySubjects       = internal.QuerySubjects
	KnownSubject        = internal.KnownSubject
	OriginalContext     = internal.OriginalContext
	AggregateResult     = internal.AggregateResult
	SourceError         = internal.SourceError
	ExternalFetchResult = internal.ExternalFetchResult
	SearchResult        = internal.SearchResult
	BackendClient       = internal.BackendClient
	SearchClient        = internal.SearchClient
	SecretProvider      = internal.SecretProvider
)
