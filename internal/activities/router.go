package activities

import (
	"strconv"
	"strings"
	"unicode"
)

// backendCall is one planned invocation of a named backend.
type backendCall struct {
	backend string
	params  map[string]string
	subject string
}

// planBackendCalls decides which backends to invoke for a request. Each gate is
// evaluated independently; there is no short-circuit between branches. The
// returned synthetic errors cover calls that were gated in but could not be
// parameterized (chart lookup with an incomplete subject).
func planBackendCalls(req InterpretedRequest) ([]backendCall, []SourceError) {
	var calls []backendCall
	var synthetic []SourceError

	oc := req.OriginalContext
	timeframe := normalizeTimeframe(req.TimeframeReference)

	if hasSource(req.RequiredSources, SourceTrendsItem) || hasSource(req.RequiredSources, SourceTrendsCategory) {
		calls = append(calls, backendCall{
			backend: BackendTrendAnalysis,
			params: map[string]string{
				"country":    oc.Country,
				"category":   oc.Category,
				"time_frame": timeframe,
			},
		})
	}

	if hasSource(req.RequiredSources, SourceMegaTrends) {
		calls = append(calls, backendCall{
			backend: BackendMegaTrends,
			params: map[string]string{
				"country":         oc.Country,
				"category":        oc.Category,
				"time_frame":      timeframe,
				"batch_direction": "Previous",
				"category_mode":   "false",
			},
		})
	}

	if len(req.QuerySubjects.SpecificKnown) > 0 {
		// Single-subject policy: only the first recognized subject drives the
		// chart-details call.
		first := req.QuerySubjects.SpecificKnown[0]
		if strings.TrimSpace(first.Subject) == "" || strings.TrimSpace(first.Type) == "" {
			synthetic = append(synthetic, SourceError{
				Source:  BackendChartDetails,
				Error:   "missing subject name or type",
				Details: first,
			})
		} else {
			calls = append(calls, backendCall{
				backend: BackendChartDetails,
				subject: first.Subject,
				params: map[string]string{
					"country":              oc.Country,
					"category":             oc.Category,
					"category_subject_key": categorySubjectKey(oc.Category, first.Subject),
					"time_frame":           chartTimeframe(req.TimeframeReference),
					"mode":                 first.Type,
					"forecast":             strconv.FormatBool(req.PrimaryTask == TaskGetForecast),
				},
			})
		}
	}

	return calls, synthetic
}

// categorySubjectKey builds the chart lookup key: title-cased category and
// subject joined by underscores, e.g. ("denim jackets", "sky blue") ->
// "Denim_Jackets_Sky_Blue".
func categorySubjectKey(category, subject string) string {
	return titleUnderscore(category) + "_" + titleUnderscore(subject)
}

func titleUnderscore(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, "_")
}
