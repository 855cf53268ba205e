package tools

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Hinneman/opalseotool/analyzer"
	"github.com/Hinneman/opalseotool/stats"
)

// AnalyzePageOperation is the name the page-analysis capability registers
// under.
const AnalyzePageOperation = "analyze_page"

// AnalyzeParams is the typed parameter object for analyze_page.
type AnalyzeParams struct {
	URL string `json:"url"`
}

// RegisterAnalyzePage binds the analysis pipeline to the registry as the
// analyze_page operation. The handler always returns either
// *analyzer.AnalysisResult or analyzer.ErrorResult. Outcomes are recorded
// against the given usage storage; a nil storage disables recording.
func RegisterAnalyzePage(registry *Registry, seo *analyzer.Analyzer, usage *stats.Storage) {
	registry.Register(AnalyzePageOperation, func(ctx context.Context, raw json.RawMessage) any {
		var params AnalyzeParams
		if err := json.Unmarshal(raw, &params); err != nil {
			record(usage, stats.OutcomeInvalidURL, 0)
			return analyzer.ErrorResult{Error: `Invalid parameters: expected a JSON object with a "url" field`}
		}
		if params.URL == "" {
			record(usage, stats.OutcomeInvalidURL, 0)
			return analyzer.ErrorResult{Error: "Invalid URL format"}
		}

		start := time.Now()
		result, err := seo.AnalyzeWithContext(ctx, params.URL)
		elapsed := float64(time.Since(start).Milliseconds())

		if err != nil {
			record(usage, outcomeFor(err), elapsed)
			return analyzer.ErrorResultFrom(err)
		}

		record(usage, stats.OutcomeSuccess, elapsed)
		return result
	})
}

func record(usage *stats.Storage, outcome stats.Outcome, loadTimeMs float64) {
	if usage != nil {
		usage.Record(outcome, loadTimeMs)
	}
}

func outcomeFor(err error) stats.Outcome {
	var analysisErr *analyzer.AnalysisError
	if !errors.As(err, &analysisErr) {
		return stats.OutcomeUnexpected
	}
	switch analysisErr.Kind {
	case analyzer.KindInvalidURL:
		return stats.OutcomeInvalidURL
	case analyzer.KindFetchFailed:
		return stats.OutcomeFetchError
	default:
		return stats.OutcomeUnexpected
	}
}
