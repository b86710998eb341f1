package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// ResultLister is the store capability needed to build a report.
type ResultLister interface {
	ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.QuizResult, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Results []model.QuizResult
	Window  int
}

// BuildReport loads the results selected by cfg.
func BuildReport(ctx context.Context, st ResultLister, cfg model.HistoryConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{Results: results, Window: cfg.Window}, nil
}

// Render writes the summary, trend and table sections.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Results, r.Window); err != nil {
		return err
	}
	return RenderResultTable(w, r.Results)
}
