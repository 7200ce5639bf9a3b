package stats

import (
	"context"
	"sort"

	"github.com/verte-zerg/tuiread/internal/model"
)

// SessionLister loads reading sessions.
type SessionLister interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// LangSummary aggregates sessions of one language.
type LangSummary struct {
	Lang         string
	Sessions     int
	Words        int
	AvgWPM       float64
	CompletedPct float64
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Langs    []LangSummary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st SessionLister, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return Report{
		Sessions: sessions,
		Langs:    summarizeLangs(sessions),
	}, nil
}

func summarizeLangs(sessions []model.SessionAggregate) []LangSummary {
	byLang := map[string]*LangSummary{}
	completed := map[string]int{}
	for _, s := range sessions {
		sum, ok := byLang[s.Lang]
		if !ok {
			sum = &LangSummary{Lang: s.Lang}
			byLang[s.Lang] = sum
		}
		wpm, _ := SessionMetrics(s.WordsRead, s.TotalWords, s.DurationMs)
		sum.Sessions++
		sum.Words += s.WordsRead
		sum.AvgWPM += wpm
		if s.Completed {
			completed[s.Lang]++
		}
	}
	out := make([]LangSummary, 0, len(byLang))
	for lang, sum := range byLang {
		sum.AvgWPM /= float64(sum.Sessions)
		sum.CompletedPct = float64(completed[lang]) / float64(sum.Sessions) * 100
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sessions == out[j].Sessions {
			return out[i].Lang < out[j].Lang
		}
		return out[i].Sessions > out[j].Sessions
	})
	return out
}
