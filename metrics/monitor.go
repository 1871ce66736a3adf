package metrics

import (
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/filter"
)

// PipelineMonitor records pipeline runs. It keeps no per-run state, so one
// monitor serves concurrent questions.
type PipelineMonitor struct {
	m *Metrics
}

var _ assistant.Monitor = (*PipelineMonitor)(nil)

// PipelineMonitor returns a monitor that feeds m.
func (m *Metrics) PipelineMonitor() *PipelineMonitor {
	return &PipelineMonitor{m: m}
}

func (pm *PipelineMonitor) Start(string) {}

func (pm *PipelineMonitor) AfterExtraction(set filter.ConstraintSet, rejected []filter.Rejection, err error) {
	if err != nil {
		return
	}
	for _, c := range set.Constraints() {
		pm.m.ConstraintsApplied.WithLabelValues(c.Key()).Inc()
	}
	for _, r := range rejected {
		pm.m.RejectedFilters.WithLabelValues(rejectedKey(r.Key)).Inc()
	}
}

func (pm *PipelineMonitor) AfterFiltering(strictCount int) {
	pm.m.StrictMatches.Observe(float64(strictCount))
}

func (pm *PipelineMonitor) AfterFallbackCheck(_ int, triggered bool) {
	if triggered {
		pm.m.FallbackTriggered.Inc()
	}
}

func (pm *PipelineMonitor) AfterRanking(ranked []filter.ScoredDish) {
	pm.m.FallbackMatches.Observe(float64(len(ranked)))
}

func (pm *PipelineMonitor) AfterFormatting([]assistant.FormattedItem) {}

func (pm *PipelineMonitor) Finish(answer *assistant.Answer, err error) {
	state := "error"
	if answer != nil && err == nil {
		state = answer.State.String()
	}
	pm.m.QuestionsTotal.WithLabelValues(state).Inc()
	if answer != nil {
		pm.m.QuestionDuration.Observe(answer.Duration.Seconds())
	}
}

// rejectedKey bounds label cardinality: extraction output can invent keys.
func rejectedKey(key string) string {
	if key == filter.KcalKey {
		return key
	}
	if _, ok := core.ParseTag(key); ok {
		return key
	}
	return "other"
}
