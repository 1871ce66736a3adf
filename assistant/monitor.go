package assistant

import (
	"github.com/poiesic/tupper/filter"
)

// Monitor provides hooks to observe a pipeline run.
// Implementations must be safe for concurrent use when the pipeline is.
type Monitor interface {
	Start(question string)
	AfterExtraction(set filter.ConstraintSet, rejected []filter.Rejection, err error)
	AfterFiltering(strictCount int)
	AfterFallbackCheck(needed int, triggered bool)
	AfterRanking(ranked []filter.ScoredDish)
	AfterFormatting(items []FormattedItem)
	Finish(answer *Answer, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                                        {}
func (n *noopMonitor) AfterExtraction(_ filter.ConstraintSet, _ []filter.Rejection, _ error) {}
func (n *noopMonitor) AfterFiltering(_ int)                                                  {}
func (n *noopMonitor) AfterFallbackCheck(_ int, _ bool)                                      {}
func (n *noopMonitor) AfterRanking(_ []filter.ScoredDish)                                    {}
func (n *noopMonitor) AfterFormatting(_ []FormattedItem)                                     {}
func (n *noopMonitor) Finish(_ *Answer, _ error)                                             {}
