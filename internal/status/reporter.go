package status

import (
	"time"

	"github.com/charleira/b3penny/internal/model"
	"github.com/charleira/b3penny/internal/snapshot"
)

// UpdateSource exposes the orchestrator's state to the reporter.
type UpdateSource interface {
	State() model.UpdateState
}

// Status is the freshness/availability view served on /api/status. Snapshot
// fields are only set when a snapshot is available; the update fields always
// reflect the most recent run.
type Status struct {
	Available            bool       `json:"available"`
	GeneratedAt          string     `json:"generatedAt,omitempty"`
	ReferenceDate        string     `json:"referenceDate,omitempty"`
	Source               string     `json:"source,omitempty"`
	TotalCount           int        `json:"totalCount"`
	UpdateInProgress     bool       `json:"updateInProgress"`
	LastUpdateStartedAt  *time.Time `json:"lastUpdateStartedAt,omitempty"`
	LastUpdateFinishedAt *time.Time `json:"lastUpdateFinishedAt,omitempty"`
	LastUpdateError      string     `json:"lastUpdateError,omitempty"`
}

// Reporter builds Status views.
type Reporter struct {
	store   *snapshot.Store
	updates UpdateSource
}

// NewReporter creates a Reporter.
func NewReporter(store *snapshot.Store, updates UpdateSource) *Reporter {
	return &Reporter{store: store, updates: updates}
}

// Status returns the current freshness view.
func (r *Reporter) Status() Status {
	state := r.updates.State()

	st := Status{
		UpdateInProgress:     state.Running,
		LastUpdateStartedAt:  state.LastStartedAt,
		LastUpdateFinishedAt: state.LastFinishedAt,
		LastUpdateError:      state.LastError,
	}

	snap, ok := r.store.LoadEquities()
	if !ok {
		return st
	}

	st.Available = true
	st.GeneratedAt = snap.GeneratedAt
	st.ReferenceDate = snap.ReferenceDate
	st.Source = snap.Source
	st.TotalCount = snap.TotalCount
	return st
}
