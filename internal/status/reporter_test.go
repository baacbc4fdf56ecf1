package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charleira/b3penny/internal/model"
	"github.com/charleira/b3penny/internal/snapshot"
)

// mockUpdates returns a fixed update state.
type mockUpdates struct {
	state model.UpdateState
}

func (m *mockUpdates) State() model.UpdateState {
	return m.state
}

func TestStatus_NoSnapshot(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.New(filepath.Join(dir, "stocks.json"), filepath.Join(dir, "cotahist.json"), nil, nil)
	r := NewReporter(store, &mockUpdates{state: model.UpdateState{Running: true}})

	st := r.Status()

	if st.Available {
		t.Error("Available = true without a snapshot")
	}
	if !st.UpdateInProgress {
		t.Error("UpdateInProgress = false, want the live running flag")
	}
	if st.GeneratedAt != "" || st.Source != "" || st.TotalCount != 0 {
		t.Errorf("snapshot fields leaked into unavailable status: %+v", st)
	}
}

func TestStatus_WithSnapshot(t *testing.T) {
	dir := t.TempDir()
	stocksPath := filepath.Join(dir, "stocks.json")
	payload := `{
	  "atualizadoEm": "05/01/2026 14:30",
	  "dataReferencia": "2026-01-05",
	  "fonte": "cotahist-python + yfinance",
	  "totalAcoes": 2,
	  "acoes": [{"ticker": "AAAA3"}, {"ticker": "BBBB4"}]
	}`
	if err := os.WriteFile(stocksPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	started := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	finished := started.Add(4 * time.Minute)
	updates := &mockUpdates{state: model.UpdateState{
		LastStartedAt:  &started,
		LastFinishedAt: &finished,
	}}

	store := snapshot.New(stocksPath, filepath.Join(dir, "cotahist.json"), nil, nil)
	st := NewReporter(store, updates).Status()

	if !st.Available {
		t.Fatal("Available = false with a snapshot present")
	}
	if st.GeneratedAt != "05/01/2026 14:30" {
		t.Errorf("GeneratedAt = %q", st.GeneratedAt)
	}
	if st.ReferenceDate != "2026-01-05" {
		t.Errorf("ReferenceDate = %q", st.ReferenceDate)
	}
	if st.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", st.TotalCount)
	}
	if st.UpdateInProgress {
		t.Error("UpdateInProgress = true, want false")
	}
	if st.LastUpdateFinishedAt == nil || !st.LastUpdateFinishedAt.Equal(finished) {
		t.Errorf("LastUpdateFinishedAt = %v, want %v", st.LastUpdateFinishedAt, finished)
	}
}

func TestStatus_ZeroStocksStillCounted(t *testing.T) {
	// A snapshot where no equity passed the price filter is available with
	// totalCount 0; the count must stay on the wire.
	dir := t.TempDir()
	stocksPath := filepath.Join(dir, "stocks.json")
	payload := `{
	  "atualizadoEm": "05/01/2026 14:30",
	  "dataReferencia": "2026-01-05",
	  "fonte": "cotahist-python + yfinance",
	  "totalAcoes": 0,
	  "acoes": []
	}`
	if err := os.WriteFile(stocksPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	store := snapshot.New(stocksPath, filepath.Join(dir, "cotahist.json"), nil, nil)
	st := NewReporter(store, &mockUpdates{}).Status()

	if !st.Available {
		t.Fatal("Available = false with an empty but valid snapshot")
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal status: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if got, present := body["totalCount"]; !present || got != float64(0) {
		t.Errorf("totalCount = %v (present=%v), want 0 on the wire", got, present)
	}
}

func TestStatus_SurfacesLastError(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.New(filepath.Join(dir, "stocks.json"), filepath.Join(dir, "cotahist.json"), nil, nil)
	updates := &mockUpdates{state: model.UpdateState{LastError: "update timed out after 10m0s"}}

	st := NewReporter(store, updates).Status()

	if st.LastUpdateError == "" {
		t.Error("LastUpdateError not surfaced")
	}
}
