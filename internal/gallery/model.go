package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"sculptor/internal/api"
	"sculptor/internal/logging"
	"sculptor/internal/services"
)

// State is the gallery's load position.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateEmpty   State = "empty"
	StateFailed  State = "failed"
)

// Lister is the slice of the API client the gallery depends on.
type Lister interface {
	ListClips(ctx context.Context, jobID string) ([]api.Clip, error)
}

// Model holds the clip list for one completed job and a single selection
// within it. Selection changes never refetch; only Load talks to the service.
type Model struct {
	lister Lister
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	jobID    string
	clips    []api.Clip
	selected int
	errMsg   string
}

// ModelOption customizes the gallery model.
type ModelOption func(*Model)

// WithModelLogger attaches a logger.
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel constructs an idle gallery backed by the given lister.
func NewModel(lister Lister, opts ...ModelOption) *Model {
	m := &Model{
		lister:   lister,
		logger:   logging.NewNop(),
		state:    StateIdle,
		selected: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "gallery")
	return m
}

// Load fetches the clip list for jobID and resets the selection to the
// lowest clip index. An empty job ID resets the model to idle without a
// request. A failed fetch keeps the previously loaded list and selection so
// the gallery keeps rendering stale data instead of going blank.
func (m *Model) Load(ctx context.Context, jobID string) error {
	trimmed := strings.TrimSpace(jobID)
	if trimmed == "" {
		m.mu.Lock()
		m.state = StateIdle
		m.jobID = ""
		m.clips = nil
		m.selected = -1
		m.errMsg = ""
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.state = StateLoading
	m.jobID = trimmed
	m.errMsg = ""
	m.mu.Unlock()

	clips, err := m.lister.ListClips(ctx, trimmed)
	if err != nil {
		msg := "failed to load clips"
		if detail, ok := api.ErrorDetail(err); ok {
			msg = detail
		}
		m.mu.Lock()
		m.state = StateFailed
		m.errMsg = msg
		m.mu.Unlock()
		m.logger.Warn("clip list fetch failed",
			logging.String(logging.FieldJobID, trimmed),
			logging.Error(err),
		)
		return err
	}

	sorted := make([]api.Clip, len(clips))
	copy(sorted, clips)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClipIndex < sorted[j].ClipIndex
	})

	m.mu.Lock()
	m.clips = sorted
	if len(sorted) == 0 {
		m.state = StateEmpty
		m.selected = -1
	} else {
		m.state = StateLoaded
		m.selected = sorted[0].ClipIndex
	}
	m.mu.Unlock()

	m.logger.Info("clip list loaded",
		logging.String(logging.FieldJobID, trimmed),
		logging.Int("clips", len(sorted)),
	)
	return nil
}

// Select moves the selection to the clip with the given index. The index
// must belong to the loaded list; selection is local and issues no request.
func (m *Model) Select(clipIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, clip := range m.clips {
		if clip.ClipIndex == clipIndex {
			m.selected = clipIndex
			return nil
		}
	}
	return services.Wrap(services.ErrValidation, "gallery", "select",
		fmt.Sprintf("no clip with index %d", clipIndex), nil)
}

// Selected returns the currently selected clip.
func (m *Model) Selected() (api.Clip, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, clip := range m.clips {
		if clip.ClipIndex == m.selected {
			return clip, true
		}
	}
	return api.Clip{}, false
}

// SelectedIndex returns the selected clip index, or -1 with no selection.
func (m *Model) SelectedIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Clips returns a copy of the loaded list in ascending clip index order.
func (m *Model) Clips() []api.Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Clip, len(m.clips))
	copy(out, m.clips)
	return out
}

// State returns the current load state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// JobID returns the job the model is showing.
func (m *Model) JobID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobID
}

// Err returns the display message from the last failed load.
func (m *Model) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}
