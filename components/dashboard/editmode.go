package dashboard

import "sync"

// EditModeState is a snapshot of the edit mode controller.
type EditModeState struct {
	Enabled  bool   `json:"enabled"`
	Selected string `json:"selectedWidget,omitempty"`
	Dragged  string `json:"draggedWidget,omitempty"`
}

// EditMode gates add/remove/reorder affordances. It starts in view mode and
// is never persisted.
type EditMode struct {
	mu     sync.RWMutex
	state  EditModeState
	onExit []func()
}

// NewEditMode returns a controller in view mode.
func NewEditMode() *EditMode {
	return &EditMode{}
}

// State returns the current snapshot.
func (e *EditMode) State() EditModeState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Enabled reports whether edit mode is on.
func (e *EditMode) Enabled() bool {
	return e.State().Enabled
}

// SetEnabled switches modes. Leaving edit mode clears the selection and the
// dragged widget, then runs the OnExit callbacks.
func (e *EditMode) SetEnabled(enabled bool) EditModeState {
	e.mu.Lock()
	state, exited := e.setEnabledLocked(enabled)
	callbacks := e.onExit
	e.mu.Unlock()
	if exited {
		runCallbacks(callbacks)
	}
	return state
}

// Toggle flips the mode.
func (e *EditMode) Toggle() EditModeState {
	e.mu.Lock()
	state, exited := e.setEnabledLocked(!e.state.Enabled)
	callbacks := e.onExit
	e.mu.Unlock()
	if exited {
		runCallbacks(callbacks)
	}
	return state
}

// OnExit registers fn to run each time edit mode is switched off. Callbacks
// run without the controller lock held.
func (e *EditMode) OnExit(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onExit = append(e.onExit, fn)
}

func (e *EditMode) setEnabledLocked(enabled bool) (EditModeState, bool) {
	exited := e.state.Enabled && !enabled
	e.state.Enabled = enabled
	if !enabled {
		e.state.Selected = ""
		e.state.Dragged = ""
	}
	return e.state, exited
}

func runCallbacks(callbacks []func()) {
	for _, fn := range callbacks {
		fn()
	}
}

// Select marks a widget as selected. Ignored in view mode; "" clears.
func (e *EditMode) Select(widgetID string) EditModeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Enabled {
		e.state.Selected = widgetID
	}
	return e.state
}

// SetDragged records the widget being dragged. Ignored in view mode.
func (e *EditMode) SetDragged(widgetID string) EditModeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Enabled {
		e.state.Dragged = widgetID
	}
	return e.state
}

// Forget clears the selection if it points at widgetID.
func (e *EditMode) Forget(widgetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Selected == widgetID {
		e.state.Selected = ""
	}
	if e.state.Dragged == widgetID {
		e.state.Dragged = ""
	}
}
