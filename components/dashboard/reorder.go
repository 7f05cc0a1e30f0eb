package dashboard

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// EmptySlotPrefix prefixes the ids of placeholder grid slots.
	EmptySlotPrefix = "empty-"
	minGridSlots    = 8
	minEmptySlots   = 4
)

var (
	// ErrDragInProgress is returned when a gesture starts while another is open.
	ErrDragInProgress = errors.New("dashboard: a drag is already in progress")
	// ErrNotDragging is returned when a gesture ends without having started.
	ErrNotDragging = errors.New("dashboard: no drag in progress")
	// ErrEditModeOff is returned when a gesture starts outside edit mode.
	ErrEditModeOff   = errors.New("dashboard: edit mode is off")
	errInvalidSource = errors.New("dashboard: drag source is invalid")
)

// EmptySlotCount returns how many placeholders follow n widgets.
func EmptySlotCount(n int) int {
	return max(minGridSlots-n, minEmptySlots)
}

// IsEmptySlot reports whether id names a placeholder slot.
func IsEmptySlot(id string) bool {
	rest, ok := strings.CutPrefix(id, EmptySlotPrefix)
	if !ok {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

// GridItem is one cell of the edit grid: a widget or an empty slot.
type GridItem struct {
	ID     string `json:"id"`
	Empty  bool   `json:"empty"`
	Widget Widget `json:"widget"`
}

// GridItems lays out widgets followed by the empty slots.
func GridItems(widgets []Widget) []GridItem {
	slots := EmptySlotCount(len(widgets))
	items := make([]GridItem, 0, len(widgets)+slots)
	for _, w := range widgets {
		items = append(items, GridItem{ID: w.ID, Widget: w})
	}
	for i := 0; i < slots; i++ {
		items = append(items, GridItem{ID: EmptySlotPrefix + strconv.Itoa(i), Empty: true})
	}
	return items
}

// SourceKind distinguishes what is being dragged.
type SourceKind string

const (
	SourceWidget   SourceKind = "widget"
	SourceTemplate SourceKind = "widget-template"
)

// DragSource is the item picked up by a drag gesture.
type DragSource struct {
	Kind     SourceKind      `json:"kind"`
	ID       string          `json:"id,omitempty"`
	Template *WidgetTemplate `json:"template,omitempty"`
}

func (s DragSource) valid() bool {
	switch s.Kind {
	case SourceWidget:
		return s.ID != ""
	case SourceTemplate:
		return s.Template != nil && s.Template.Type != ""
	}
	return false
}

// DropOutcome classifies how a drop resolved.
type DropOutcome string

const (
	DropAbandoned DropOutcome = "abandoned"
	DropIgnored   DropOutcome = "ignored"
	DropMoved     DropOutcome = "moved"
	DropPlaced    DropOutcome = "placed"
	DropInserted  DropOutcome = "inserted"
	DropAppended  DropOutcome = "appended"
)

// DropResult is the widget sequence after a drop. Added is set for template
// drops.
type DropResult struct {
	Widgets []Widget    `json:"widgets"`
	Outcome DropOutcome `json:"outcome"`
	Added   *Widget     `json:"added,omitempty"`
}

// Changed reports whether the drop produced a new sequence.
func (r DropResult) Changed() bool {
	switch r.Outcome {
	case DropMoved, DropPlaced, DropInserted, DropAppended:
		return true
	}
	return false
}

// ResolveDrop computes the widget sequence produced by dropping source on
// targetID. An empty targetID means the drop landed outside the grid.
func ResolveDrop(widgets []Widget, source DragSource, targetID string, factory *WidgetFactory) DropResult {
	unchanged := func(outcome DropOutcome) DropResult {
		return DropResult{Widgets: widgets, Outcome: outcome}
	}
	if targetID == "" || !source.valid() {
		return unchanged(DropAbandoned)
	}
	grid := GridItems(widgets)
	target := indexOfGridItem(grid, targetID)

	if source.Kind == SourceTemplate {
		if factory == nil {
			return unchanged(DropAbandoned)
		}
		added := factory.FromTemplate(*source.Template)
		if target < 0 {
			out, _ := Reduce(widgets, AppendWidget(added))
			return DropResult{Widgets: out, Outcome: DropAppended, Added: &added}
		}
		item := GridItem{ID: added.ID, Widget: added}
		outcome := DropInserted
		items := append([]GridItem(nil), grid...)
		if items[target].Empty {
			items[target] = item
			outcome = DropPlaced
		} else {
			items = append(items[:target], append([]GridItem{item}, items[target:]...)...)
		}
		return DropResult{Widgets: widgetsOf(items), Outcome: outcome, Added: &added}
	}

	if source.ID == targetID {
		return unchanged(DropIgnored)
	}
	from := indexOfGridItem(grid, source.ID)
	if from < 0 || target < 0 {
		return unchanged(DropAbandoned)
	}
	if grid[from].Empty || grid[target].Empty {
		return unchanged(DropIgnored)
	}
	return DropResult{Widgets: widgetsOf(moveItem(grid, from, target)), Outcome: DropMoved}
}

func moveItem(items []GridItem, from, to int) []GridItem {
	out := make([]GridItem, 0, len(items))
	moved := items[from]
	for i, item := range items {
		if i == from {
			continue
		}
		out = append(out, item)
	}
	out = append(out[:to], append([]GridItem{moved}, out[to:]...)...)
	return out
}

func widgetsOf(items []GridItem) []Widget {
	out := make([]Widget, 0, len(items))
	for _, item := range items {
		if !item.Empty {
			out = append(out, item.Widget)
		}
	}
	return out
}

func indexOfGridItem(items []GridItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// WidgetFactoryOptions configures a WidgetFactory.
type WidgetFactoryOptions struct {
	IDs  func() string
	Rand *rand.Rand
	// Devices returns the pool new widgets are bound to.
	Devices func() []string
}

// WidgetFactory builds widgets from templates. Device assignment draws from
// the injected random source so tests can seed it.
type WidgetFactory struct {
	mu      sync.Mutex
	ids     func() string
	rand    *rand.Rand
	devices func() []string
}

// NewWidgetFactory builds a factory with uuid ids and the eight mock devices.
func NewWidgetFactory(opts WidgetFactoryOptions) *WidgetFactory {
	if opts.IDs == nil {
		opts.IDs = func() string { return "widget-" + uuid.NewString() }
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Devices == nil {
		opts.Devices = defaultDevicePool
	}
	return &WidgetFactory{ids: opts.IDs, rand: opts.Rand, devices: opts.Devices}
}

// NewID returns a fresh widget id.
func (f *WidgetFactory) NewID() string {
	return f.ids()
}

// FromTemplate builds a medium widget with the default customization.
func (f *WidgetFactory) FromTemplate(t WidgetTemplate) Widget {
	return Widget{
		ID:            f.NewID(),
		DeviceID:      f.pickDevice(),
		Type:          t.Type,
		Size:          SizeMedium,
		Customization: DefaultCustomization(),
	}
}

func (f *WidgetFactory) pickDevice() string {
	pool := f.devices()
	if len(pool) == 0 {
		return ""
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return pool[f.rand.Intn(len(pool))]
}

func defaultDevicePool() []string {
	pool := make([]string, 8)
	for i := range pool {
		pool[i] = "device-" + strconv.Itoa(i+1)
	}
	return pool
}

// DragState is the phase of a drag gesture.
type DragState string

const (
	DragIdle     DragState = "idle"
	DragDragging DragState = "dragging"
	DragDropped  DragState = "dropped"
)

// DragSession tracks one drag gesture: idle -> dragging -> dropped, with
// cancel returning to idle. It is not safe for concurrent use.
type DragSession struct {
	state  DragState
	source DragSource
	target string
}

// State returns the current phase.
func (s *DragSession) State() DragState {
	if s.state == "" {
		return DragIdle
	}
	return s.state
}

// Source returns the item being dragged, if any.
func (s *DragSession) Source() (DragSource, bool) {
	if s.State() != DragDragging {
		return DragSource{}, false
	}
	return s.source, true
}

// Target returns the target of the last drop ("" when dropped outside).
func (s *DragSession) Target() string { return s.target }

// Begin starts dragging source.
func (s *DragSession) Begin(source DragSource) error {
	if s.State() == DragDragging {
		return ErrDragInProgress
	}
	if !source.valid() {
		return errInvalidSource
	}
	s.state, s.source, s.target = DragDragging, source, ""
	return nil
}

// Drop ends the gesture on targetID and returns the dragged source.
func (s *DragSession) Drop(targetID string) (DragSource, error) {
	if s.State() != DragDragging {
		return DragSource{}, ErrNotDragging
	}
	source := s.source
	s.state, s.source, s.target = DragDropped, DragSource{}, targetID
	return source, nil
}

// Cancel abandons the gesture.
func (s *DragSession) Cancel() {
	s.state, s.source, s.target = DragIdle, DragSource{}, ""
}
