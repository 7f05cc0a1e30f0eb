package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	errViewNotFound     = errors.New("dashboard: view not found")
	errDuplicateWidget  = errors.New("dashboard: widget id already present in view")
	errWidgetIDRequired = errors.New("dashboard: widget id is required")
)

// Options configures the dashboard Service. Collaborators are interfaces or
// small stores so applications can swap implementations.
type Options struct {
	Configs     *ConfigStore
	Presets     *PresetStore
	Factory     *WidgetFactory
	// EditMode, when set, gates drag sessions and tracks the dragged and
	// selected widgets.
	EditMode    *EditMode
	RefreshHook RefreshHook
	Notifier    Notifier
	Telemetry   Telemetry
	Logger      *zap.Logger
}

// Service is the widget/layout controller. It holds a working copy of the
// configuration and writes it through the ConfigStore after every mutation of
// the active view.
type Service struct {
	opts Options

	mu     sync.Mutex
	loaded bool
	config Configuration
	viewID string
	drag   DragSession
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Configs == nil {
		opts.Configs = NewConfigStore(ConfigStoreOptions{Logger: opts.Logger})
	}
	if opts.Presets == nil {
		opts.Presets = NewPresetStore(PresetStoreOptions{Configs: opts.Configs, Logger: opts.Logger})
	}
	if opts.Factory == nil {
		opts.Factory = NewWidgetFactory(WidgetFactoryOptions{})
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Notifier = normalizeNotifier(opts.Notifier)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	s := &Service{opts: opts}
	if opts.EditMode != nil {
		opts.EditMode.OnExit(s.CancelDrag)
	}
	return s
}

// Reload discards the working copy and reads the stored configuration.
func (s *Service) Reload(ctx context.Context) Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked(ctx)
	return s.config.Clone()
}

// Configuration returns a copy of the working configuration.
func (s *Service) Configuration(ctx context.Context) Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.config.Clone()
}

// ActiveView returns the view mutations apply to.
func (s *Service) ActiveView(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	view := s.config.Views[s.viewIndex()]
	view.Widgets = cloneWidgets(view.Widgets)
	return view
}

// Widgets returns the widgets of the active view.
func (s *Service) Widgets(ctx context.Context) []Widget {
	return s.ActiveView(ctx).Widgets
}

// Reset restores the default configuration and notifies subscribers.
func (s *Service) Reset(ctx context.Context) Configuration {
	s.mu.Lock()
	s.config = s.opts.Configs.Reset(ctx)
	s.loaded = true
	s.viewID = s.config.Views[0].ID
	s.cancelDragLocked()
	event := LayoutEvent{ViewID: s.viewID, WidgetIDs: widgetIDs(s.activeWidgets()), Reason: "reset"}
	cfg := s.config.Clone()
	s.mu.Unlock()

	s.emit(ctx, event)
	s.recordTelemetry(ctx, "dashboard.reset", map[string]any{"count": len(event.WidgetIDs)})
	return cfg
}

// SelectView switches the active view.
func (s *Service) SelectView(ctx context.Context, viewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if _, ok := s.config.View(viewID); !ok {
		return fmt.Errorf("%w: %s", errViewNotFound, viewID)
	}
	s.viewID = viewID
	return nil
}

// AddWidget appends w to the active view. A missing id is generated.
func (s *Service) AddWidget(ctx context.Context, w Widget) (Widget, error) {
	w, err := normalizeWidget(w)
	if err != nil {
		return Widget{}, err
	}
	if w.ID == "" {
		w.ID = s.opts.Factory.NewID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if indexOfWidget(s.activeWidgets(), w.ID) >= 0 {
		return Widget{}, fmt.Errorf("%w: %s", errDuplicateWidget, w.ID)
	}
	s.applyLocked(ctx, AppendWidget(w), &w)
	return w, nil
}

// UpdateWidget merges patch into the widget. Unknown ids are ignored and
// reported through the boolean.
func (s *Service) UpdateWidget(ctx context.Context, id string, patch WidgetPatch) (Widget, bool, error) {
	if err := patch.validate(); err != nil {
		return Widget{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if !s.applyLocked(ctx, PatchWidget(id, patch), nil) {
		return Widget{}, false, nil
	}
	widgets := s.activeWidgets()
	return widgets[indexOfWidget(widgets, id)], true, nil
}

// RemoveWidget deletes the widget. Unknown ids are ignored.
func (s *Service) RemoveWidget(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	widgets := s.activeWidgets()
	idx := indexOfWidget(widgets, id)
	if idx < 0 {
		return false
	}
	removed := widgets[idx]
	s.applyLocked(ctx, DeleteWidget(id), &removed)
	if source, ok := s.drag.Source(); ok && source.Kind == SourceWidget && source.ID == id {
		s.cancelDragLocked()
	}
	if s.opts.EditMode != nil {
		s.opts.EditMode.Forget(id)
	}
	s.opts.Notifier.Notify(ctx, Toast{
		Variant:     ToastSuccess,
		Title:       string(removed.Type) + " deleted successfully",
		Description: "The widget has been removed from your dashboard.",
	})
	return true
}

// DuplicateWidget appends a copy of the widget under a fresh id.
func (s *Service) DuplicateWidget(ctx context.Context, id string) (Widget, bool) {
	newID := s.opts.Factory.NewID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if !s.applyLocked(ctx, CloneWidget(id, newID), nil) {
		return Widget{}, false
	}
	widgets := s.activeWidgets()
	clone := widgets[len(widgets)-1]
	return clone, true
}

// ReplaceWidgets swaps the whole widget sequence of the active view.
func (s *Service) ReplaceWidgets(ctx context.Context, widgets []Widget) error {
	seen := make(map[string]struct{}, len(widgets))
	normalized := make([]Widget, len(widgets))
	for i, w := range widgets {
		w, err := normalizeWidget(w)
		if err != nil {
			return err
		}
		if w.ID == "" {
			return errWidgetIDRequired
		}
		normalized[i] = w
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: %s", errDuplicateWidget, w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	s.applyLocked(ctx, ReplaceWidgets(normalized), nil)
	return nil
}

// Reorder rearranges the active view to follow ids. Unknown ids are skipped
// and widgets missing from ids keep their relative order at the end.
func (s *Service) Reorder(ctx context.Context, ids []string) []Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	ordered := applyOrder(s.activeWidgets(), ids)
	s.applyLocked(ctx, ReplaceWidgets(ordered), nil)
	return cloneWidgets(s.activeWidgets())
}

// BeginDrag starts a drag gesture. With an EditMode wired, gestures are only
// accepted in edit mode and a dragged widget is recorded there.
func (s *Service) BeginDrag(source DragSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.EditMode != nil && !s.opts.EditMode.Enabled() {
		return ErrEditModeOff
	}
	if err := s.drag.Begin(source); err != nil {
		return err
	}
	if s.opts.EditMode != nil && source.Kind == SourceWidget {
		s.opts.EditMode.SetDragged(source.ID)
	}
	return nil
}

// CancelDrag abandons the current gesture.
func (s *Service) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelDragLocked()
}

// DragState reports the phase of the current gesture.
func (s *Service) DragState() DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.State()
}

// EndDrag completes the current gesture on targetID ("" for outside the grid).
func (s *Service) EndDrag(ctx context.Context, targetID string) (DropResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, err := s.drag.Drop(targetID)
	if err != nil {
		return DropResult{}, err
	}
	s.clearDraggedLocked()
	return s.dropLocked(ctx, source, targetID), nil
}

// Drop resolves a complete gesture in one call. It does not touch an open
// session started with BeginDrag.
func (s *Service) Drop(ctx context.Context, source DragSource, targetID string) (DropResult, error) {
	var gesture DragSession
	if err := gesture.Begin(source); err != nil {
		return DropResult{}, err
	}
	if _, err := gesture.Drop(targetID); err != nil {
		return DropResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropLocked(ctx, source, targetID), nil
}

func (s *Service) cancelDragLocked() {
	s.drag.Cancel()
	s.clearDraggedLocked()
}

func (s *Service) clearDraggedLocked() {
	if s.opts.EditMode != nil {
		s.opts.EditMode.SetDragged("")
	}
}

func (s *Service) dropLocked(ctx context.Context, source DragSource, targetID string) DropResult {
	s.ensureLoaded(ctx)
	result := ResolveDrop(s.activeWidgets(), source, targetID, s.opts.Factory)
	if !result.Changed() {
		s.recordTelemetry(ctx, "dashboard.drop."+string(result.Outcome), map[string]any{"target": targetID})
		return result
	}
	s.applyLocked(ctx, ReplaceWidgets(result.Widgets), result.Added)
	if result.Added != nil {
		s.opts.Notifier.Notify(ctx, Toast{
			Variant:     ToastSuccess,
			Title:       source.Template.Name + " added to dashboard",
			Description: "Your new widget has been added successfully.",
		})
		s.opts.Notifier.Notify(ctx, Toast{
			Variant:     ToastInfo,
			Title:       "Device assigned",
			Description: "The widget was linked to " + result.Added.DeviceID + ".",
		})
	} else {
		s.opts.Notifier.Notify(ctx, Toast{
			Variant:     ToastSuccess,
			Title:       "Widget position updated",
			Description: "Your dashboard layout has been saved.",
		})
	}
	s.recordTelemetry(ctx, "dashboard.drop."+string(result.Outcome), map[string]any{
		"target": targetID,
		"count":  len(result.Widgets),
	})
	return DropResult{Widgets: cloneWidgets(result.Widgets), Outcome: result.Outcome, Added: result.Added}
}

// Presets returns the saved presets.
func (s *Service) Presets(ctx context.Context) []Preset {
	return s.opts.Presets.Load(ctx)
}

// CreatePreset snapshots the working configuration as a new preset.
func (s *Service) CreatePreset(ctx context.Context, name, description string) (Preset, error) {
	preset, err := s.opts.Presets.Create(ctx, CreatePresetRequest{
		Name:        name,
		Description: description,
		Config:      s.Configuration(ctx),
	})
	if err != nil {
		s.opts.Notifier.Notify(ctx, Toast{Variant: ToastError, Title: "Failed to create preset"})
		return Preset{}, err
	}
	s.opts.Notifier.Notify(ctx, Toast{Variant: ToastSuccess, Title: "Preset " + preset.Name + " created"})
	return preset, nil
}

// ApplyPreset writes the preset configuration and reloads the working copy.
// On failure the user is notified and the working copy is left unchanged.
func (s *Service) ApplyPreset(ctx context.Context, id string) (Preset, error) {
	preset, err := s.opts.Presets.Apply(ctx, id)
	if err != nil {
		s.opts.Logger.Warn("apply preset", zap.String("preset", id), zap.Error(err))
		s.opts.Notifier.Notify(ctx, Toast{Variant: ToastError, Title: "Failed to apply preset"})
		return Preset{}, err
	}
	s.mu.Lock()
	s.reloadLocked(ctx)
	event := LayoutEvent{ViewID: s.viewID, WidgetIDs: widgetIDs(s.activeWidgets()), Reason: "preset"}
	s.mu.Unlock()

	s.emit(ctx, event)
	s.opts.Notifier.Notify(ctx, Toast{
		Variant:     ToastSuccess,
		Title:       "Applied preset: " + preset.Name,
		Description: "Your dashboard has been updated with the selected preset.",
	})
	s.recordTelemetry(ctx, "dashboard.preset.apply", map[string]any{"preset": id})
	return preset, nil
}

// SaveAsDefault stores the current configuration as the default preset.
func (s *Service) SaveAsDefault(ctx context.Context) (Preset, error) {
	preset, err := s.opts.Presets.SaveCurrentAsDefault(ctx)
	if err != nil {
		s.opts.Logger.Warn("save default preset", zap.Error(err))
		s.opts.Notifier.Notify(ctx, Toast{Variant: ToastError, Title: "Failed to save as default"})
		return Preset{}, err
	}
	s.opts.Notifier.Notify(ctx, Toast{
		Variant:     ToastSuccess,
		Title:       "Current configuration saved as default",
		Description: "You can restore this layout anytime from presets.",
	})
	return preset, nil
}

// NotifyLayoutUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyLayoutUpdated(ctx context.Context, event LayoutEvent) error {
	if err := s.opts.RefreshHook.LayoutUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.layout.event", map[string]any{
		"view_id": event.ViewID,
		"reason":  event.Reason,
	})
	return nil
}

// applyLocked reduces the active view, persists the result and emits an event.
// It reports whether the sequence changed.
func (s *Service) applyLocked(ctx context.Context, m Mutation, subject *Widget) bool {
	idx := s.viewIndex()
	next, changed := Reduce(s.config.Views[idx].Widgets, m)
	if !changed {
		return false
	}
	s.config.Views[idx].Widgets = next
	s.opts.Configs.Save(ctx, s.config)

	event := LayoutEvent{ViewID: s.viewID, WidgetIDs: widgetIDs(next), Reason: string(m.Kind)}
	if subject != nil {
		w := *subject
		event.Widget = &w
	}
	s.emit(ctx, event)
	s.recordTelemetry(ctx, "dashboard.widget."+string(m.Kind), map[string]any{
		"view_id": s.viewID,
		"count":   len(next),
	})
	return true
}

func (s *Service) emit(ctx context.Context, event LayoutEvent) {
	if err := s.opts.RefreshHook.LayoutUpdated(ctx, event); err != nil {
		s.opts.Logger.Warn("refresh hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.reloadLocked(ctx)
	}
}

func (s *Service) reloadLocked(ctx context.Context) {
	s.config = s.opts.Configs.Load(ctx)
	if len(s.config.Views) == 0 {
		s.config = s.opts.Configs.Reset(ctx)
	}
	s.loaded = true
	if _, ok := s.config.View(s.viewID); !ok {
		s.viewID = s.config.Views[0].ID
	}
}

func (s *Service) viewIndex() int {
	for i, v := range s.config.Views {
		if v.ID == s.viewID {
			return i
		}
	}
	return 0
}

func (s *Service) activeWidgets() []Widget {
	return s.config.Views[s.viewIndex()].Widgets
}

// normalizeWidget fills the default size and scheme and rejects values the
// stored document schema would refuse.
func normalizeWidget(w Widget) (Widget, error) {
	if w.Type == "" {
		return Widget{}, errors.New("dashboard: widget type is required")
	}
	if w.Size == "" {
		w.Size = SizeMedium
	}
	if w.Customization.Theme == "" {
		w.Customization.Theme = SchemeAuto
	}
	if err := (WidgetPatch{Size: &w.Size, Customization: &w.Customization}).validate(); err != nil {
		return Widget{}, err
	}
	return w, nil
}

func (p WidgetPatch) validate() error {
	if p.Size != nil {
		switch *p.Size {
		case SizeSmall, SizeMedium, SizeLarge:
		default:
			return fmt.Errorf("dashboard: invalid widget size %q", *p.Size)
		}
	}
	if p.Type != nil && *p.Type == "" {
		return errors.New("dashboard: widget type is required")
	}
	if p.Customization != nil {
		switch p.Customization.Theme {
		case SchemeLight, SchemeDark, SchemeAuto:
		default:
			return fmt.Errorf("dashboard: invalid widget theme %q", p.Customization.Theme)
		}
	}
	return nil
}

func applyOrder(widgets []Widget, order []string) []Widget {
	if len(order) == 0 {
		return widgets
	}
	index := make(map[string]Widget, len(widgets))
	for _, w := range widgets {
		index[w.ID] = w
	}
	result := make([]Widget, 0, len(widgets))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if w, ok := index[id]; ok {
			if _, dup := seen[id]; dup {
				continue
			}
			result = append(result, w)
			seen[id] = struct{}{}
		}
	}
	for _, w := range widgets {
		if _, ok := seen[w.ID]; !ok {
			result = append(result, w)
		}
	}
	return result
}

type noopRefreshHook struct{}

func (noopRefreshHook) LayoutUpdated(context.Context, LayoutEvent) error {
	return nil
}
