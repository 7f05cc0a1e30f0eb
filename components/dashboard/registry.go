package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TemplateHook lets packages register widget templates during init().
type TemplateHook func(lib *TemplateLibrary) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TemplateHook
)

// RegisterTemplateHook registers a hook executed against new libraries.
func RegisterTemplateHook(h TemplateHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// TemplateLibrary is the catalog of widget templates users drag from.
type TemplateLibrary struct {
	mu        sync.RWMutex
	order     []string
	templates map[string]WidgetTemplate
}

// NewTemplateLibrary builds a library with the built-in templates and applies
// global hooks.
func NewTemplateLibrary() *TemplateLibrary {
	lib := &TemplateLibrary{templates: map[string]WidgetTemplate{}}
	for _, t := range DefaultTemplates() {
		_ = lib.Register(t)
	}
	_ = lib.ApplyHooks()
	return lib
}

// ApplyHooks executes registered template hooks.
func (l *TemplateLibrary) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(l); err != nil {
			return err
		}
	}
	return nil
}

// Register adds or replaces a template.
func (l *TemplateLibrary) Register(t WidgetTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("dashboard: template id is required")
	}
	if t.Type == "" {
		return fmt.Errorf("dashboard: template %s needs a widget type", t.ID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.templates[t.ID]; !ok {
		l.order = append(l.order, t.ID)
	}
	l.templates[t.ID] = t
	return nil
}

// Get fetches a template by id.
func (l *TemplateLibrary) Get(id string) (WidgetTemplate, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[id]
	return t, ok
}

// List returns templates in registration order.
func (l *TemplateLibrary) List() []WidgetTemplate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]WidgetTemplate, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.templates[id])
	}
	return out
}

// Search filters templates by a case-insensitive match on name, description
// or category. An empty query returns everything.
func (l *TemplateLibrary) Search(query string) []WidgetTemplate {
	query = strings.ToLower(strings.TrimSpace(query))
	all := l.List()
	if query == "" {
		return all
	}
	var out []WidgetTemplate
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Name), query) ||
			strings.Contains(strings.ToLower(t.Description), query) ||
			strings.Contains(strings.ToLower(t.Category), query) {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct template categories, sorted.
func (l *TemplateLibrary) Categories() []string {
	seen := map[string]struct{}{}
	for _, t := range l.List() {
		seen[t.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
