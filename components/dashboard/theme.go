package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrThemeNotFound is returned when a theme id is not in the catalog.
var ErrThemeNotFound = errors.New("dashboard: theme not found")

// ThemeKind separates the built-in catalog from user registered themes.
type ThemeKind string

const (
	ThemeBuiltIn ThemeKind = "built-in"
	ThemeCustom  ThemeKind = "custom"
)

// ThemeColors holds the eight named palette colors.
type ThemeColors struct {
	Primary       string `json:"primary" yaml:"primary"`
	Secondary     string `json:"secondary" yaml:"secondary"`
	Accent        string `json:"accent" yaml:"accent"`
	Background    string `json:"background" yaml:"background"`
	Surface       string `json:"surface" yaml:"surface"`
	Text          string `json:"text" yaml:"text"`
	TextSecondary string `json:"textSecondary" yaml:"textSecondary"`
	Border        string `json:"border" yaml:"border"`
}

// Theme is a named palette plus optional extra CSS variables.
type Theme struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description" yaml:"description"`
	Type         ThemeKind         `json:"type" yaml:"type"`
	Colors       ThemeColors       `json:"colors" yaml:"colors"`
	CSSVariables map[string]string `json:"cssVariables,omitempty" yaml:"cssVariables,omitempty"`
}

func (c ThemeColors) named() [][2]string {
	return [][2]string{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"accent", c.Accent},
		{"background", c.Background},
		{"surface", c.Surface},
		{"text", c.Text},
		{"textSecondary", c.TextSecondary},
		{"border", c.Border},
	}
}

// Variables returns every CSS variable the theme writes: the namespaced
// palette, the legacy aliases and the extra variables.
func (t Theme) Variables() map[string]string {
	vars := make(map[string]string, 16+len(t.CSSVariables))
	for _, kv := range t.Colors.named() {
		vars["--theme-"+kv[0]] = kv[1]
	}
	vars["--background"] = t.Colors.Background
	vars["--foreground"] = t.Colors.Text
	vars["--primary"] = t.Colors.Primary
	vars["--secondary"] = t.Colors.Secondary
	vars["--accent"] = t.Colors.Accent
	vars["--border"] = t.Colors.Border
	vars["--surface"] = t.Colors.Surface
	for key, value := range t.CSSVariables {
		if name := normalizeCSSVariable(key); name != "" {
			vars[name] = value
		}
	}
	return vars
}

// CSSVariablesInline renders a variable map as a style attribute value with
// keys in sorted order.
func CSSVariablesInline(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key, value := range vars {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// StyleSink receives applied theme styles, typically the document root.
type StyleSink interface {
	SetVariable(name, value string)
	SetModeClass(class string)
}

// variableRemover is implemented by sinks that can drop a variable set by an
// earlier theme.
type variableRemover interface {
	RemoveVariable(name string)
}

// StyleSheet is an in-memory StyleSink rendered into pages.
type StyleSheet struct {
	mu   sync.RWMutex
	vars map[string]string
	mode string
}

// NewStyleSheet returns an empty sheet.
func NewStyleSheet() *StyleSheet {
	return &StyleSheet{vars: map[string]string{}}
}

func (s *StyleSheet) SetVariable(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

// RemoveVariable drops name from the sheet.
func (s *StyleSheet) RemoveVariable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, name)
}

// SetModeClass replaces the single top level mode class.
func (s *StyleSheet) SetModeClass(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = class
}

// Variables returns a copy of the applied variables.
func (s *StyleSheet) Variables() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

func (s *StyleSheet) ModeClass() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Inline renders the sheet as a style attribute value.
func (s *StyleSheet) Inline() string {
	return CSSVariablesInline(s.Variables())
}

// SchemePreference reports the system color scheme used to resolve "auto".
type SchemePreference interface {
	PrefersDark() bool
}

// StaticScheme is a fixed SchemePreference.
type StaticScheme Scheme

func (s StaticScheme) PrefersDark() bool { return Scheme(s) == SchemeDark }

// AppliedTheme pairs the requested theme id with the palette that was applied.
// They differ only for "auto".
type AppliedTheme struct {
	Requested string `json:"requested"`
	Theme     Theme  `json:"theme"`
}

// ThemeManagerOptions configures a ThemeManager.
type ThemeManagerOptions struct {
	Storage Storage
	Sink    StyleSink
	Scheme  SchemePreference
	Themes  []Theme
	Logger  *zap.Logger
}

// ThemeManager owns the theme catalog and the globally applied theme.
type ThemeManager struct {
	mu      sync.RWMutex
	storage Storage
	sink    StyleSink
	scheme  SchemePreference
	order   []string
	themes  map[string]Theme
	active  AppliedTheme
	written map[string]struct{}
	logger  *zap.Logger
}

// NewThemeManager builds a manager over the built-in catalog.
func NewThemeManager(opts ThemeManagerOptions) *ThemeManager {
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Sink == nil {
		opts.Sink = NewStyleSheet()
	}
	if opts.Scheme == nil {
		opts.Scheme = StaticScheme(SchemeDark)
	}
	if opts.Themes == nil {
		opts.Themes = DefaultThemes()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &ThemeManager{
		storage: opts.Storage,
		sink:    opts.Sink,
		scheme:  opts.Scheme,
		themes:  make(map[string]Theme, len(opts.Themes)),
		logger:  opts.Logger,
	}
	for _, theme := range opts.Themes {
		m.add(theme)
	}
	return m
}

func (m *ThemeManager) add(theme Theme) {
	if _, exists := m.themes[theme.ID]; !exists {
		m.order = append(m.order, theme.ID)
	}
	m.themes[theme.ID] = theme
}

// List returns the catalog: built-ins first, then custom themes in
// registration order.
func (m *ThemeManager) List() []Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Theme, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.themes[id])
	}
	return out
}

// Register adds or replaces a custom theme. Built-in ids cannot be replaced.
func (m *ThemeManager) Register(theme Theme) error {
	if theme.ID == "" {
		return errors.New("dashboard: theme id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.themes[theme.ID]; ok && existing.Type == ThemeBuiltIn {
		return fmt.Errorf("dashboard: theme %s is built in", theme.ID)
	}
	theme.Type = ThemeCustom
	m.add(theme)
	return nil
}

// Get returns a theme by id without resolving "auto".
func (m *ThemeManager) Get(id string) (Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	theme, ok := m.themes[id]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return theme, nil
}

// Resolve maps "auto" to the concrete theme for the current scheme.
func (m *ThemeManager) Resolve(id string) (Theme, error) {
	if id == string(SchemeAuto) {
		if m.scheme.PrefersDark() {
			id = string(SchemeDark)
		} else {
			id = string(SchemeLight)
		}
	}
	return m.Get(id)
}

// Apply writes the theme styles to the sink and persists id. The persisted
// value is always the requested id, so "auto" stays "auto" while the applied
// palette is the resolved one.
func (m *ThemeManager) Apply(ctx context.Context, id string) (AppliedTheme, error) {
	theme, err := m.Resolve(id)
	if err != nil {
		return AppliedTheme{}, err
	}
	applied := m.write(id, theme)
	if err := m.storage.SetItem(ctx, ThemeKey, id); err != nil {
		m.logger.Warn("persist selected theme", zap.String("theme", id), zap.Error(err))
	}
	return applied, nil
}

// Initialize applies the persisted theme, falling back to the dark theme when
// nothing (or an unknown id) is stored.
func (m *ThemeManager) Initialize(ctx context.Context) AppliedTheme {
	id := DefaultThemeID
	stored, found, err := m.storage.GetItem(ctx, ThemeKey)
	switch {
	case err != nil:
		m.logger.Warn("read selected theme", zap.Error(err))
	case found && strings.TrimSpace(stored) != "":
		id = strings.TrimSpace(stored)
	}
	theme, err := m.Resolve(id)
	if err != nil {
		m.logger.Warn("stored theme unknown", zap.String("theme", id))
		id = DefaultThemeID
		theme, _ = m.Resolve(id)
	}
	return m.write(id, theme)
}

// Active returns the last applied theme.
func (m *ThemeManager) Active() AppliedTheme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

func (m *ThemeManager) write(requested string, theme Theme) AppliedTheme {
	m.mu.Lock()
	defer m.mu.Unlock()
	vars := theme.Variables()
	if remover, ok := m.sink.(variableRemover); ok {
		for name := range m.written {
			if _, keep := vars[name]; !keep {
				remover.RemoveVariable(name)
			}
		}
	}
	m.written = make(map[string]struct{}, len(vars))
	for name, value := range vars {
		m.sink.SetVariable(name, value)
		m.written[name] = struct{}{}
	}
	m.sink.SetModeClass(theme.ID)
	m.active = AppliedTheme{Requested: requested, Theme: theme}
	m.logger.Debug("theme applied", zap.String("requested", requested), zap.String("theme", theme.ID))
	return m.active
}
