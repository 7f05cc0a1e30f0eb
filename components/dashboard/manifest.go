package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest contributing widget templates and
// custom themes.
type ManifestDocument struct {
	Version   string           `yaml:"version"`
	Name      string           `yaml:"name,omitempty"`
	Templates []WidgetTemplate `yaml:"templates,omitempty"`
	Themes    []Theme          `yaml:"themes,omitempty"`
	Source    string           `yaml:"-"`
}

// LoadManifestFile reads a manifest from disk and registers its templates.
func (l *TemplateLibrary) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := l.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers the templates of a decoded manifest.
func (l *TemplateLibrary) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, t := range doc.Templates {
		if err := l.Register(t); err != nil {
			return fmt.Errorf("dashboard: register template %s from %s: %w", t.ID, doc.Source, err)
		}
	}
	return nil
}

// RegisterThemes registers the manifest's custom themes with m.
func (doc *ManifestDocument) RegisterThemes(m *ThemeManager) error {
	for _, theme := range doc.Themes {
		if err := m.Register(theme); err != nil {
			return fmt.Errorf("dashboard: register theme %s from %s: %w", theme.ID, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *ManifestDocument) error {
	doc.applyDefaults()
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Templates))
	for idx, t := range doc.Templates {
		if t.ID == "" {
			return fmt.Errorf("dashboard: manifest template at index %d is missing id", idx)
		}
		if t.Name == "" {
			return fmt.Errorf("dashboard: manifest template %s missing name", t.ID)
		}
		if t.Type == "" {
			return fmt.Errorf("dashboard: manifest template %s missing type", t.ID)
		}
		if _, exists := seen[t.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates template id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	for idx, theme := range doc.Themes {
		if theme.ID == "" {
			return fmt.Errorf("dashboard: manifest theme at index %d is missing id", idx)
		}
	}
	return nil
}

func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
