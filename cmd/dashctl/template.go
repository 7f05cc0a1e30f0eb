package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
)

type templateCmd struct {
	Add templateAddCmd `cmd:"" help:"Add a widget template to a manifest file."`
}

type templateAddCmd struct {
	Name         string `required:"" help:"Display name shown in the widget library."`
	Type         string `required:"" enum:"light,thermostat,security,media,sensor,switch,camera,lock,weather,grid-toggle,energy,network" help:"Widget type the template creates."`
	Description  string `help:"One-line description used in the library."`
	Category     string `default:"Custom" help:"Library category."`
	ID           string `help:"Template id (defaults to the kebab-cased name with a -widget suffix)."`
	ManifestPath string `name:"manifest" required:"" type:"path" help:"Manifest YAML file to create or update."`
	Overwrite    bool   `help:"Replace an existing template with the same id."`
}

func (cmd *templateAddCmd) Run(g *Globals) error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("dashctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	entry := dashboard.WidgetTemplate{
		ID:          cmd.templateID(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Category:    cmd.Category,
		Type:        dashboard.WidgetType(cmd.Type),
	}
	if entry.Description == "" {
		entry.Description = fmt.Sprintf("%s widget", cmd.Name)
	}
	if err := addTemplate(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	g.printf("added %s to %s\n", entry.ID, manifestPath)
	return nil
}

func (cmd *templateAddCmd) templateID() string {
	if cmd.ID != "" {
		return cmd.ID
	}
	base := strcase.ToKebab(strings.TrimSpace(cmd.Name))
	if strings.HasSuffix(base, "-widget") {
		return base
	}
	return base + "-widget"
}

// addTemplate inserts entry keeping the manifest sorted by id.
func addTemplate(doc *dashboard.ManifestDocument, entry dashboard.WidgetTemplate, overwrite bool) error {
	replaced := false
	for idx := range doc.Templates {
		if doc.Templates[idx].ID != entry.ID {
			continue
		}
		if !overwrite {
			return fmt.Errorf("dashctl: manifest already defines template %s (use --overwrite to replace)", entry.ID)
		}
		doc.Templates[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Templates = append(doc.Templates, entry)
	}
	sort.Slice(doc.Templates, func(i, j int) bool {
		return doc.Templates[i].ID < doc.Templates[j].ID
	})
	return doc.Validate()
}

func loadOrInitManifest(path string) (*dashboard.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.ManifestDocument{Version: dashboard.ManifestVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("dashctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodeManifest(file, doc)
}
