package dashboard

import (
	"errors"
	"testing"
)

func TestTemplateLibraryDefaults(t *testing.T) {
	lib := NewTemplateLibrary()
	list := lib.List()
	if len(list) != 8 {
		t.Fatalf("expected 8 templates, got %d", len(list))
	}
	if list[0].ID != "light-widget" {
		t.Fatalf("expected registration order, got %s first", list[0].ID)
	}
	want := []string{"Control", "Security", "Sensors", "Utilities"}
	got := lib.Categories()
	if len(got) != len(want) {
		t.Fatalf("expected categories %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected categories %v, got %v", want, got)
		}
	}
}

func TestTemplateLibrarySearch(t *testing.T) {
	lib := NewTemplateLibrary()
	if got := lib.Search("  "); len(got) != 8 {
		t.Fatalf("blank query should return everything, got %d", len(got))
	}
	got := lib.Search("SECURITY")
	if len(got) != 3 {
		t.Fatalf("expected 3 security matches, got %d", len(got))
	}
	if got := lib.Search("energy"); len(got) != 1 || got[0].Type != WidgetEnergy {
		t.Fatalf("expected energy monitor, got %+v", got)
	}
	if got := lib.Search("toaster"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestTemplateLibraryRegisterValidates(t *testing.T) {
	lib := NewTemplateLibrary()
	if err := lib.Register(WidgetTemplate{Type: WidgetLight}); err == nil {
		t.Fatalf("expected missing id error")
	}
	if err := lib.Register(WidgetTemplate{ID: "x"}); err == nil {
		t.Fatalf("expected missing type error")
	}
	if err := lib.Register(WidgetTemplate{ID: "light-widget", Name: "Lamp", Type: WidgetLight}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if tmpl, _ := lib.Get("light-widget"); tmpl.Name != "Lamp" {
		t.Fatalf("expected replaced template, got %+v", tmpl)
	}
	if len(lib.List()) != 8 {
		t.Fatalf("replacing must not grow the library")
	}
}

func TestTemplateHooks(t *testing.T) {
	lib := &TemplateLibrary{templates: map[string]WidgetTemplate{}}
	globalHookMu.Lock()
	saved := globalHooks
	globalHooks = []TemplateHook{func(l *TemplateLibrary) error {
		return l.Register(WidgetTemplate{ID: "hooked", Name: "Hooked", Type: WidgetSwitch})
	}}
	globalHookMu.Unlock()
	defer func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	}()

	if err := lib.ApplyHooks(); err != nil {
		t.Fatalf("ApplyHooks: %v", err)
	}
	if _, ok := lib.Get("hooked"); !ok {
		t.Fatalf("expected hook to register template")
	}

	RegisterTemplateHook(func(*TemplateLibrary) error { return errors.New("boom") })
	if err := lib.ApplyHooks(); err == nil {
		t.Fatalf("expected hook error to surface")
	}
}
