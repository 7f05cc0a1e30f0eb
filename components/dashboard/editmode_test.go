package dashboard

import "testing"

func TestEditModeLifecycle(t *testing.T) {
	mode := NewEditMode()
	if mode.Enabled() {
		t.Fatalf("expected view mode on start")
	}

	if state := mode.Select("widget-2"); state.Selected != "" {
		t.Fatalf("selection must be ignored in view mode, got %q", state.Selected)
	}

	mode.SetEnabled(true)
	mode.Select("widget-2")
	mode.SetDragged("widget-3")
	if state := mode.State(); state.Selected != "widget-2" || state.Dragged != "widget-3" {
		t.Fatalf("unexpected state %+v", state)
	}

	state := mode.Toggle()
	if state.Enabled || state.Selected != "" || state.Dragged != "" {
		t.Fatalf("leaving edit mode should clear selection, got %+v", state)
	}
}

func TestEditModeForget(t *testing.T) {
	mode := NewEditMode()
	mode.Toggle()
	mode.Select("widget-1")
	mode.Forget("widget-2")
	if mode.State().Selected != "widget-1" {
		t.Fatalf("forgetting another widget cleared the selection")
	}
	mode.Forget("widget-1")
	if mode.State().Selected != "" {
		t.Fatalf("expected selection cleared")
	}
}

func TestEditModeOnExitRunsWhenLeaving(t *testing.T) {
	mode := NewEditMode()
	exits := 0
	mode.OnExit(func() {
		exits++
		if mode.Enabled() {
			t.Errorf("callback ran before edit mode was switched off")
		}
	})

	mode.SetEnabled(false)
	mode.SetEnabled(true)
	mode.SetEnabled(true)
	if exits != 0 {
		t.Fatalf("expected no exit callbacks yet, got %d", exits)
	}
	mode.Toggle()
	mode.SetEnabled(false)
	if exits != 1 {
		t.Fatalf("expected one exit callback, got %d", exits)
	}
}
