package dashboard

import (
	"reflect"
	"testing"
)

func TestReduceDoesNotMutateInput(t *testing.T) {
	widgets := DefaultWidgets()
	snapshot := cloneWidgets(widgets)

	size := SizeSmall
	mutations := []Mutation{
		AppendWidget(Widget{ID: "extra", Type: WidgetLight}),
		PatchWidget("widget-1", WidgetPatch{Size: &size}),
		DeleteWidget("widget-2"),
		CloneWidget("widget-3", "widget-3-copy"),
		ReplaceWidgets(nil),
	}
	for _, m := range mutations {
		if _, changed := Reduce(widgets, m); !changed {
			t.Fatalf("expected %s to change the sequence", m.Kind)
		}
		if !reflect.DeepEqual(widgets, snapshot) {
			t.Fatalf("%s mutated its input", m.Kind)
		}
	}
}

func TestReduceUnknownIDIsIdentity(t *testing.T) {
	widgets := DefaultWidgets()
	size := SizeLarge
	for _, m := range []Mutation{
		PatchWidget("missing", WidgetPatch{Size: &size}),
		DeleteWidget("missing"),
		CloneWidget("missing", "copy"),
	} {
		out, changed := Reduce(widgets, m)
		if changed {
			t.Fatalf("%s on unknown id reported a change", m.Kind)
		}
		if !reflect.DeepEqual(out, widgets) {
			t.Fatalf("%s on unknown id altered widgets", m.Kind)
		}
	}
}

func TestReduceDeleteKeepsOrder(t *testing.T) {
	out, _ := Reduce(DefaultWidgets(), DeleteWidget("widget-3"))
	want := []string{"widget-1", "widget-2", "widget-4", "widget-5", "widget-6"}
	if got := widgetIDs(out); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestReducePatchIsShallow(t *testing.T) {
	custom := Customization{Theme: SchemeLight, Color: "#ffffff"}
	out, _ := Reduce(DefaultWidgets(), PatchWidget("widget-2", WidgetPatch{Customization: &custom}))
	got := out[1]
	if got.Customization != custom {
		t.Fatalf("customization not replaced: %+v", got.Customization)
	}
	if got.DeviceID != "device-2" || got.Type != WidgetThermostat {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestReduceDuplicateAppendsCopy(t *testing.T) {
	widgets := DefaultWidgets()
	out, _ := Reduce(widgets, CloneWidget("widget-4", "widget-4b"))
	if len(out) != len(widgets)+1 {
		t.Fatalf("expected %d widgets, got %d", len(widgets)+1, len(out))
	}
	clone := out[len(out)-1]
	if clone.ID != "widget-4b" {
		t.Fatalf("expected new id, got %s", clone.ID)
	}
	clone.ID = widgets[3].ID
	if clone != widgets[3] {
		t.Fatalf("clone differs from source: %+v", clone)
	}
}

func TestReduceReplaceNeverReturnsNil(t *testing.T) {
	out, _ := Reduce(DefaultWidgets(), ReplaceWidgets(nil))
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil sequence, got %#v", out)
	}
}
