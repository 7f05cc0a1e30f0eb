package dashboard

// MutationKind names a layout transition.
type MutationKind string

const (
	MutationAppend    MutationKind = "add"
	MutationPatch     MutationKind = "update"
	MutationDelete    MutationKind = "delete"
	MutationDuplicate MutationKind = "duplicate"
	MutationReplace   MutationKind = "replace"
)

// Mutation is a single command against a widget sequence.
type Mutation struct {
	Kind     MutationKind
	WidgetID string
	Widget   Widget
	Patch    WidgetPatch
	// NewID is the id assigned to a duplicated widget.
	NewID   string
	Widgets []Widget
}

func AppendWidget(w Widget) Mutation { return Mutation{Kind: MutationAppend, Widget: w} }

func PatchWidget(id string, patch WidgetPatch) Mutation {
	return Mutation{Kind: MutationPatch, WidgetID: id, Patch: patch}
}

func DeleteWidget(id string) Mutation { return Mutation{Kind: MutationDelete, WidgetID: id} }

func CloneWidget(id, newID string) Mutation {
	return Mutation{Kind: MutationDuplicate, WidgetID: id, NewID: newID}
}

func ReplaceWidgets(widgets []Widget) Mutation {
	return Mutation{Kind: MutationReplace, Widgets: widgets}
}

// Reduce applies m to widgets and returns the new sequence plus whether
// anything changed. The input slice is never modified. Mutations that refer to
// an absent widget id return the input unchanged.
func Reduce(widgets []Widget, m Mutation) ([]Widget, bool) {
	switch m.Kind {
	case MutationAppend:
		out := make([]Widget, 0, len(widgets)+1)
		out = append(out, widgets...)
		return append(out, m.Widget), true
	case MutationPatch:
		idx := indexOfWidget(widgets, m.WidgetID)
		if idx < 0 {
			return widgets, false
		}
		out := cloneWidgets(widgets)
		out[idx] = m.Patch.apply(out[idx])
		return out, true
	case MutationDelete:
		idx := indexOfWidget(widgets, m.WidgetID)
		if idx < 0 {
			return widgets, false
		}
		out := make([]Widget, 0, len(widgets)-1)
		out = append(out, widgets[:idx]...)
		return append(out, widgets[idx+1:]...), true
	case MutationDuplicate:
		idx := indexOfWidget(widgets, m.WidgetID)
		if idx < 0 || m.NewID == "" {
			return widgets, false
		}
		clone := widgets[idx]
		clone.ID = m.NewID
		out := make([]Widget, 0, len(widgets)+1)
		out = append(out, widgets...)
		return append(out, clone), true
	case MutationReplace:
		out := cloneWidgets(m.Widgets)
		if out == nil {
			out = []Widget{}
		}
		return out, true
	}
	return widgets, false
}

func (p WidgetPatch) apply(w Widget) Widget {
	if p.DeviceID != nil {
		w.DeviceID = *p.DeviceID
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Size != nil {
		w.Size = *p.Size
	}
	if p.Customization != nil {
		w.Customization = *p.Customization
	}
	return w
}

func indexOfWidget(widgets []Widget, id string) int {
	for i, w := range widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}
