package dashboard

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory() *WidgetFactory {
	return NewWidgetFactory(WidgetFactoryOptions{
		IDs:  sequentialIDs("widget-t"),
		Rand: rand.New(rand.NewSource(42)),
	})
}

func TestEmptySlotCount(t *testing.T) {
	cases := map[int]int{0: 8, 2: 6, 4: 4, 6: 4, 7: 4, 12: 4}
	for n, want := range cases {
		assert.Equal(t, want, EmptySlotCount(n), "widgets=%d", n)
	}
}

func TestGridItemsAppendsEmptySlots(t *testing.T) {
	items := GridItems(DefaultWidgets())
	require.Len(t, items, 10)
	assert.Equal(t, "widget-6", items[5].ID)
	assert.Equal(t, "empty-0", items[6].ID)
	assert.True(t, items[9].Empty)
	assert.True(t, IsEmptySlot(items[9].ID))
	assert.False(t, IsEmptySlot("widget-1"))
	assert.False(t, IsEmptySlot("empty-x"))
}

func TestResolveDropMoveIsPermutation(t *testing.T) {
	widgets := DefaultWidgets()
	ids := widgetIDs(widgets)
	for _, from := range ids {
		for _, to := range ids {
			result := ResolveDrop(widgets, DragSource{Kind: SourceWidget, ID: from}, to, nil)
			got := widgetIDs(result.Widgets)
			if from == to {
				assert.Equal(t, DropIgnored, result.Outcome)
				assert.Equal(t, ids, got)
				continue
			}
			assert.Equal(t, DropMoved, result.Outcome)
			sorted := append([]string(nil), got...)
			sort.Strings(sorted)
			assert.Equal(t, ids, sorted, "move %s -> %s", from, to)
		}
	}
}

func TestResolveDropMoveLandsOnTargetIndex(t *testing.T) {
	result := ResolveDrop(DefaultWidgets(), DragSource{Kind: SourceWidget, ID: "widget-5"}, "widget-2", nil)
	assert.Equal(t, []string{"widget-1", "widget-5", "widget-2", "widget-3", "widget-4", "widget-6"}, widgetIDs(result.Widgets))
}

func TestResolveDropWidgetOntoEmptySlotIsIgnored(t *testing.T) {
	widgets := DefaultWidgets()
	result := ResolveDrop(widgets, DragSource{Kind: SourceWidget, ID: "widget-1"}, "empty-1", nil)
	assert.Equal(t, DropIgnored, result.Outcome)
	assert.False(t, result.Changed())
	assert.Equal(t, widgets, result.Widgets)
}

func TestResolveDropOutsideIsAbandoned(t *testing.T) {
	widgets := DefaultWidgets()
	template := DefaultTemplates()[0]
	for _, source := range []DragSource{
		{Kind: SourceWidget, ID: "widget-1"},
		{Kind: SourceTemplate, Template: &template},
	} {
		result := ResolveDrop(widgets, source, "", testFactory())
		assert.Equal(t, DropAbandoned, result.Outcome)
		assert.Equal(t, widgets, result.Widgets)
	}
	result := ResolveDrop(widgets, DragSource{Kind: SourceWidget, ID: "widget-1"}, "nowhere", nil)
	assert.Equal(t, DropAbandoned, result.Outcome)
}

func TestResolveDropTemplate(t *testing.T) {
	widgets := DefaultWidgets()
	template := DefaultTemplates()[3]
	source := DragSource{Kind: SourceTemplate, Template: &template}

	t.Run("onto empty slot", func(t *testing.T) {
		result := ResolveDrop(widgets, source, "empty-3", testFactory())
		require.NotNil(t, result.Added)
		assert.Equal(t, DropPlaced, result.Outcome)
		require.Len(t, result.Widgets, 7)
		assert.Equal(t, *result.Added, result.Widgets[6])
		assert.Equal(t, WidgetLock, result.Added.Type)
		assert.Equal(t, SizeMedium, result.Added.Size)
		assert.Equal(t, DefaultCustomization(), result.Added.Customization)
		assert.Equal(t, "widget-t-1", result.Added.ID)
	})

	t.Run("onto widget inserts before it", func(t *testing.T) {
		result := ResolveDrop(widgets, source, "widget-2", testFactory())
		assert.Equal(t, DropInserted, result.Outcome)
		assert.Equal(t, []string{"widget-1", "widget-t-1", "widget-2", "widget-3", "widget-4", "widget-5", "widget-6"}, widgetIDs(result.Widgets))
	})

	t.Run("unknown target appends", func(t *testing.T) {
		result := ResolveDrop(widgets, source, "somewhere", testFactory())
		assert.Equal(t, DropAppended, result.Outcome)
		require.Len(t, result.Widgets, 7)
		assert.Equal(t, "widget-t-1", result.Widgets[6].ID)
	})

	assert.Len(t, widgets, 6)
}

func TestWidgetFactoryDrawsFromPool(t *testing.T) {
	factory := NewWidgetFactory(WidgetFactoryOptions{
		Rand:    rand.New(rand.NewSource(1)),
		Devices: func() []string { return []string{"device-9"} },
	})
	w := factory.FromTemplate(WidgetTemplate{Type: WidgetSensor})
	assert.Equal(t, "device-9", w.DeviceID)
	assert.Regexp(t, `^widget-[0-9a-f-]{36}$`, w.ID)
	assert.NotEqual(t, w.ID, factory.NewID())
}

func TestDragSessionTransitions(t *testing.T) {
	var session DragSession
	assert.Equal(t, DragIdle, session.State())

	_, err := session.Drop("widget-1")
	assert.ErrorIs(t, err, ErrNotDragging)
	assert.ErrorIs(t, session.Begin(DragSource{Kind: SourceWidget}), errInvalidSource)

	source := DragSource{Kind: SourceWidget, ID: "widget-1"}
	require.NoError(t, session.Begin(source))
	got, ok := session.Source()
	require.True(t, ok)
	assert.Equal(t, source, got)
	assert.ErrorIs(t, session.Begin(source), ErrDragInProgress)

	dropped, err := session.Drop("widget-4")
	require.NoError(t, err)
	assert.Equal(t, source, dropped)
	assert.Equal(t, DragDropped, session.State())
	assert.Equal(t, "widget-4", session.Target())
	_, ok = session.Source()
	assert.False(t, ok)

	require.NoError(t, session.Begin(source))
	session.Cancel()
	assert.Equal(t, DragIdle, session.State())
	assert.Empty(t, session.Target())
}
