package devices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestRegistryListReturnsSeedInOrder(t *testing.T) {
	reg := NewRegistry(RegistryOptions{Clock: fixedClock()})
	list, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 8)
	assert.Equal(t, "device-1", list[0].ID)
	assert.Equal(t, "device-8", list[7].ID)
	assert.False(t, list[0].LastUpdated.IsZero())
}

func TestRegistryGetUnknownDevice(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	_, err := reg.Get(context.Background(), "device-99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceNotFound))
}

func TestRegistryListReturnsCopies(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	list, err := reg.List(context.Background())
	require.NoError(t, err)
	list[0].Properties["on"] = false

	d, err := reg.Get(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, true, d.Properties["on"])
}

func TestRegistryUpdateMergesProperties(t *testing.T) {
	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry(RegistryOptions{Clock: fixedClock()})
	reg.clock = func() time.Time { return later }

	name := "Ceiling Lights"
	d, err := reg.Update(context.Background(), "device-1", DevicePatch{
		Name:       &name,
		Properties: Properties{"brightness": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ceiling Lights", d.Name)
	assert.Equal(t, 10, d.Properties["brightness"])
	assert.Equal(t, true, d.Properties["on"], "untouched keys survive the merge")
	assert.Equal(t, later, d.LastUpdated)
}

func TestRegistryUpdateUnknownDevice(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	_, err := reg.Update(context.Background(), "nope", DevicePatch{})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestRegistryToggleFlipsPrimaryProperty(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	ctx := context.Background()

	light, err := reg.Toggle(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, false, light.Properties["on"])

	light, err = reg.Toggle(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, true, light.Properties["on"])

	lock, err := reg.Toggle(ctx, "device-6")
	require.NoError(t, err)
	assert.Equal(t, false, lock.Properties["locked"])
}

func TestRegistryToggleUnknownDevice(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	_, err := reg.Toggle(context.Background(), "device-404")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestRegistryCreateAndDelete(t *testing.T) {
	reg := NewRegistry(RegistryOptions{IDs: func() string { return "device-new" }})
	ctx := context.Background()

	d, err := reg.Create(ctx, NewDevice{Name: "Porch Light", Type: TypeLight, Room: "Porch"})
	require.NoError(t, err)
	assert.Equal(t, "device-new", d.ID)
	assert.Equal(t, StatusOnline, d.Status)
	assert.Contains(t, reg.IDs(), "device-new")

	require.NoError(t, reg.Delete(ctx, "device-new"))
	assert.NotContains(t, reg.IDs(), "device-new")
	assert.ErrorIs(t, reg.Delete(ctx, "device-new"), ErrDeviceNotFound)
}

func TestRegistryCreateRejectsUnknownType(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	_, err := reg.Create(context.Background(), NewDevice{Name: "x", Type: "toaster"})
	require.Error(t, err)
}

func TestRegistryApplyFeedUpdate(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})
	stamp := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	d, err := reg.Apply(Update{DeviceID: "device-2", Properties: Properties{"temperature": 30}, Timestamp: stamp})
	require.NoError(t, err)
	assert.Equal(t, 30, d.Properties["temperature"])
	assert.Equal(t, 24, d.Properties["targetTemp"])
	assert.Equal(t, stamp, d.LastUpdated)
}

func TestRegistryNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	reg := NewRegistry(RegistryOptions{Observer: obs})
	_, err := reg.Toggle(context.Background(), "device-3")
	require.NoError(t, err)
	require.Len(t, obs.reasons, 1)
	assert.Equal(t, "toggle", obs.reasons[0])
}

func TestRegistryMutationSurvivesCallerCancellation(t *testing.T) {
	reg := NewRegistry(RegistryOptions{Latency: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Toggle(ctx, "device-1")
	assert.ErrorIs(t, err, context.Canceled)

	require.Eventually(t, func() bool {
		d, err := reg.Get(context.Background(), "device-1")
		return err == nil && d.Properties["on"] == false
	}, time.Second, 10*time.Millisecond)
}

type recordingObserver struct {
	reasons []string
}

func (o *recordingObserver) DeviceChanged(_ Device, reason string) {
	o.reasons = append(o.reasons, reason)
}
