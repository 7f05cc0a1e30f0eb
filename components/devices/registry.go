package devices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLatency mirrors the artificial delay of the mock device API.
const DefaultLatency = 200 * time.Millisecond

// Observer is notified after a device changed. Implementations must not call
// back into the registry.
type Observer interface {
	DeviceChanged(device Device, reason string)
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Devices  []Device
	Rooms    []Room
	Latency  time.Duration
	Clock    func() time.Time
	IDs      func() string
	Logger   *zap.Logger
	Observer Observer
}

// Registry is the in-memory device data source. Every public operation waits
// for the configured latency; callers can stop waiting through ctx, but a
// mutation that already started still completes.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	devices  map[string]Device
	rooms    []Room
	latency  time.Duration
	clock    func() time.Time
	ids      func() string
	logger   *zap.Logger
	observer Observer
}

// NewRegistry builds a registry seeded with opts.Devices (or the defaults).
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = func() string { return "device-" + uuid.NewString() }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	now := opts.Clock()
	if opts.Devices == nil {
		opts.Devices = DefaultDevices(now)
	}
	if opts.Rooms == nil {
		opts.Rooms = DefaultRooms()
	}
	r := &Registry{
		devices:  make(map[string]Device, len(opts.Devices)),
		rooms:    append([]Room(nil), opts.Rooms...),
		latency:  opts.Latency,
		clock:    opts.Clock,
		ids:      opts.IDs,
		logger:   opts.Logger,
		observer: opts.Observer,
	}
	for _, d := range opts.Devices {
		d = d.clone()
		if d.LastUpdated.IsZero() {
			d.LastUpdated = now
		}
		if d.Status == "" {
			d.Status = StatusOnline
		}
		r.order = append(r.order, d.ID)
		r.devices[d.ID] = d
	}
	return r
}

// List returns every device in registration order.
func (r *Registry) List(ctx context.Context) ([]Device, error) {
	return wait(ctx, r.latency, func() ([]Device, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]Device, 0, len(r.order))
		for _, id := range r.order {
			out = append(out, r.devices[id].clone())
		}
		return out, nil
	})
}

// Get returns a single device.
func (r *Registry) Get(ctx context.Context, id string) (Device, error) {
	return wait(ctx, r.latency, func() (Device, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		d, ok := r.devices[id]
		if !ok {
			return Device{}, fmt.Errorf("get %s: %w", id, ErrDeviceNotFound)
		}
		return d.clone(), nil
	})
}

// Rooms returns the configured rooms.
func (r *Registry) Rooms(ctx context.Context) ([]Room, error) {
	return wait(ctx, r.latency, func() ([]Room, error) {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]Room, len(r.rooms))
		for i, room := range r.rooms {
			room.Devices = append([]string(nil), room.Devices...)
			out[i] = room
		}
		return out, nil
	})
}

// Update merges patch into the device and stamps LastUpdated.
func (r *Registry) Update(ctx context.Context, id string, patch DevicePatch) (Device, error) {
	return wait(ctx, r.latency, func() (Device, error) {
		return r.mutate(id, "update", func(d *Device) {
			if patch.Name != nil {
				d.Name = *patch.Name
			}
			if patch.Room != nil {
				d.Room = *patch.Room
			}
			if patch.Status != nil {
				d.Status = *patch.Status
			}
			d.Properties = d.Properties.merge(patch.Properties)
			d.LastUpdated = r.clock()
		})
	})
}

// Toggle flips the primary boolean property of the device ("on" for most types).
func (r *Registry) Toggle(ctx context.Context, id string) (Device, error) {
	return wait(ctx, r.latency, func() (Device, error) {
		return r.mutate(id, "toggle", func(d *Device) {
			key := PrimaryProperty(d.Type)
			d.Properties = d.Properties.merge(Properties{key: !d.Properties.Bool(key)})
			d.LastUpdated = r.clock()
		})
	})
}

// Create registers a new device with a generated id.
func (r *Registry) Create(ctx context.Context, input NewDevice) (Device, error) {
	return wait(ctx, r.latency, func() (Device, error) {
		if input.Name == "" {
			return Device{}, fmt.Errorf("devices: name is required")
		}
		if !input.Type.Valid() {
			return Device{}, fmt.Errorf("devices: unknown device type %q", input.Type)
		}
		status := input.Status
		if status == "" {
			status = StatusOnline
		}
		d := Device{
			ID:          r.ids(),
			Name:        input.Name,
			Type:        input.Type,
			Room:        input.Room,
			Status:      status,
			Properties:  input.Properties.clone(),
			LastUpdated: r.clock(),
		}
		r.mu.Lock()
		r.order = append(r.order, d.ID)
		r.devices[d.ID] = d
		r.mu.Unlock()
		r.notify(d, "create")
		return d.clone(), nil
	})
}

// Delete removes a device.
func (r *Registry) Delete(ctx context.Context, id string) error {
	_, err := wait(ctx, r.latency, func() (struct{}, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.devices[id]; !ok {
			return struct{}{}, fmt.Errorf("delete %s: %w", id, ErrDeviceNotFound)
		}
		delete(r.devices, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return struct{}{}, nil
	})
	return err
}

// Apply merges a live feed delta into local state without simulated latency.
func (r *Registry) Apply(update Update) (Device, error) {
	return r.mutate(update.DeviceID, "feed", func(d *Device) {
		d.Properties = d.Properties.merge(update.Properties)
		d.LastUpdated = update.Timestamp
		if d.LastUpdated.IsZero() {
			d.LastUpdated = r.clock()
		}
	})
}

// IDs returns the ids of every registered device.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *Registry) mutate(id, reason string, fn func(*Device)) (Device, error) {
	r.mu.Lock()
	d, ok := r.devices[id]
	if !ok {
		r.mu.Unlock()
		return Device{}, fmt.Errorf("%s %s: %w", reason, id, ErrDeviceNotFound)
	}
	d = d.clone()
	fn(&d)
	r.devices[id] = d
	r.mu.Unlock()

	r.logger.Debug("device changed",
		zap.String("device_id", id),
		zap.String("reason", reason),
	)
	r.notify(d, reason)
	return d.clone(), nil
}

func (r *Registry) notify(d Device, reason string) {
	if r.observer != nil {
		r.observer.DeviceChanged(d.clone(), reason)
	}
}

// PrimaryProperty names the boolean a toggle flips for the device type.
func PrimaryProperty(t DeviceType) string {
	switch t {
	case TypeLock:
		return "locked"
	case TypeCamera:
		return "recording"
	case TypeSecurity:
		return "armed"
	default:
		return "on"
	}
}

type result[T any] struct {
	value T
	err   error
}

// wait runs op after latency on its own goroutine so a caller giving up on
// ctx does not abort the operation itself.
func wait[T any](ctx context.Context, latency time.Duration, op func() (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if latency <= 0 {
		return op()
	}
	done := make(chan result[T], 1)
	go func() {
		time.Sleep(latency)
		v, err := op()
		done <- result[T]{value: v, err: err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}
