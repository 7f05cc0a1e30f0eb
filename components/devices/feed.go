package devices

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	// EventDeviceUpdate carries a randomized property delta for one device.
	EventDeviceUpdate = "deviceUpdate"
	// EventConnected fires once shortly after the feed starts.
	EventConnected = "connected"

	DefaultFeedInterval = 5 * time.Second
	DefaultConnectDelay = time.Second
)

var errFeedStarted = errors.New("devices: feed already started")

// Message is delivered to feed listeners. Update is nil for EventConnected.
type Message struct {
	Event  string  `json:"event"`
	Update *Update `json:"update,omitempty"`
}

// Listener receives feed messages synchronously on the publishing goroutine.
type Listener func(Message)

// FeedOptions configures a Feed.
type FeedOptions struct {
	Interval     time.Duration
	ConnectDelay time.Duration
	DeviceIDs    []string
	Rand         *rand.Rand
	Clock        func() time.Time
	Logger       *zap.Logger
}

type subscription struct {
	id       int
	listener Listener
}

// Feed simulates a push channel emitting device deltas on a fixed interval.
type Feed struct {
	opts FeedOptions

	mu        sync.Mutex
	listeners map[string][]subscription
	next      int

	randMu sync.Mutex

	runMu     sync.Mutex
	cron      *cron.Cron
	connect   *time.Timer
	connected sync.Once
}

// NewFeed creates a stopped feed.
func NewFeed(opts FeedOptions) *Feed {
	if opts.Interval <= 0 {
		opts.Interval = DefaultFeedInterval
	}
	if opts.ConnectDelay < 0 {
		opts.ConnectDelay = 0
	}
	if len(opts.DeviceIDs) == 0 {
		opts.DeviceIDs = DefaultFeedDevices()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Feed{
		opts:      opts,
		listeners: map[string][]subscription{},
	}
}

// Subscribe registers listener for event and returns its unsubscribe func.
// Listeners for the same event run in registration order.
func (f *Feed) Subscribe(event string, listener Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.listeners[event] = append(f.listeners[event], subscription{id: id, listener: listener})
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			subs := f.listeners[event]
			for i, sub := range subs {
				if sub.id == id {
					f.listeners[event] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Start schedules the periodic updates and the one-off connected event.
func (f *Feed) Start() error {
	f.runMu.Lock()
	defer f.runMu.Unlock()
	if f.cron != nil {
		return errFeedStarted
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+f.opts.Interval.String(), f.Tick); err != nil {
		return err
	}
	c.Start()
	f.cron = c
	f.connect = time.AfterFunc(f.opts.ConnectDelay, f.announceConnected)
	f.opts.Logger.Info("device feed started",
		zap.Duration("interval", f.opts.Interval),
		zap.Int("devices", len(f.opts.DeviceIDs)),
	)
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (f *Feed) Stop() {
	f.runMu.Lock()
	c, timer := f.cron, f.connect
	f.cron, f.connect = nil, nil
	f.runMu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	if c == nil {
		return
	}
	<-c.Stop().Done()
	f.opts.Logger.Info("device feed stopped")
}

// Tick publishes one randomized delta. Start calls it on every interval.
func (f *Feed) Tick() {
	update := f.randomUpdate()
	f.publish(Message{Event: EventDeviceUpdate, Update: &update})
}

func (f *Feed) announceConnected() {
	f.connected.Do(func() {
		f.publish(Message{Event: EventConnected})
	})
}

func (f *Feed) randomUpdate() Update {
	f.randMu.Lock()
	defer f.randMu.Unlock()
	r := f.opts.Rand
	id := f.opts.DeviceIDs[r.Intn(len(f.opts.DeviceIDs))]
	return Update{
		DeviceID: id,
		Properties: Properties{
			"brightness":  r.Intn(100),
			"temperature": r.Intn(30) + 18,
			"humidity":    r.Intn(40) + 40,
		},
		Timestamp: f.opts.Clock(),
	}
}

func (f *Feed) publish(msg Message) {
	f.mu.Lock()
	subs := append([]subscription(nil), f.listeners[msg.Event]...)
	f.mu.Unlock()
	for _, sub := range subs {
		sub.listener(msg)
	}
}
