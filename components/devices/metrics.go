package devices

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports device state as Prometheus series. It satisfies Observer.
type Metrics struct {
	property     *prometheus.GaugeVec
	changes      *prometheus.CounterVec
	feedMessages *prometheus.CounterVec
}

// NewMetrics registers the device collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		property: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "device_property",
				Help: "Current numeric or boolean device property value.",
			},
			[]string{"id", "room", "property"},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "device_changes_total",
				Help: "Device mutations by reason (update, toggle, feed, create).",
			},
			[]string{"id", "reason"},
		),
		feedMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "device_feed_messages_total",
				Help: "Messages published by the live update feed.",
			},
			[]string{"event"},
		),
	}
	reg.MustRegister(m.property)
	reg.MustRegister(m.changes)
	reg.MustRegister(m.feedMessages)
	return m
}

// DeviceChanged records the device's numeric and boolean properties.
func (m *Metrics) DeviceChanged(device Device, reason string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(device.ID, reason).Inc()
	m.Observe(device)
}

// Observe sets gauges for every numeric/boolean property of device.
func (m *Metrics) Observe(device Device) {
	if m == nil {
		return
	}
	for key, raw := range device.Properties {
		if b, ok := raw.(bool); ok {
			value := 0.0
			if b {
				value = 1
			}
			m.property.WithLabelValues(device.ID, device.Room, key).Set(value)
			continue
		}
		if value, ok := device.Properties.Number(key); ok {
			m.property.WithLabelValues(device.ID, device.Room, key).Set(value)
		}
	}
}

// Listener counts feed messages; subscribe it to each feed event of interest.
func (m *Metrics) Listener() Listener {
	return func(msg Message) {
		if m == nil {
			return
		}
		m.feedMessages.WithLabelValues(msg.Event).Inc()
	}
}
