package devices

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// ConnectMQTT opens a broker connection.
func ConnectMQTT(broker, clientID string) (MQTT.Client, error) {
	opts := MQTT.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	c := MQTT.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("devices: connect mqtt %s: %w", broker, token.Error())
	}
	return c, nil
}

// ClientPublisher adapts a paho client to Publisher.
type ClientPublisher struct {
	Client   MQTT.Client
	QoS      byte
	Retained bool
	Timeout  time.Duration
}

// Publish waits up to Timeout for the broker to acknowledge.
func (p ClientPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, p.QoS, p.Retained, payload)
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("devices: publish %s timed out", topic)
	}
	return token.Error()
}

// MQTTBridge republishes feed updates as retained device state messages.
type MQTTBridge struct {
	Publisher   Publisher
	TopicPrefix string
	Logger      *zap.Logger
}

// Topic returns the state topic for a device.
func (b *MQTTBridge) Topic(deviceID string) string {
	prefix := strings.TrimRight(b.TopicPrefix, "/")
	if prefix == "" {
		prefix = "home/devices"
	}
	return prefix + "/" + deviceID + "/state"
}

// Listener returns a feed listener forwarding EventDeviceUpdate messages.
func (b *MQTTBridge) Listener() Listener {
	return func(msg Message) {
		if msg.Update == nil || b.Publisher == nil {
			return
		}
		payload, err := json.Marshal(msg.Update)
		if err != nil {
			b.logger().Warn("encode device update", zap.Error(err))
			return
		}
		if err := b.Publisher.Publish(b.Topic(msg.Update.DeviceID), payload); err != nil {
			b.logger().Warn("publish device update",
				zap.String("device_id", msg.Update.DeviceID),
				zap.Error(err),
			)
		}
	}
}

func (b *MQTTBridge) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}
