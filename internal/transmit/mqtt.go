package transmit

import (
	"context"
	"fmt"
	"time"

	"github.com/nutbridge-io/nutbridge/internal/reading"
	"github.com/nutbridge-io/nutbridge/pkg/mqtt"
)

// MQTTTransmitter mirrors each reading to an MQTT topic. It is an optional
// secondary transport; UDP remains the primary wire contract.
type MQTTTransmitter struct {
	client mqtt.Client
	topic  string
	qos    int
}

var _ Transmitter = (*MQTTTransmitter)(nil)

// NewMQTT starts the MQTT client and returns the mirror transmitter.
// autopaho reconnects in the background, so a broker that is down at
// startup only delays mirroring, it does not fail construction.
func NewMQTT(ctx context.Context, client mqtt.Client, topic string, qos int) (*MQTTTransmitter, error) {
	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("start mqtt client: %w", err)
	}
	return &MQTTTransmitter{client: client, topic: topic, qos: qos}, nil
}

func (t *MQTTTransmitter) Send(ctx context.Context, r *reading.UpsReading) error {
	payload, err := r.Encode()
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}

	// Bound the publish so a broker outage cannot stall the cycle.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := t.client.Publish(ctx, t.topic, t.qos, false, payload); err != nil {
		return fmt.Errorf("publish reading to %s: %w", t.topic, err)
	}
	return nil
}

func (t *MQTTTransmitter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	t.client.Disconnect(ctx)
	return nil
}
