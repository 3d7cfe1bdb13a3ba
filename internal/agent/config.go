package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nutbridge-io/nutbridge/internal/nut"
	"github.com/nutbridge-io/nutbridge/internal/reading"
	"github.com/nutbridge-io/nutbridge/internal/transmit"
	"github.com/nutbridge-io/nutbridge/pkg/mqtt"
	"github.com/nutbridge-io/nutbridge/pkg/options"
)

// Config carries the validated startup configuration of the agent.
// It is constructed once by the command layer and never mutated afterwards.
type Config struct {
	Nut     *options.NutOptions
	Udp     *options.UdpOptions
	Mqtt    *options.MqttOptions
	Metrics *options.MetricsOptions

	// Interval between poll cycles.
	Interval time.Duration

	// HostOverride replaces the system hostname in emitted readings.
	HostOverride string
}

// NewAgent resolves the host identity and builds the raw status source.
func (cfg *Config) NewAgent() (*Agent, error) {
	host := cfg.HostOverride
	if host == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve hostname: %w", err)
		}
		host = h
	}

	source, err := nut.NewSource(cfg.Nut)
	if err != nil {
		return nil, fmt.Errorf("build raw status source: %w", err)
	}

	return &Agent{
		cfg:    cfg,
		host:   host,
		source: source,
	}, nil
}

// newTransmitter assembles the UDP transmitter plus the optional MQTT
// mirror behind a single fan-out.
func (cfg *Config) newTransmitter(ctx context.Context, host string) (transmit.Transmitter, error) {
	udpTx, err := transmit.NewUDP(cfg.Udp.Addr)
	if err != nil {
		return nil, err
	}

	if !cfg.Mqtt.Enabled() {
		return udpTx, nil
	}

	clientCfg := cfg.Mqtt.ToClientConfig()
	if clientCfg.ClientID == "" {
		clientCfg.ClientID = fmt.Sprintf("nutbridge-%s", host)
	}

	// LWT so MQTT consumers see an explicit offline marker when the bridge
	// drops without the shutdown dead packet. No timestamp in the payload:
	// the broker delivers it at an unknown later time.
	willPayload, _ := json.Marshal(map[string]any{
		"source": reading.Source,
		"host":   host,
		"alive":  0,
	})
	clientCfg.WillTopic = cfg.Mqtt.Topic
	clientCfg.WillPayload = willPayload
	clientCfg.WillQoS = 1
	clientCfg.WillRetain = true

	client, err := mqtt.NewClient(clientCfg)
	if err != nil {
		udpTx.Close()
		return nil, fmt.Errorf("build mqtt client: %w", err)
	}

	mqttTx, err := transmit.NewMQTT(ctx, client, cfg.Mqtt.Topic, cfg.Mqtt.QoS)
	if err != nil {
		udpTx.Close()
		return nil, err
	}

	return transmit.NewMulti(udpTx, mqttTx), nil
}
