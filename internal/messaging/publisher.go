package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/home-control-hub/core/internal/crypto"
	"github.com/home-control-hub/core/internal/device"
	"github.com/home-control-hub/core/internal/infrastructure/mqtt"
)

// publishClient is the interface the publisher needs from the MQTT client.
type publishClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Publisher delivers commands to devices over the encrypted channel.
//
// Unlike the inbound path, failures here are surfaced to the caller: a
// user command or a triggered rule needs to know its action did not take
// effect.
type Publisher struct {
	store  device.Store
	client publishClient
	topics mqtt.Topics
	qos    byte
	logger Logger
}

// NewPublisher creates a command publisher.
func NewPublisher(store device.Store, client publishClient, qos byte, logger Logger) *Publisher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Publisher{
		store:  store,
		client: client,
		qos:    qos,
		logger: logger,
	}
}

// PublishCommand resolves the device, encrypts the command payload, and
// publishes it to home/devices/{deviceId}/command/{commandName}.
//
// Returns device.ErrDeviceNotFound for an unknown device (no publish is
// attempted), crypto.ErrEncrypt when sealing fails, or the transport
// error when the publish itself fails. There is no plaintext fallback.
func (p *Publisher) PublishCommand(ctx context.Context, deviceID, commandName string, payload map[string]any) error {
	if deviceID == "" || commandName == "" {
		return fmt.Errorf("%w: device id and command name are required", ErrInvalidPayload)
	}

	dev, err := p.store.FindByID(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("resolving command target %q: %w", deviceID, err)
	}

	if payload == nil {
		payload = map[string]any{}
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	wire, err := crypto.Encrypt(dev.KeyMaterial, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting command for %q: %w", deviceID, err)
	}

	topic := p.topics.DeviceCommand(deviceID, commandName)
	if err := p.client.Publish(topic, []byte(wire), p.qos, false); err != nil {
		return fmt.Errorf("publishing command to %q: %w", topic, err)
	}

	p.logger.Info("command published",
		"device_id", deviceID,
		"command", commandName,
		"topic", topic,
	)
	return nil
}
