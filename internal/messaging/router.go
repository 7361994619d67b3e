package messaging

import (
	"context"
	"encoding/json"

	"github.com/home-control-hub/core/internal/crypto"
	"github.com/home-control-hub/core/internal/device"
)

// Logger is the interface the messaging package needs from the logging
// package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// RuleEvaluator is the interface the router needs from the automation
// engine.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, deviceID string, payload map[string]any)
}

// StateRecorder persists a snapshot per inbound state merge. May be nil.
type StateRecorder interface {
	RecordStateChange(ctx context.Context, deviceID string, state device.State, source string) error
}

// MetricsWriter records numeric telemetry fields as time-series points.
// May be nil when the time-series database is disabled.
type MetricsWriter interface {
	WriteDeviceMetric(deviceID, measurement string, value float64)
}

// Router turns a raw (topic, payload) pair from the transport into a
// state merge and a rule-evaluation trigger.
//
// Every failure on this path is recovered locally: the transport delivers
// at least once and the payloads are adversarial by assumption, so
// garbage is logged and discarded rather than propagated. HandleMessage
// therefore always returns nil.
//
// Merges are serialized per device identifier. The transport delivers
// messages on arbitrary goroutines, and two messages for the same device
// arriving close together would otherwise race the read-modify-write
// against the store.
type Router struct {
	store   device.Store
	rules   RuleEvaluator
	history StateRecorder
	metrics MetricsWriter
	locks   *deviceLocks
	logger  Logger
}

// NewRouter creates a message router. history and metrics may be nil;
// rules may be nil when no automation engine is attached.
func NewRouter(store device.Store, rules RuleEvaluator, history StateRecorder, metrics MetricsWriter, logger Logger) *Router {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Router{
		store:   store,
		rules:   rules,
		history: history,
		metrics: metrics,
		locks:   newDeviceLocks(),
		logger:  logger,
	}
}

// HandleMessage processes one inbound transport message. It satisfies
// the MQTT client's MessageHandler signature.
func (r *Router) HandleMessage(topic string, payload []byte) error {
	ctx := context.Background()

	info, err := ParseTopic(topic)
	if err != nil {
		r.logger.Warn("discarding message with unroutable topic",
			"topic", topic,
			"error", err,
		)
		return nil
	}

	// Serialize the read-merge-write per device. Messages for other
	// devices proceed in parallel.
	lock := r.locks.get(info.DeviceID)
	lock.Lock()
	defer lock.Unlock()

	dev, err := r.store.FindByID(ctx, info.DeviceID)
	if err != nil {
		r.logger.Warn("discarding message for unknown device",
			"device_id", info.DeviceID,
			"topic", topic,
			"error", err,
		)
		return nil
	}

	plaintext, err := crypto.Decrypt(dev.KeyMaterial, string(payload))
	if err != nil {
		r.logger.Error("discarding message that failed decryption",
			"device_id", info.DeviceID,
			"topic", topic,
			"error", err,
		)
		return nil
	}

	var body map[string]any
	if err := json.Unmarshal(plaintext, &body); err != nil {
		r.logger.Error("discarding message with malformed payload",
			"device_id", info.DeviceID,
			"topic", topic,
			"payload", string(plaintext),
			"error", err,
		)
		return nil
	}

	if info.Class != ClassStatus && info.Class != ClassTelemetry {
		r.logger.Warn("ignoring unhandled message class",
			"device_id", info.DeviceID,
			"class", info.Class,
			"topic", topic,
		)
		return nil
	}

	fields, changed := mergeFields(dev, info, body)
	if !changed {
		r.logger.Debug("message produced no state change",
			"device_id", info.DeviceID,
			"class", info.Class,
			"sub_class", info.SubClass,
		)
		return nil
	}

	updated, err := r.store.Update(ctx, dev.ID, fields)
	if err != nil {
		r.logger.Error("state merge failed",
			"device_id", dev.ID,
			"error", err,
		)
		return nil
	}

	r.recordHistory(ctx, updated)
	r.recordMetrics(info, body)

	if r.rules != nil {
		r.rules.Evaluate(ctx, updated.ID, body)
	}
	return nil
}

// mergeFields applies the message-class merge policy and reports whether
// any state changed.
//
// Policy:
//   - status with a boolean "status" field: set the status flag and
//     replace the state wholesale with the payload
//   - status without one: merge the payload into the state
//   - telemetry/firmwareVersion with a string "version": set the
//     firmware version, state body unchanged
//   - telemetry otherwise: merge the payload into the state
//   - anything else: unhandled, no change
func mergeFields(dev *device.Device, info *TopicInfo, body map[string]any) (device.Fields, bool) {
	switch info.Class {
	case ClassStatus:
		if status, ok := body["status"].(bool); ok {
			return device.Fields{
				Status:         &status,
				LastKnownState: device.State(body),
			}, true
		}
		return device.Fields{LastKnownState: mergeState(dev.LastKnownState, body)}, true

	case ClassTelemetry:
		if info.SubClass == SubClassFirmwareVersion {
			if version, ok := body["version"].(string); ok {
				return device.Fields{FirmwareVersion: &version}, true
			}
			return device.Fields{}, false
		}
		return device.Fields{LastKnownState: mergeState(dev.LastKnownState, body)}, true

	default:
		return device.Fields{}, false
	}
}

// mergeState overlays payload keys onto a copy of the existing state.
// Top-level keys win; nested structures are not merged recursively, the
// payload's value replaces the old one.
func mergeState(existing device.State, payload map[string]any) device.State {
	merged := make(device.State, len(existing)+len(payload))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range payload {
		merged[k] = v
	}
	return merged
}

// recordHistory snapshots the merged state. Failures are logged; history
// is an audit trail, not part of the merge.
func (r *Router) recordHistory(ctx context.Context, dev *device.Device) {
	if r.history == nil {
		return
	}
	if err := r.history.RecordStateChange(ctx, dev.ID, dev.LastKnownState, device.StateHistorySourceMQTT); err != nil {
		r.logger.Error("recording state history failed",
			"device_id", dev.ID,
			"error", err,
		)
	}
}

// recordMetrics writes the numeric fields of telemetry payloads to the
// time-series store.
func (r *Router) recordMetrics(info *TopicInfo, body map[string]any) {
	if r.metrics == nil || info.Class != ClassTelemetry || info.SubClass == SubClassFirmwareVersion {
		return
	}
	for field, value := range body {
		if number, ok := value.(float64); ok {
			r.metrics.WriteDeviceMetric(info.DeviceID, field, number)
		}
	}
}
