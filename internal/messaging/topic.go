package messaging

import (
	"fmt"
	"strings"
)

// Message classes carried in the topic's fourth segment.
const (
	ClassStatus    = "status"
	ClassTelemetry = "telemetry"
	ClassCommand   = "command"
)

// SubClassFirmwareVersion marks telemetry messages carrying a firmware
// version report.
const SubClassFirmwareVersion = "firmwareVersion"

// Topic namespace literals. These are a wire contract with device
// firmware and must match exactly.
const (
	topicRoot    = "home"
	topicDevices = "devices"
)

// TopicInfo is the decoded form of an inbound device topic.
type TopicInfo struct {
	// DeviceID is the device identifier from the third segment.
	DeviceID string

	// Class is the message class (status, telemetry, command).
	Class string

	// SubClass is the optional selector after the class. Empty when the
	// topic has no fifth segment.
	SubClass string
}

// ParseTopic decodes a topic of the form
// home/devices/{deviceId}/{class}/{subClass?}.
//
// Topics with fewer than four segments, or whose first two segments are
// not the home/devices literals, return ErrInvalidTopic. Segments past
// the fifth are folded into SubClass so deep telemetry selectors survive
// intact.
func ParseTopic(topic string) (*TopicInfo, error) {
	segments := strings.Split(topic, "/")
	if len(segments) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 segments, got %d in %q", ErrInvalidTopic, len(segments), topic)
	}
	if segments[0] != topicRoot || segments[1] != topicDevices {
		return nil, fmt.Errorf("%w: %q is outside the %s/%s namespace", ErrInvalidTopic, topic, topicRoot, topicDevices)
	}
	if segments[2] == "" || segments[3] == "" {
		return nil, fmt.Errorf("%w: empty device or class segment in %q", ErrInvalidTopic, topic)
	}

	info := &TopicInfo{
		DeviceID: segments[2],
		Class:    segments[3],
	}
	if len(segments) > 4 {
		info.SubClass = strings.Join(segments[4:], "/")
	}
	return info, nil
}
