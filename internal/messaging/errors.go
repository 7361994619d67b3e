package messaging

import "errors"

// Domain errors for the messaging package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, messaging.ErrInvalidTopic) {
//	    // discard the message
//	}
var (
	// ErrInvalidTopic is returned when a topic does not match the
	// home/devices/{deviceId}/{class}/{subClass?} shape.
	ErrInvalidTopic = errors.New("messaging: invalid topic")

	// ErrInvalidPayload is returned when a command payload cannot be
	// serialized.
	ErrInvalidPayload = errors.New("messaging: invalid payload")
)
