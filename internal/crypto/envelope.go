package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Wire format constants. Devices use AES-256-GCM with a 96-bit IV and a
// 128-bit authentication tag, transmitted as colon-separated hex segments.
const (
	// IVSize is the GCM nonce length in bytes.
	IVSize = 12

	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16

	// envelopeSegments is the number of colon-separated parts on the wire.
	envelopeSegments = 3
)

// Envelope is a decoded encrypted message as transmitted over MQTT.
//
// The wire form is "ivHex:tagHex:ciphertextHex". The authentication tag
// travels as its own segment rather than appended to the ciphertext, so
// both directions must split and rejoin it around the cipher calls.
type Envelope struct {
	IV         []byte
	Tag        []byte
	Ciphertext []byte
}

// ParseEnvelope decodes wire text into an Envelope.
//
// The text must contain exactly three non-empty colon-separated hex
// segments and the IV must decode to IVSize bytes. Anything else returns
// ErrInvalidEnvelope; the payload is never partially decoded.
func ParseEnvelope(text string) (*Envelope, error) {
	parts := strings.Split(text, ":")
	if len(parts) != envelopeSegments {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrInvalidEnvelope, envelopeSegments, len(parts))
	}
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment %d", ErrInvalidEnvelope, i)
		}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not hex", ErrInvalidEnvelope)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidEnvelope, IVSize, len(iv))
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: tag is not hex", ErrInvalidEnvelope)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d", ErrInvalidEnvelope, TagSize, len(tag))
	}

	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not hex", ErrInvalidEnvelope)
	}

	return &Envelope{IV: iv, Tag: tag, Ciphertext: ct}, nil
}

// Encode renders the envelope in its wire form.
func (e *Envelope) Encode() string {
	return hex.EncodeToString(e.IV) + ":" + hex.EncodeToString(e.Tag) + ":" + hex.EncodeToString(e.Ciphertext)
}
