package crypto

import "errors"

// Domain errors for the crypto package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, crypto.ErrDecrypt) {
//	    // discard the message
//	}
var (
	// ErrEncrypt is returned when payload encryption fails.
	ErrEncrypt = errors.New("crypto: encrypt failed")

	// ErrDecrypt is returned when an envelope cannot be decrypted or
	// fails authentication.
	ErrDecrypt = errors.New("crypto: decrypt failed")

	// ErrInvalidEnvelope is returned when envelope text does not match
	// the iv:tag:ciphertext wire format.
	ErrInvalidEnvelope = errors.New("crypto: invalid envelope")

	// ErrInvalidKey marks empty key material. It never escapes on its own:
	// it is always wrapped by ErrEncrypt or ErrDecrypt so callers can
	// classify by direction.
	ErrInvalidKey = errors.New("crypto: invalid key material")
)
