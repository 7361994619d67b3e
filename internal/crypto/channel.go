package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// deriveKey turns arbitrary device key material into a 256-bit AES key.
//
// Firmware images ship with short human-entered key strings, so the raw
// material is hashed rather than decoded. Both sides must apply the same
// derivation or nothing will authenticate.
func deriveKey(keyMaterial string) [32]byte {
	return sha256.Sum256([]byte(keyMaterial))
}

// Encrypt seals plaintext for a device and returns the wire-form envelope.
//
// A fresh random IV is generated for every call. The key is derived from
// keyMaterial via SHA-256; an empty keyMaterial fails with ErrEncrypt
// (wrapping ErrInvalidKey). Empty plaintext is rejected as well: GCM seals
// it to an empty ciphertext, which the three-non-empty-segment wire format
// cannot carry, and every protocol payload is at least a JSON object.
func Encrypt(keyMaterial string, plaintext []byte) (string, error) {
	if keyMaterial == "" {
		return "", fmt.Errorf("%w: %w", ErrEncrypt, ErrInvalidKey)
	}
	if len(plaintext) == 0 {
		return "", fmt.Errorf("%w: empty plaintext", ErrEncrypt)
	}

	key := deriveKey(keyMaterial)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	// Seal appends the tag to the ciphertext; the wire format carries it
	// as a separate segment.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - TagSize

	env := &Envelope{
		IV:         iv,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}
	return env.Encode(), nil
}

// Decrypt opens a wire-form envelope sealed for a device.
//
// Any failure at all (malformed envelope, wrong key, tampered bytes)
// returns an error wrapping ErrInvalidEnvelope or ErrDecrypt and no
// plaintext. Callers on the inbound path log and discard; failures never
// produce partial output.
func Decrypt(keyMaterial string, text string) ([]byte, error) {
	if keyMaterial == "" {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, ErrInvalidKey)
	}

	env, err := ParseEnvelope(text)
	if err != nil {
		return nil, err
	}

	key := deriveKey(keyMaterial)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := gcm.Open(nil, env.IV, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrDecrypt)
	}
	return plaintext, nil
}
