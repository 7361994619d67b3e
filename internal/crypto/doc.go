// Package crypto implements the per-device encrypted channel for
// Home Control Hub.
//
// Every MQTT payload exchanged with a device is sealed with AES-256-GCM
// under a key unique to that device. The key is derived by hashing the
// device's stored key material with SHA-256, which lets installers use
// short readable key strings during commissioning.
//
// # Wire Format
//
// Encrypted payloads travel as three colon-separated hex segments:
//
//	{ivHex}:{tagHex}:{ciphertextHex}
//
// The IV is 12 bytes and the authentication tag 16 bytes. The tag is a
// distinct segment on the wire, so Encrypt splits it off the sealed
// output and Decrypt rejoins it before opening.
//
// # Usage
//
//	wire, err := crypto.Encrypt(dev.KeyMaterial, []byte(`{"status":true}`))
//	if err != nil {
//	    return err
//	}
//
//	plaintext, err := crypto.Decrypt(dev.KeyMaterial, wire)
//	if errors.Is(err, crypto.ErrDecrypt) {
//	    // wrong key or tampered message; discard
//	}
//
// # Failure Behaviour
//
// Decryption is fail-closed: malformed envelopes, unauthenticated
// ciphertext, and wrong keys all return an error and never partial
// plaintext. Encrypt generates a fresh random IV per message.
package crypto
