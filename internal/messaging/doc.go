// Package messaging is the message core of Home Control Hub: it routes
// inbound device traffic into state merges and rule evaluation, and
// publishes outbound commands over the encrypted channel.
//
// # Inbound Pipeline
//
// The Router's HandleMessage is subscribed to the device topic namespace
// and runs, per message:
//
//  1. Parse the topic into (deviceId, class, subClass)
//  2. Resolve the device record and its key material
//  3. Decrypt the payload (AES-256-GCM envelope)
//  4. Parse the plaintext as a JSON object
//  5. Merge into device state per message class
//  6. Record history/metrics and evaluate automation rules
//
// Any failure in steps 1-5 logs and discards the message. Transport
// delivery is at least once and payloads may be corrupted or hostile, so
// the inbound path never propagates errors and never crashes processing
// for other messages.
//
// Merges are a read-modify-write against the device store and are
// serialized per device identifier with a keyed mutex; different devices
// merge fully in parallel.
//
// # Outbound Path
//
// The Publisher resolves a device, seals the command payload, and
// publishes to home/devices/{deviceId}/command/{commandName}. Outbound
// errors ARE surfaced: callers (direct commands or triggered rules) need
// to know the action failed. Check with errors.Is against
// device.ErrDeviceNotFound and crypto.ErrEncrypt.
//
// # Usage
//
//	router := messaging.NewRouter(store, engine, history, metrics, log)
//	client.Subscribe(topics.AllDeviceStatus(), 1, router.HandleMessage)
//	client.Subscribe(topics.AllDeviceTelemetry(), 1, router.HandleMessage)
//
//	publisher := messaging.NewPublisher(store, client, 1, log)
//	err := publisher.PublishCommand(ctx, "lamp-01", "setLed", map[string]any{"on": true})
package messaging
