// Package mqtt provides MQTT client connectivity for the Home Control Hub.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The hub uses MQTT as the message bus between the core and the fleet of
// smart-home devices. The broker decouples the hub from individual device
// firmware.
//
//	Home Control Hub ↔ MQTT Broker ↔ Devices (ESP32 firmware)
//
// # Security Considerations
//
//   - TLS is recommended for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message bodies are additionally encrypted per device (AES-256-GCM);
//     see the crypto package — transport TLS protects topics, per-device
//     encryption protects payloads
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all device status reports
//	err = client.Subscribe(mqtt.Topics{}.AllDeviceStatus(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish command
//	topic := mqtt.Topics{}.DeviceCommand("lamp-01", "setLed")
//	client.Publish(topic, encrypted, 1, false)
package mqtt
