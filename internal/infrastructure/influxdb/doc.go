// Package influxdb provides InfluxDB connectivity for Home Control Hub.
//
// It records telemetry history for devices: after an inbound telemetry
// payload is decrypted and merged into device state, the numeric fields
// are written here as time-series points for dashboards and analysis.
//
// # Usage
//
//	client := influxdb.New(config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "homehub-token",
//	    Org:     "homehub",
//	    Bucket:  "telemetry",
//	}, logger)
//
//	if err := client.Connect(ctx); err != nil {
//	    // handle error (ErrDisabled when enabled: false)
//	}
//	defer client.Close()
//
//	client.WriteDeviceMetric("lamp-01", "temperature", 21.5)
//
// # Disabled Mode
//
// When enabled: false in config.yaml, Connect returns ErrDisabled and the
// hub runs without telemetry history. Callers hold the client behind a
// small interface so a nil writer is a safe no-op in the messaging layer.
//
// # Write Semantics
//
// Writes are non-blocking and batched according to config.yaml settings
// (batch_size, flush_interval). Batch errors surface through the callback
// registered with SetOnError and are logged rather than returned.
package influxdb
