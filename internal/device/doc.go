// Package device provides the device directory for Home Control Hub.
//
// The directory is the catalogue of all provisioned devices. Each record
// carries the per-device AES key material, the last observed state, and
// the reported firmware version. The messaging layer resolves a record on
// every inbound message and writes merged state back through the Store.
//
// # Key Types
//
//   - Device: a provisioned device and its last observed condition
//   - Store: persistence interface (FindByID, List, Create, Update, Delete)
//   - Fields: partial-update descriptor consumed by Update
//   - StateHistoryRepository: audit trail of inbound state merges
//
// # Usage
//
//	store := device.NewSQLiteStore(db)
//
//	dev, err := store.FindByID(ctx, "lamp-01")
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // unknown or deprovisioned device
//	}
//
//	status := true
//	_, err = store.Update(ctx, dev.ID, device.Fields{
//	    Status:         &status,
//	    LastKnownState: merged,
//	})
//
// Update is a partial write: nil fields are untouched, and LastKnownState
// replaces the stored state wholesale. Merging happens in the caller,
// which serializes read-modify-write per device.
//
// # Thread Safety
//
// SQLiteStore is safe for concurrent use; consistency of concurrent
// read-merge-write cycles for the same device is the messaging layer's
// responsibility, not the store's.
//
// # Related Documentation
//
//   - migrations/20260820_120000_initial_schema.up.sql — Database schema
package device
