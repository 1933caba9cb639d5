// Package session provides session management for dice chess games.
//
// Each session owns one engine.GameEngine and the configuration it was
// created from. The Manager keeps sessions in memory keyed by lower-cased
// ID, generates 4-character hex IDs on demand, and expires idle sessions.
//
// Persistence:
//
// A Manager may be backed by a SessionPersistence. Two implementations are
// provided:
//   - FilePersistence writes one indented JSON file per session
//   - BadgerPersistence stores one record per session under the "session/"
//     key prefix of an embedded BadgerDB
//
// Both store the config ID, timestamps and the full game state. The dice
// source is not stored; a reloaded session rolls with a fresh RandomDice.
// Sessions missing from memory are loaded lazily by Get.
//
// Usage:
//
//	store, err := session.NewBadgerPersistence("data/sessions", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	manager := session.NewManagerWithPersistence(store)
//	sess, err := manager.Create("", "classic", config)
package session
