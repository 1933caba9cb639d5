// Package config provides configuration management for dice chess games.
//
// Configurations are JSON files in a directory, one file per variant. The
// file name without extension is the config ID used when creating sessions.
// Each file defines:
//   - The starting layout, eight rows of eight characters with rank 0 first
//     (KQRBNP for white, kqrbnp for black, '.' for an empty square)
//   - Which side moves first
//   - Whether the host completes rolls and ends spent turns automatically
//   - Optional message overrides
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("skirmish")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Loaded configurations are cached until RefreshCache is called. When no
// classic.json exists the first valid file becomes the default, and an
// empty directory falls back to the standard starting position.
package config
