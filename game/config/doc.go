// Package config provides puzzle configuration management for the river-crossing solver.
//
// The config package handles:
//   - Loading puzzle configurations from JSON or YAML files
//   - Configuration validation through engine.ValidatePuzzleConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Puzzle configurations are stored as .json, .yaml or .yml files in the
// configs directory. The file name without extension is the config ID.
// Each configuration defines:
//   - The operator and the full set of entities
//   - Companions, in the order their crossings are tried
//   - Conflict groups that must not be left without the operator
//   - An optional custom start and display symbols
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	puzzleConfig, err := manager.LoadConfig("classic")
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
