package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config validation")

// Supported configuration formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidatePuzzleConfig validates a puzzle configuration for correctness.
// Malformed configurations are rejected here so search never sees them.
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Operator == "" {
		return fmt.Errorf("%w: operator is required", ErrInvalidConfig)
	}

	// Validate the entity universe
	if len(config.Entities) < MinEntities || len(config.Entities) > MaxEntities {
		return fmt.Errorf("%w: entities must have between %d and %d members, got %d",
			ErrInvalidConfig, MinEntities, MaxEntities, len(config.Entities))
	}
	universe := make(map[string]bool, len(config.Entities))
	for i, e := range config.Entities {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("%w: entities[%d] is empty", ErrInvalidConfig, i)
		}
		if universe[e] {
			return fmt.Errorf("%w: entity %q is listed twice", ErrInvalidConfig, e)
		}
		universe[e] = true
	}
	if !universe[config.Operator] {
		return fmt.Errorf("%w: operator %q is not an entity", ErrInvalidConfig, config.Operator)
	}

	// Validate companions
	seen := make(map[string]bool, len(config.Companions))
	for _, c := range config.Companions {
		if !universe[c] {
			return fmt.Errorf("%w: companion %q is not an entity", ErrInvalidConfig, c)
		}
		if c == config.Operator {
			return fmt.Errorf("%w: operator %q cannot be its own companion", ErrInvalidConfig, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: companion %q is listed twice", ErrInvalidConfig, c)
		}
		seen[c] = true
	}

	// Validate conflict groups
	for i, group := range config.Conflicts {
		if len(canonical(group)) < 2 {
			return fmt.Errorf("%w: conflicts[%d] needs at least two distinct entities", ErrInvalidConfig, i)
		}
		for _, e := range group {
			if !universe[e] {
				return fmt.Errorf("%w: conflicts[%d] names unknown entity %q", ErrInvalidConfig, i, e)
			}
			if e == config.Operator {
				return fmt.Errorf("%w: conflicts[%d] cannot include the operator", ErrInvalidConfig, i)
			}
		}
	}

	// Validate symbols
	for e := range config.Symbols {
		if !universe[e] {
			return fmt.Errorf("%w: symbol defined for unknown entity %q", ErrInvalidConfig, e)
		}
	}

	// Validate heuristic
	if config.Heuristic != "" {
		if _, err := HeuristicByName(config.Heuristic); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	if config.Start != nil {
		if err := validateStart(config, universe); err != nil {
			return err
		}
	}
	return nil
}

// validateStart checks that a custom start partitions the universe, that the
// operator is with the boat and that both banks are safe.
func validateStart(config *PuzzleConfig, universe map[string]bool) error {
	start := config.Start
	if start.Transport != "" && !start.Transport.Valid() {
		return fmt.Errorf("%w: start.transport must be %q or %q, got %q",
			ErrInvalidConfig, Origin, Destination, start.Transport)
	}

	placed := make(map[string]bool, len(universe))
	for _, bank := range [][]string{start.Near, start.Far} {
		for _, e := range bank {
			if !universe[e] {
				return fmt.Errorf("%w: start names unknown entity %q", ErrInvalidConfig, e)
			}
			if placed[e] {
				return fmt.Errorf("%w: start places %q more than once", ErrInvalidConfig, e)
			}
			placed[e] = true
		}
	}
	if len(placed) != len(universe) {
		return fmt.Errorf("%w: start places %d of %d entities", ErrInvalidConfig, len(placed), len(universe))
	}

	transport := start.Transport
	if transport == "" {
		transport = Origin
	}
	boatBank := start.Near
	if transport == Destination {
		boatBank = start.Far
	}
	if !slices.Contains(boatBank, config.Operator) {
		return fmt.Errorf("%w: operator %q must start on the %s bank with the boat",
			ErrInvalidConfig, config.Operator, transport)
	}

	rules := newRuleSet(config)
	if !rules.IsSafe(start.Near) || !rules.IsSafe(start.Far) {
		return fmt.Errorf("%w: start arrangement is unsafe", ErrInvalidConfig)
	}
	return nil
}

// FormatFromPath returns the configuration format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// DecodePuzzleConfig parses and validates a configuration in the given format.
func DecodePuzzleConfig(data []byte, format string) (*PuzzleConfig, error) {
	var config PuzzleConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := ValidatePuzzleConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// EncodePuzzleConfig renders a configuration in the given format.
func EncodePuzzleConfig(config *PuzzleConfig, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	case FormatYAML:
		return yaml.Marshal(config)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// LoadPuzzleConfig loads a puzzle configuration from a JSON or YAML file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	format, err := FormatFromPath(configPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return DecodePuzzleConfig(data, format)
}

// DefaultPuzzleConfig returns the classic farmer, wolf, goat and cabbage puzzle.
func DefaultPuzzleConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "classic",
		Description: "A farmer must ferry a wolf, a goat and a cabbage across the river.",
		Operator:    "farmer",
		Entities:    []string{"farmer", "goat", "wolf", "cabbage"},
		Companions:  []string{"goat", "wolf", "cabbage"},
		Conflicts: [][]string{
			{"wolf", "goat"},
			{"goat", "cabbage"},
		},
		Symbols: map[string]string{
			"farmer":  "F",
			"goat":    "G",
			"wolf":    "W",
			"cabbage": "C",
		},
		Heuristic: HeuristicRemaining,
	}
}
