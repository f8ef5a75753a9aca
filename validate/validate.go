// Command validate provides a small CLI that validates puzzle configuration
// files (JSON or YAML) in the ../configs directory. It checks:
//   - File format and unknown fields
//   - Entity universe, operator, companions and conflict groups
//   - Custom start states (partition, boat side, safety)
//   - Display symbols (missing or duplicated glyphs)
//   - Solvability: a breadth-first search from the start state must reach the goal
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file. When
// requireSolvable is set an unsolvable puzzle is an error, otherwise a warning.
func validateConfig(filePath string, requireSolvable bool) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	format, err := engine.FormatFromPath(filePath)
	if err != nil {
		result.fail("Unsupported file: %v", err)
		return result
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodePuzzleConfig(data, format)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			result.fail("Invalid puzzle: %v", err)
		} else {
			result.fail("Invalid %s: %v", strings.ToUpper(format), err)
		}
		return result
	}

	validateSymbols(config, &result)

	solvability := validateSolvability(config)
	result.Info = append(result.Info, solvability.Info...)
	if !solvability.Valid {
		if requireSolvable {
			result.Valid = false
			result.Errors = append(result.Errors, solvability.Errors...)
		} else {
			result.Warnings = append(result.Warnings, solvability.Errors...)
		}
	}

	// Add informational data
	result.info("✓ Name: %s", config.Name)
	result.info("✓ Entities: %d (operator %s)", len(config.Entities), config.Operator)
	result.info("✓ Moves: %d", len(config.Companions)+1)
	result.info("✓ Conflict groups: %d", len(config.Conflicts))
	if config.Start != nil {
		result.info("✓ Start: custom, boat at %s", config.Start.Transport)
	} else {
		result.info("✓ Start: everyone on the origin bank")
	}

	return result
}

// validateSymbols warns about entities without a glyph and glyphs used twice.
func validateSymbols(config *engine.PuzzleConfig, result *ValidationResult) {
	if len(config.Symbols) == 0 {
		return
	}

	owners := make(map[string][]string)
	for _, e := range config.Entities {
		glyph, ok := config.Symbols[e]
		if !ok {
			result.warn("Missing symbol for entity %q", e)
			continue
		}
		owners[glyph] = append(owners[glyph], e)
	}

	glyphs := make([]string, 0, len(owners))
	for g := range owners {
		glyphs = append(glyphs, g)
	}
	slices.Sort(glyphs)
	for _, g := range glyphs {
		if len(owners[g]) > 1 {
			result.warn("Symbol %q is shared by %s", g, strings.Join(owners[g], ", "))
		}
	}
}

// validateSolvability runs a breadth-first search from the start state. When no
// solution exists the search has explored every reachable state.
func validateSolvability(config *engine.PuzzleConfig) ValidationResult {
	result := ValidationResult{Valid: true}

	puzzle, err := engine.NewPuzzle(config)
	if err != nil {
		result.fail("Cannot build puzzle: %v", err)
		return result
	}

	sol, err := puzzle.Solve(search.BFS, "")
	switch {
	case errors.Is(err, search.ErrNotFound):
		result.fail("Unsolvable: all %d reachable states explored without reaching the goal", sol.Expanded)
	case err != nil:
		result.fail("Search failed: %v", err)
	default:
		result.info("✓ Solvable: optimal solution takes %d crossings (%d states expanded)", sol.Cost, sol.Expanded)
	}
	return result
}

// configFiles lists the JSON and YAML files of dir in name order.
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

// validateDir validates every configuration in dir, writes a report to w and
// reports whether all files are valid.
func validateDir(w io.Writer, dir string, requireSolvable bool) (bool, error) {
	files, err := configFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no configuration files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, requireSolvable)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

// main validates every configuration in the config directory and exits with
// non-zero status if any are invalid.
func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate puzzle configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "../configs",
				Usage:   "Directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "require-solvable",
				Usage: "Treat unsolvable puzzles as invalid",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.Writer, cmd.String("config-dir"), cmd.Bool("require-solvable"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
