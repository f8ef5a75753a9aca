// Command analyze prints quick, human-readable search statistics for the
// puzzles in the project's configs directory. Every puzzle is solved with
// breadth-first search, depth-first search and A* under each heuristic, and
// the runs are compared on cost and effort. Runs that find a longer path than
// breadth-first search are flagged as suboptimal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/rivercrossing/game/config"
	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// AnalysisRun is the outcome of one strategy/heuristic pair on a puzzle.
type AnalysisRun struct {
	Strategy    search.Strategy
	Heuristic   string
	Found       bool
	Cost        int
	Expanded    int
	Generated   int
	MaxFrontier int
	Err         error
}

// Label names the run as it appears in the report.
func (r AnalysisRun) Label() string {
	if r.Heuristic == "" {
		return r.Strategy.String()
	}
	return r.Strategy.String() + "/" + r.Heuristic
}

// runPlan lists the strategy/heuristic pairs analyzed for every puzzle.
func runPlan() []AnalysisRun {
	plan := []AnalysisRun{{Strategy: search.BFS}, {Strategy: search.DFS}}
	for _, h := range engine.HeuristicNames() {
		plan = append(plan, AnalysisRun{Strategy: search.AStar, Heuristic: h})
	}
	return plan
}

// analyzePuzzle solves config with every planned run. maxExpansions of zero
// leaves the search unbounded.
func analyzePuzzle(ctx context.Context, cfg *engine.PuzzleConfig, maxExpansions int) ([]AnalysisRun, error) {
	puzzle, err := engine.NewPuzzle(cfg)
	if err != nil {
		return nil, err
	}

	opts := []search.Option{search.WithContext(ctx)}
	if maxExpansions > 0 {
		opts = append(opts, search.WithMaxExpansions(maxExpansions))
	}

	runs := runPlan()
	for i := range runs {
		run := &runs[i]
		sol, err := puzzle.Solve(run.Strategy, run.Heuristic, opts...)
		if sol != nil {
			run.Found = sol.Found
			run.Cost = sol.Cost
			run.Expanded = sol.Expanded
			run.Generated = sol.Generated
			run.MaxFrontier = sol.MaxFrontier
		}
		if err != nil && !errors.Is(err, search.ErrNotFound) {
			run.Err = err
		}
	}
	return runs, nil
}

// optimalCost returns the breadth-first cost, which is minimal for unit-cost
// crossings, or false when breadth-first search found nothing.
func optimalCost(runs []AnalysisRun) (int, bool) {
	for _, r := range runs {
		if r.Strategy == search.BFS && r.Found {
			return r.Cost, true
		}
	}
	return 0, false
}

// analyzeConfig writes the report for a single puzzle.
func analyzeConfig(ctx context.Context, w io.Writer, cfg *engine.PuzzleConfig, maxExpansions int) error {
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", cfg.Description)
	}
	fmt.Fprintf(w, "Entities: %d (operator %s)\n", len(cfg.Entities), cfg.Operator)
	fmt.Fprintf(w, "Conflict Groups: %d\n", len(cfg.Conflicts))

	runs, err := analyzePuzzle(ctx, cfg, maxExpansions)
	if err != nil {
		fmt.Fprintf(w, "Error building puzzle: %v\n", err)
		return err
	}

	optimal, solvable := optimalCost(runs)

	fmt.Fprintf(w, "%-16s %6s %9s %10s %9s\n", "RUN", "COST", "EXPANDED", "GENERATED", "FRONTIER")
	for _, r := range runs {
		cost := "-"
		if r.Found {
			cost = fmt.Sprintf("%d", r.Cost)
		}
		line := fmt.Sprintf("%-16s %6s %9d %10d %9d", r.Label(), cost, r.Expanded, r.Generated, r.MaxFrontier)
		switch {
		case r.Err != nil:
			line += "  ⚠️  " + r.Err.Error()
		case r.Found && solvable && r.Cost > optimal:
			line += "  ⚠️  suboptimal"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	if solvable {
		fmt.Fprintf(w, "✅ Optimal solution: %d crossings\n", optimal)
	} else if runs[0].Err == nil {
		fmt.Fprintf(w, "⚠️  UNSOLVABLE: %d reachable states, none of them the goal\n", runs[0].Expanded)
	} else {
		fmt.Fprintln(w, "⚠️  Inconclusive: breadth-first search stopped early")
	}
	return nil
}

// analyzeAll loads the named puzzles, or every puzzle in configDir when names
// is empty, and writes one report per puzzle.
func analyzeAll(ctx context.Context, w io.Writer, configDir string, names []string, maxExpansions int) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	var errs []error
	for _, name := range names {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", name)
		cfg, err := manager.LoadConfig(name)
		if err != nil {
			fmt.Fprintf(w, "Error loading config: %v\n", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := analyzeConfig(ctx, w, cfg, maxExpansions); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Compare search strategies on puzzle configurations",
		ArgsUsage: "[puzzle...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "max-expansions",
				Usage: "Stop each search after this many expansions (0 for no limit)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return analyzeAll(ctx, cmd.Writer, cmd.String("config-dir"), cmd.Args().Slice(), int(cmd.Int("max-expansions")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
