package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
)

// stateView mirrors the JSON form of a search state
type stateView struct {
	Near      []string `json:"near"`
	Far       []string `json:"far"`
	Transport string   `json:"transport"`
	Cost      int      `json:"cost"`
	Goal      bool     `json:"goal"`
}

type stepView struct {
	Index int         `json:"index"`
	State stateView   `json:"state"`
	Move  engine.Move `json:"move"`
}

// solutionView mirrors the JSON form of a solve result
type solutionView struct {
	Puzzle      string        `json:"puzzle"`
	Strategy    string        `json:"strategy"`
	Heuristic   string        `json:"heuristic"`
	Found       bool          `json:"found"`
	Cost        int           `json:"cost"`
	Steps       []stepView    `json:"steps"`
	Expanded    int           `json:"expanded"`
	Generated   int           `json:"generated"`
	MaxFrontier int           `json:"max_frontier"`
	Duration    time.Duration `json:"duration_ns"`
}

type comparisonView struct {
	ConfigID    string          `json:"config_id"`
	Results     []*solutionView `json:"results"`
	OptimalCost int             `json:"optimal_cost"`
	Solvable    bool            `json:"solvable"`
}

func formatConfigs(configs []*service.ConfigInfo) string {
	if len(configs) == 0 {
		return "No configurations available"
	}
	var b strings.Builder
	b.WriteString("Available puzzles:\n")
	for _, c := range configs {
		fmt.Fprintf(&b, "- %s: %s (%d entities, %d conflict groups, operator %s)\n",
			c.ConfigID, c.Name, c.Entities, c.Conflicts, c.Operator)
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}
	}
	return b.String()
}

func formatPuzzle(cfg *engine.PuzzleConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle: %s\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(&b, "%s\n", cfg.Description)
	}
	fmt.Fprintf(&b, "\nOperator: %s (must be on every crossing)\n", cfg.Operator)
	fmt.Fprintf(&b, "Entities: %s\n", strings.Join(cfg.Entities, ", "))

	b.WriteString("\nAllowed crossings:\n")
	fmt.Fprintf(&b, "- %s alone\n", cfg.Operator)
	for _, c := range cfg.Companions {
		fmt.Fprintf(&b, "- %s with %s\n", cfg.Operator, c)
	}

	if len(cfg.Conflicts) == 0 {
		b.WriteString("\nNo conflicts: every bank is always safe.\n")
	} else {
		fmt.Fprintf(&b, "\nConflicts (never together without %s):\n", cfg.Operator)
		for _, group := range cfg.Conflicts {
			fmt.Fprintf(&b, "- %s\n", strings.Join(group, ", "))
		}
	}

	if cfg.Start != nil {
		fmt.Fprintf(&b, "\nStart: origin [%s], destination [%s], boat at %s\n",
			strings.Join(cfg.Start.Near, " "), strings.Join(cfg.Start.Far, " "), cfg.Start.Transport)
	}
	if cfg.Heuristic != "" {
		fmt.Fprintf(&b, "Default A* heuristic: %s\n", cfg.Heuristic)
	}
	return b.String()
}

func formatSolution(sol *solutionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle: %s\nStrategy: %s", sol.Puzzle, sol.Strategy)
	if sol.Heuristic != "" {
		fmt.Fprintf(&b, " (heuristic %s)", sol.Heuristic)
	}
	b.WriteString("\n")

	if !sol.Found {
		fmt.Fprintf(&b, "❌ No solution: the search exhausted every reachable state (%d expanded)\n", sol.Expanded)
		return b.String()
	}

	fmt.Fprintf(&b, "✅ Solved in %d crossings\n\n", sol.Cost)
	for _, step := range sol.Steps {
		b.WriteString(formatStepLine(step))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nExpanded: %d | Generated: %d | Max frontier: %d | Time: %s\n",
		sol.Expanded, sol.Generated, sol.MaxFrontier, sol.Duration)
	return b.String()
}

func formatStepLine(step stepView) string {
	banks := fmt.Sprintf("origin [%s] | destination [%s]",
		strings.Join(step.State.Near, " "), strings.Join(step.State.Far, " "))
	if step.Move == nil {
		return fmt.Sprintf("start: %s", banks)
	}
	return fmt.Sprintf("%d. %s -> %s: %s", step.Index, step.Move, step.State.Transport, banks)
}

func formatComparison(cmp *comparisonView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle: %s\n", cmp.ConfigID)
	if cmp.Solvable {
		fmt.Fprintf(&b, "Optimal cost: %d\n\n", cmp.OptimalCost)
	} else {
		b.WriteString("Unsolvable\n\n")
	}

	fmt.Fprintf(&b, "%-8s %-6s %-5s %-9s %-10s %-9s\n", "STRATEGY", "FOUND", "COST", "EXPANDED", "GENERATED", "FRONTIER")
	for _, r := range cmp.Results {
		cost := "-"
		if r.Found {
			cost = fmt.Sprint(r.Cost)
		}
		fmt.Fprintf(&b, "%-8s %-6t %-5s %-9d %-10d %-9d\n",
			r.Strategy, r.Found, cost, r.Expanded, r.Generated, r.MaxFrontier)
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nStrategy: %s\n", session.ID, session.ConfigName, session.Strategy)
	if session.Heuristic != "" {
		fmt.Fprintf(&b, "Heuristic: %s\n", session.Heuristic)
	}
	if session.Frame != nil {
		b.WriteString(formatFrame(session.Frame))
	}
	return b.String()
}

func formatFrame(frame *service.ReplayFrame) string {
	if frame == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d/%d\n", frame.Index, frame.Total)
	if frame.Description != "" {
		fmt.Fprintf(&b, "%s\n", frame.Description)
	}
	if frame.Rendered != "" {
		fmt.Fprintf(&b, "%s\n", frame.Rendered)
	}
	if frame.Done {
		b.WriteString("🎉 Everyone is across.\n")
	}
	return b.String()
}
