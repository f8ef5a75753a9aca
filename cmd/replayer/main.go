// Command replayer drives a replay session over the REST API. It creates a
// session for a puzzle (or resumes a saved one), rewinds it and steps through
// every crossing, printing each frame until everyone is across.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/rivercrossing/internal/logging"
)

// Frame is the part of a replay frame the replayer prints.
type Frame struct {
	SessionID   string `json:"session_id"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// SessionResponse is the session payload returned by the API.
type SessionResponse struct {
	ID         string `json:"id"`
	ConfigName string `json:"config_name"`
	Strategy   string `json:"strategy"`
	Heuristic  string `json:"heuristic,omitempty"`
	Frame      *Frame `json:"frame"`
}

// ResetResponse is returned by the reset endpoint.
type ResetResponse struct {
	Message string `json:"message"`
	Frame   *Frame `json:"frame"`
}

// Client talks to the replay endpoints for a single session.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends a JSON request and decodes a JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// CreateSession solves configID on the server and opens a replay session.
func (c *Client) CreateSession(ctx context.Context, configID, strategy, heuristic string) (*SessionResponse, error) {
	req := map[string]string{"config_id": configID, "strategy": strategy}
	if heuristic != "" {
		req["heuristic"] = heuristic
	}

	var session SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = session.ID
	return &session, nil
}

func (c *Client) GetSession(ctx context.Context) (*SessionResponse, error) {
	var session SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+c.sessionID, nil, &session); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// Step moves the replay cursor by delta crossings.
func (c *Client) Step(ctx context.Context, delta int) (*Frame, error) {
	var frame Frame
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/step", map[string]int{"delta": delta}, &frame); err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	return &frame, nil
}

func (c *Client) Reset(ctx context.Context) (*Frame, error) {
	var resp ResetResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/reset", nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if resp.Frame == nil {
		return nil, errors.New("reset: response carries no frame")
	}
	return resp.Frame, nil
}

// Options configure a replay run.
type Options struct {
	ServerURL   string
	ConfigID    string
	Strategy    string
	Heuristic   string
	Continue    string // session to resume
	SessionFile string // remembers the session between runs, empty disables
	Delay       time.Duration
}

// openSession resumes the requested or saved session when it still exists and
// creates a new one otherwise.
func openSession(ctx context.Context, client *Client, opts Options) (*SessionResponse, error) {
	savedID := opts.Continue
	if savedID == "" && opts.SessionFile != "" {
		if data, err := os.ReadFile(opts.SessionFile); err == nil {
			savedID = string(bytes.TrimSpace(data))
		}
	}

	if savedID != "" {
		client.sessionID = savedID
		session, err := client.GetSession(ctx)
		if err == nil {
			slog.Info("resumed session", "session", session.ID, "config", session.ConfigName, "strategy", session.Strategy)
			return session, nil
		}
		slog.Warn("failed to resume session, creating a new one", "session", savedID, "error", err)
	}

	session, err := client.CreateSession(ctx, opts.ConfigID, opts.Strategy, opts.Heuristic)
	if err != nil {
		return nil, err
	}
	slog.Info("session created", "session", session.ID, "config", session.ConfigName, "strategy", session.Strategy)

	if opts.SessionFile != "" {
		if err := os.WriteFile(opts.SessionFile, []byte(session.ID), 0644); err != nil {
			slog.Warn("failed to save session id", "file", opts.SessionFile, "error", err)
		}
	}
	return session, nil
}

func printFrame(w io.Writer, frame *Frame) {
	fmt.Fprintf(w, "Step %d/%d: %s\n", frame.Index, frame.Total, frame.Description)
}

// replay rewinds the session and steps through it one crossing at a time.
func replay(ctx context.Context, w io.Writer, client *Client, delay time.Duration) error {
	frame, err := client.Reset(ctx)
	if err != nil {
		return err
	}
	printFrame(w, frame)

	for !frame.Done {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		next, err := client.Step(ctx, 1)
		if err != nil {
			return err
		}
		if next.Index != frame.Index+1 {
			return fmt.Errorf("replay stalled at step %d/%d", frame.Index, frame.Total)
		}
		frame = next
		printFrame(w, frame)
	}

	fmt.Fprintf(w, "🎉 Everyone is across in %d crossings (session %s)\n", frame.Total, client.sessionID)
	return nil
}

// run opens a session and replays it.
func run(ctx context.Context, w io.Writer, opts Options) error {
	slog.Info("connecting to solver", "url", opts.ServerURL)
	client := NewClient(opts.ServerURL)

	if _, err := openSession(ctx, client, opts); err != nil {
		return err
	}
	return replay(ctx, w, client, opts.Delay)
}

func main() {
	cmd := &cli.Command{
		Name:  "replayer",
		Usage: "Replay a solved river crossing puzzle through the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Solver server URL", Sources: cli.EnvVars("SOLVER_URL")},
			&cli.StringFlag{Name: "config", Value: "classic", Usage: "Puzzle to solve"},
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Value: "astar", Usage: "Search strategy: bfs, dfs or astar"},
			&cli.StringFlag{Name: "heuristic", Usage: "A* heuristic: remaining, half or zero"},
			&cli.StringFlag{Name: "continue", Usage: "Resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "File remembering the session between runs (empty to disable)"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between crossings in milliseconds"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: debug, info, warn or error", Sources: cli.EnvVars("LOG_LEVEL")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := logging.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(level))

			return run(ctx, cmd.Writer, Options{
				ServerURL:   cmd.String("url"),
				ConfigID:    cmd.String("config"),
				Strategy:    cmd.String("strategy"),
				Heuristic:   cmd.String("heuristic"),
				Continue:    cmd.String("continue"),
				SessionFile: cmd.String("session-file"),
				Delay:       time.Duration(cmd.Int("delay")) * time.Millisecond,
			})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("replay failed", "error", err)
		os.Exit(1)
	}
}
