// Command rivercrossing solves river crossing puzzles and serves the solver.
//
// Commands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, replay WebSocket, /metrics and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "solve" – solves one puzzle and prints every crossing
//
// Flags control host/port, config and session directories, logging, and
// optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/rivercrossing/api"
	"github.com/wricardo/mcp-training/rivercrossing/game/config"
	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
	"github.com/wricardo/mcp-training/rivercrossing/game/session"
	"github.com/wricardo/mcp-training/rivercrossing/internal/logging"
	"github.com/wricardo/mcp-training/rivercrossing/internal/metrics"
	"github.com/wricardo/mcp-training/rivercrossing/transport/mcp"
	"github.com/wricardo/mcp-training/rivercrossing/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "River Crossing Solver"
)

// Session housekeeping intervals.
const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
	sessionSyncEvery    = 5 * time.Second
)

// main loads .env and runs the command line application.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	if envErr != nil && !os.IsNotExist(envErr) {
		slog.Warn("error loading .env file", "error", envErr)
	}
	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flags declared on the root are inherited by
// every command.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "rivercrossing",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing puzzle configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory where replay sessions are persisted",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging (same as --log-level debug)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			solveCommand(),
		},
		Action: runServe,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "Run the HTTP server with REST API, WebSocket, metrics and MCP endpoint",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServe,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server backed by the HTTP API",
		Action:  runStdioMCP,
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "Solve a puzzle and print every crossing",
		ArgsUsage: "[config name or file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Value:   search.AStar.String(),
				Usage:   "Search strategy (bfs, dfs, astar)",
			},
			&cli.StringFlag{
				Name:  "heuristic",
				Usage: "A* heuristic (remaining, half, zero)",
			},
			&cli.IntFlag{
				Name:  "max-expansions",
				Usage: "Stop after this many expanded states (0 = unlimited)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			return solvePuzzle(ctx, cmd.Root().Writer, solveOptions{
				ConfigDir:     cmd.String("config-dir"),
				Puzzle:        cmd.Args().First(),
				Strategy:      cmd.String("strategy"),
				Heuristic:     cmd.String("heuristic"),
				MaxExpansions: int(cmd.Int("max-expansions")),
			})
		},
	}
}

// setupLogging installs the process logger from --log-level and --debug.
func setupLogging(cmd *cli.Command) {
	level, err := logging.ParseLevel(cmd.String("log-level"))
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.New(level))
	if err != nil {
		slog.Warn("invalid log level, using info", "error", err)
	}
}

// services holds everything the HTTP and MCP modes share.
type services struct {
	solver      service.SolverService
	sessions    *session.Manager
	persistence *session.FilePersistence
	registry    *prometheus.Registry
	recorder    *metrics.Recorder
}

// initializeServices wires the config and session managers, metrics and the
// solver service.
func initializeServices(configDir, sessionsDir string) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		slog.Warn("failed to load persisted sessions", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	return &services{
		solver:      service.NewSolverService(sessionManager, configManager, service.WithRecorder(recorder)),
		sessions:    sessionManager,
		persistence: persistence,
		registry:    registry,
		recorder:    recorder,
	}, nil
}

// startHousekeeping runs session cleanup and filesystem sync until ctx is done.
func (s *services) startHousekeeping(ctx context.Context) {
	go sessionCleanupRoutine(ctx, s.sessions)
	go filesystemSyncRoutine(ctx, s.sessions, s.persistence)
}

// newAPI creates the replay hub and the API server. The hub is not running yet.
func (s *services) newAPI() (*api.Server, *websocket.Hub) {
	var apiServer *api.Server
	hub := websocket.NewHub(
		websocket.WithClientGauge(s.recorder.SetReplayClients),
		websocket.WithCommandHandler(func(sessionID string, cmd websocket.Command) {
			apiServer.HandleCommand(context.Background(), sessionID, cmd)
		}),
	)
	apiServer = api.NewServer(s.solver, hub, api.WithMetrics(s.registry))
	return apiServer, hub
}

// newHTTPHandler mounts the API at the root and the MCP proxy at /mcp.
func newHTTPHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, metrics and an
// /mcp proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)
	slog.Info("starting", "app", AppName, "version", Version, "mode", "serve")

	svc, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	svc.startHousekeeping(ctx)

	apiServer, hub := svc.newAPI()
	defer apiServer.Close()
	go hub.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mainRouter := newHTTPHandler(apiServer, mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		slog.Info("HTTP server listening", "addr", addr)
		slog.Info("endpoints",
			"api", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"metrics", fmt.Sprintf("http://%s/metrics", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	if err := svc.sessions.SaveAllSessions(); err != nil {
		slog.Warn("failed to save sessions", "error", err)
	}

	wg.Wait()
	slog.Info("server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done.
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		slog.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	slog.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		slog.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		slog.Error("failed to start ngrok tunnel", "error", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			slog.Warn("failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	slog.Info("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp")

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		slog.Error("ngrok server error", "error", err)
	}
	slog.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				slog.Info("cleaned up expired sessions", "removed", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// It removes sessions from memory when their corresponding files are deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(sessionSyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneDeletedSessions(manager, persistence); pruned > 0 {
				slog.Info("filesystem sync pruned orphaned sessions", "pruned", pruned)
			}
		}
	}
}

// pruneDeletedSessions drops in-memory sessions whose files are gone.
func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	if persistence == nil {
		return 0
	}
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			slog.Debug("pruned session from memory (file deleted)", "session", sess.ID)
		}
	}
	return pruned
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// --host/--port; otherwise it starts an internal HTTP API on a random loopback
// port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	baseURL := externalURL
	slog.Info("checking for external API server", "url", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		slog.Info("external API server found, using it for MCP", "url", externalURL)
	} else {
		slog.Info("no external API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("config-dir"), cmd.String("sessions-dir"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		svc.startHousekeeping(ctx)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		apiServer, hub := svc.newAPI()
		defer apiServer.Close()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: apiServer}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("internal HTTP server error", "error", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		slog.Info("internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	slog.Info("MCP stdio server ready", "api", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// solveOptions are the inputs of the solve command.
type solveOptions struct {
	ConfigDir     string
	Puzzle        string // config ID, file path, or empty for the default
	Strategy      string
	Heuristic     string
	MaxExpansions int
}

// loadPuzzleConfig resolves a puzzle argument: an existing file path, then a
// config ID in the config directory, then the built-in default.
func loadPuzzleConfig(configDir, name string) (*engine.PuzzleConfig, error) {
	if name == "" {
		if manager, err := config.NewManager(configDir); err == nil {
			return manager.GetDefault(), nil
		}
		return engine.DefaultPuzzleConfig(), nil
	}

	if ext := filepath.Ext(name); ext != "" {
		if _, err := os.Stat(name); err == nil {
			return engine.LoadPuzzleConfig(name)
		}
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}
	return manager.LoadConfig(name)
}

// solvePuzzle solves one puzzle and writes the crossings to w. An unsolvable
// puzzle is reported and exits with status 2.
func solvePuzzle(ctx context.Context, w io.Writer, opts solveOptions) error {
	strategy, err := search.ParseStrategy(opts.Strategy)
	if err != nil {
		return err
	}

	cfg, err := loadPuzzleConfig(opts.ConfigDir, opts.Puzzle)
	if err != nil {
		return err
	}
	puzzle, err := engine.NewPuzzle(cfg)
	if err != nil {
		return err
	}

	searchOpts := []search.Option{search.WithContext(ctx)}
	if opts.MaxExpansions > 0 {
		searchOpts = append(searchOpts, search.WithMaxExpansions(opts.MaxExpansions))
	}

	sol, err := puzzle.Solve(strategy, opts.Heuristic, searchOpts...)
	if err != nil && !errors.Is(err, search.ErrNotFound) {
		return err
	}

	fmt.Fprintf(w, "Puzzle: %s\n", cfg.Name)
	fmt.Fprintf(w, "Strategy: %s", sol.Strategy)
	if sol.Heuristic != "" {
		fmt.Fprintf(w, " (heuristic %s)", sol.Heuristic)
	}
	fmt.Fprintln(w)

	if !sol.Found {
		fmt.Fprintf(w, "No solution: %d states expanded\n", sol.Expanded)
		return cli.Exit("", 2)
	}

	fmt.Fprintln(w)
	for _, step := range sol.Steps {
		fmt.Fprintln(w, puzzle.Describe(step))
	}
	fmt.Fprintf(w, "\nSolved in %d crossings (expanded %d, generated %d, max frontier %d, %s)\n",
		sol.Cost, sol.Expanded, sol.Generated, sol.MaxFrontier, sol.Duration)
	return nil
}
