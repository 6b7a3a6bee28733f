// Command mancala serves Kalah games.
//
// Commands:
//  1. "server" (default) – HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint,
//     optionally tunneled through ngrok for external access during development
//  2. "mcp" – MCP stdio server; reuses a running API or spins up an internal one
//  3. "play" – hot-seat game in the terminal
//  4. "validate" – check rule set files
//  5. "simulate" – seeded random playouts for a rule set
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mancala/api"
	"github.com/wricardo/mancala/game/config"
	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/layout"
	"github.com/wricardo/mancala/game/service"
	"github.com/wricardo/mancala/game/session"
	"github.com/wricardo/mancala/game/simulate"
	"github.com/wricardo/mancala/transport/mcp"
	"github.com/wricardo/mancala/transport/websocket"
	"github.com/wricardo/mancala/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mancala Server"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func newApp() *cli.Command {
	serverCmd := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Action:  runHTTPServer,
	}

	return &cli.Command{
		Name:    "mancala",
		Usage:   AppName,
		Version: Version,
		// Root flags are inherited by every command
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing rule set files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("MANCALA_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "console",
				Usage:   "log format: console or json",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		}, serverFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"), cmd.String("log-format"), os.Stderr)
			return ctx, nil
		},
		// Without a command, run the server
		Action: runHTTPServer,
		Commands: []*cli.Command{
			serverCmd,
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "REST API to reuse when it is reachable",
						Sources: cli.EnvVars("MANCALA_API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "Play a hot-seat game in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "rules", Value: config.DefaultConfigID, Usage: "rule set id"},
				},
				Action: runPlay,
			},
			{
				Name:      "validate",
				Usage:     "Validate rule set files",
				ArgsUsage: "[dir]",
				Action:    runValidate,
			},
			{
				Name:  "simulate",
				Usage: "Play seeded random games and print statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "rules", Value: config.DefaultConfigID, Usage: "rule set id"},
					&cli.IntFlag{Name: "games", Value: 1000, Usage: "number of games"},
					&cli.IntFlag{Name: "workers", Usage: "parallel workers (default GOMAXPROCS)"},
					&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed"},
					&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
				},
				Action: runSimulate,
			},
		},
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Value:   24 * time.Hour,
			Usage:   "remove sessions idle for longer than this",
			Sources: cli.EnvVars("SESSION_TTL"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "expose the server through an ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

// tunnelSettings configures the optional ngrok tunnel
type tunnelSettings struct {
	AuthToken string
	Domain    string
}

// tunnelFromFlags returns nil when the tunnel is disabled or has no auth token
func tunnelFromFlags(enabled bool, authToken, domain string) *tunnelSettings {
	if !enabled {
		return nil
	}
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return nil
	}
	return &tunnelSettings{AuthToken: authToken, Domain: domain}
}

func (t *tunnelSettings) endpoint() ngrokConfig.Tunnel {
	if t.Domain != "" {
		return ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(t.Domain))
	}
	return ngrokConfig.HTTPEndpoint()
}

// serveTunnel serves httpServer through an ngrok tunnel until the server shuts down
func serveTunnel(ctx context.Context, httpServer *http.Server, settings *tunnelSettings) {
	log.Info().Str("domain", settings.Domain).Msg("starting ngrok tunnel")

	tun, err := ngrok.Listen(ctx, settings.endpoint(), ngrok.WithAuthtoken(settings.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	tunnelURL := tun.URL()
	log.Info().Str("url", tunnelURL).Msg("ngrok tunnel established")
	log.Info().Msgf("REST API (ngrok): %s/api", tunnelURL)
	log.Info().Msgf("WebSocket (ngrok): %s/ws?session=<session_id>", tunnelURL)
	log.Info().Msgf("MCP endpoint (ngrok): %s/mcp", tunnelURL)

	// Shutdown closes the tunnel along with the other listeners
	if err := httpServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// setupLogging configures the global zerolog logger
func setupLogging(debug bool, format string, out io.Writer) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// initializeServices wires session/config managers and the game service
func initializeServices(configDir string) (service.GameService, *session.Manager, *config.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, configManager, nil
}

// sessionCleanupRoutine periodically removes sessions idle for longer than ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}
		}
	}
}

// newHandler combines the API server with the /mcp endpoint
func newHandler(apiServer http.Handler, mcpServer *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mux
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	gameService, sessions, _, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessionCleanupRoutine(ctx, sessions, time.Hour, cmd.Duration("session-ttl"))

	addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(cmd.Int("port")))
	mcpClient := mcp.NewClient("http://" + addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newHandler(api.NewServer(gameService, hub), mcpClient.GetMCPServer()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("version", Version).Str("config_dir", cmd.String("config-dir")).Msgf("starting %s", AppName)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var tunnels sync.WaitGroup
	if settings := tunnelFromFlags(cmd.Bool("ngrok"), cmd.String("ngrok-auth"), cmd.String("ngrok-domain")); settings != nil {
		tunnels.Add(1)
		go func() {
			defer tunnels.Done()
			serveTunnel(ctx, httpServer, settings)
		}()
	}

	select {
	case err := <-errCh:
		if err != nil {
			httpServer.Close()
			tunnels.Wait()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	tunnels.Wait()

	log.Info().Msg("server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server. It reuses the API at --api-url when
// it answers; otherwise it starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")

	if !apiReachable(ctx, baseURL) {
		log.Info().Str("url", baseURL).Msg("no external API server found, starting internal HTTP server")

		gameService, _, _, err := initializeServices(cmd.String("config-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	// Logs go to stderr; stdout carries JSON-RPC
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func loadRules(cmd *cli.Command) (*engine.Rules, error) {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, err
	}
	return configs.LoadConfig(cmd.String("rules"))
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}
	e, err := engine.NewEngine(rules)
	if err != nil {
		return err
	}
	return playLoop(os.Stdin, os.Stdout, e)
}

// playLoop reads own-row pit numbers until the game ends or input runs out.
// "r" restarts the game and "q" quits.
func playLoop(in io.Reader, out io.Writer, e *engine.GameEngine) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, e.GetState().Message)
	for {
		fmt.Fprint(out, "\n"+layout.Render(e))
		if e.IsOver() {
			fmt.Fprintln(out, e.GetState().Message)
			return nil
		}
		fmt.Fprintf(out, "Player %s, pit (0-%d, r=reset, q=quit): ", e.CurrentPlayer(), engine.PitsPerSide-1)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "q", "quit":
			return nil
		case "r", "reset":
			e.Reset()
			fmt.Fprintln(out, e.GetState().Message)
			continue
		}

		pit, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(out, "Not a pit number: %q\n", input)
			continue
		}

		entry, err := e.Play(pit)
		switch {
		case err != nil:
			fmt.Fprintln(out, err)
		case entry == nil:
			fmt.Fprintln(out, e.GetRules().Messages.EmptyPit)
		default:
			fmt.Fprintln(out, e.GetState().Message)
		}
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("config-dir")
	if cmd.Args().Present() {
		dir = cmd.Args().First()
	}

	results, err := validate.ValidateDir(dir)
	if len(results) == 0 && err != nil {
		return err
	}

	if !validate.Print(os.Stdout, results) {
		return cli.Exit("", 1)
	}
	return nil
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	rules, err := loadRules(cmd)
	if err != nil {
		return err
	}

	report, err := simulate.Run(ctx, simulate.Options{
		Games:   cmd.Int("games"),
		Workers: cmd.Int("workers"),
		Seed:    uint64(cmd.Int("seed")),
		Rules:   rules,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(os.Stdout, report)
	return nil
}

func printReport(w io.Writer, r *simulate.Report) {
	fmt.Fprintf(w, "Rules: %s (%d stones per pit)\n", r.RulesName, r.StonesPerPit)
	fmt.Fprintf(w, "Games: %d\n", r.Games)
	fmt.Fprintf(w, "Player A wins: %d (%.1f%%)\n", r.Wins[engine.OutcomeA], 100*r.WinRate(engine.OutcomeA))
	fmt.Fprintf(w, "Player B wins: %d (%.1f%%)\n", r.Wins[engine.OutcomeB], 100*r.WinRate(engine.OutcomeB))
	fmt.Fprintf(w, "Draws: %d (%.1f%%)\n", r.Wins[engine.OutcomeDraw], 100*r.WinRate(engine.OutcomeDraw))
	fmt.Fprintf(w, "Moves: mean %.1f, max %d\n", r.MeanMoves(), r.MaxMoves)
	fmt.Fprintf(w, "Extra turns: %d\n", r.ExtraTurns)
	fmt.Fprintf(w, "Captures: %d (%d stones)\n", r.Captures, r.Captured)
}
