// Command gecko-puzzle starts the Gecko Puzzle game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, frame rate, session expiry,
// debug logging, version output, and optional ngrok tunneling for easy
// external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/gecko-puzzle/api"
	"github.com/wricardo/gecko-puzzle/game/config"
	"github.com/wricardo/gecko-puzzle/game/service"
	"github.com/wricardo/gecko-puzzle/game/session"
	"github.com/wricardo/gecko-puzzle/logger"
	"github.com/wricardo/gecko-puzzle/transport/mcp"
	"github.com/wricardo/gecko-puzzle/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Gecko Puzzle Server"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port          = flag.Int("port", 8080, "HTTP server port")
	host          = flag.String("host", "localhost", "HTTP server host")
	configDir     = flag.String("config-dir", getConfigDirDefault(), "Directory containing game configurations")
	defaultConfig = flag.String("default-config", os.Getenv("DEFAULT_CONFIG"), "Configuration used when a session names none")
	frameInterval = flag.Duration("frame-interval", service.DefaultFrameInterval, "How often live sessions advance")
	sessionTTL    = flag.Duration("session-ttl", 24*time.Hour, "Remove sessions idle for longer than this")
	debug         = flag.Bool("debug", false, "Enable debug logging")
	version       = flag.Bool("version", false, "Show version information")
	ngrokEnabled  = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth     = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain   = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090             # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -frame-interval 16ms   # Advance live sessions at ~60fps\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp              # Run MCP stdio server\n", os.Args[0])
	}
}

// services bundles the long-lived components shared by every mode
type services struct {
	game     service.GameService
	sessions *session.Manager
	hub      *websocket.Hub
	driver   *service.Driver
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	flag.Parse()

	envErr := initLogging()
	if *debug {
		logger.SetDebug()
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}
	stdio := mode == "stdio-mcp" || mode == "mcp-stdio" || mode == "mcp"
	if stdio {
		logger.UseStderr()
	}

	if envErr != nil {
		if !os.IsNotExist(envErr) {
			logger.Log.WithError(envErr).Warn("error loading .env file")
		}
	} else {
		logger.Log.Info("loaded environment variables from .env file")
	}

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	logger.Log.WithField("mode", mode).Infof("starting %s v%s", AppName, Version)

	svc, err := initializeServices()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize services")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	svc.start(ctx)

	switch {
	case stdio:
		runStdioMCPWithInternalServer(ctx, svc)
	case mode == "server" || mode == "http":
		runHTTPServer(ctx, svc)
	default:
		logger.Log.Fatalf("unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// initLogging loads .env if present and then configures the logger, so
// LOG_LEVEL and LOG_FORMAT from the file apply. The .env error is returned for
// reporting once logging is up.
func initLogging() error {
	err := godotenv.Load()
	logger.Init()
	return err
}

// initializeServices wires the config and session managers, the websocket hub
// and the game service. Nothing runs until start is called.
func initializeServices() (*services, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if *defaultConfig != "" {
		if err := configManager.SetDefault(*defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
	}

	sessionManager := session.NewManager()
	hub := websocket.NewHub()
	gameService := service.NewGameServiceWithNotifier(sessionManager, configManager, hub)
	hub.SetInputHandler(gameService)

	return &services{
		game:     gameService,
		sessions: sessionManager,
		hub:      hub,
		driver:   service.NewDriver(gameService, *frameInterval),
	}, nil
}

// start launches the hub, the frame driver and the cleanup routine; all stop with ctx
func (s *services) start(ctx context.Context) {
	go s.hub.Run(ctx)
	go s.driver.Run(ctx)
	go sessionCleanupRoutine(ctx, s.sessions, *sessionTTL)

	logger.Log.WithFields(logrus.Fields{
		"frame_interval": s.driver.Interval(),
		"session_ttl":    *sessionTTL,
	}).Info("game services started")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, maxAge time.Duration) {
	interval := maxAge / 24
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				logger.Log.WithField("removed", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

// newRouter mounts the REST API, WebSocket and the /mcp proxy endpoint
func newRouter(svc *services, baseURL string) http.Handler {
	apiServer := api.NewServer(svc.game, svc.hub)
	mcpClient := mcp.NewClient(baseURL)

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

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, svc *services) {
	addr := fmt.Sprintf("%s:%d", *host, *port)
	mainRouter := newRouter(svc, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Log.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter)
		}()
	}

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Log.Info("server stopped")
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx ends
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
		if authToken == "" {
			authToken = os.Getenv("NGROK_AUTH_TOKEN")
		}
	}
	if authToken == "" {
		logger.Log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Log.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	logger.Log.WithFields(logrus.Fields{
		"rest":      ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?session=<session_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("ngrok tunnel established: %s", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Log.WithError(err).Warn("ngrok server error")
	}
	logger.Log.Info("ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, svc *services) {
	externalURL := "http://localhost:8080"
	baseURL := externalURL
	logger.Log.Infof("checking for external API server at %s", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		logger.Log.Infof("external API server found at %s, using it for MCP", externalURL)
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to get available port")
		}

		internalAddr := listener.Addr().String()
		baseURL = "http://" + internalAddr
		logger.Log.Infof("no external API server found, starting internal HTTP server on %s", internalAddr)

		httpServer := &http.Server{Handler: newRouter(svc, baseURL)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.WithError(err).Error("internal HTTP server error")
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Log.WithField("api", baseURL).Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		logger.Log.WithError(err).Fatal("MCP stdio server error")
	}
}
