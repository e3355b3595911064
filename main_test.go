package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gecko-puzzle/game/service"
	"github.com/wricardo/gecko-puzzle/logger"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Gecko Puzzle Server" {
		t.Errorf("Expected app name 'Gecko Puzzle Server', got %s", AppName)
	}
}

func withConfigDir(t *testing.T, dir string) {
	t.Helper()
	original := *configDir
	*configDir = dir
	t.Cleanup(func() { *configDir = original })
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	withConfigDir(t, "configs")

	svc, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svc.game == nil || svc.hub == nil || svc.sessions == nil || svc.driver == nil {
		t.Fatalf("Expected all services to be initialized, got %+v", svc)
	}

	configs, err := svc.game.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	ids := make(map[string]bool)
	for _, c := range configs {
		ids[c.ConfigID] = true
	}
	for _, want := range []string{"classic", "solo", "procedural"} {
		if !ids[want] {
			t.Errorf("Expected bundled config %s, got %v", want, ids)
		}
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	withConfigDir(t, "/non/existent/path")

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_UnknownDefaultConfig(t *testing.T) {
	withConfigDir(t, t.TempDir())
	original := *defaultConfig
	*defaultConfig = "missing"
	defer func() { *defaultConfig = original }()

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for an unknown default config")
	}
}

func TestInitLogging_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nLOG_FORMAT=json\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Chdir(dir)
	t.Cleanup(logger.Init)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	if err := initLogging(); err != nil {
		t.Fatalf("initLogging() error = %v", err)
	}
	if logger.Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level from .env, got %s", logger.Log.GetLevel())
	}
	if _, ok := logger.Log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter from .env, got %T", logger.Log.Formatter)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
	if *frameInterval != service.DefaultFrameInterval {
		t.Errorf("Expected frame interval %v, got %v", service.DefaultFrameInterval, *frameInterval)
	}
	if *sessionTTL <= 0 {
		t.Errorf("Invalid session TTL: %v", *sessionTTL)
	}
}

func TestRouter_CreateSessionAndMCP(t *testing.T) {
	withConfigDir(t, t.TempDir())

	svc, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.start(ctx)

	ts := httptest.NewUnstartedServer(nil)
	ts.Config.Handler = newRouter(svc, "http://"+ts.Listener.Addr().String())
	ts.Start()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{"manual_clock": true}`))
	if err != nil {
		t.Fatalf("Create session failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if !info.ManualClock || info.GameState == nil || len(info.GameState.Creature) == 0 {
		t.Errorf("Unexpected session %+v", info)
	}

	// Manual sessions do not tick on their own
	time.Sleep(3 * *frameInterval)
	state, err := svc.game.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState() error = %v", err)
	}
	if state.ClockMillis != 0 {
		t.Errorf("Expected a frozen manual clock, got %dms", state.ClockMillis)
	}

	mcpResp, err := http.Get(ts.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	mcpResp.Body.Close()
	if mcpResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /mcp, got %d", mcpResp.StatusCode)
	}
}

func TestSessionCleanupRoutine_StopsOnCancel(t *testing.T) {
	svc, err := initializeServicesForTest(t)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, svc.sessions, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected cleanup routine to stop after cancel")
	}
}

func initializeServicesForTest(t *testing.T) (*services, error) {
	t.Helper()
	withConfigDir(t, t.TempDir())
	return initializeServices()
}
