package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/game/service"
)

// apiClient talks to a running server's REST API
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) call(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
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
			return fmt.Errorf("%s %s: %s (%d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// startSession creates a manual-clock session so the bot controls time
func (c *apiClient) startSession(ctx context.Context, configID string) (*remoteGame, error) {
	req := map[string]interface{}{"manual_clock": true}
	if configID != "" {
		req["config_id"] = strings.TrimSuffix(configID, ".json")
	}

	var info service.SessionInfo
	if err := c.call(ctx, http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if info.GameState == nil || info.GameConfig == nil {
		return nil, fmt.Errorf("create session: response is missing state or config")
	}

	return &remoteGame{
		client: c,
		id:     info.ID,
		config: info.GameConfig,
		last:   info.GameState.Snapshot,
	}, nil
}

// remoteGame plays one server session through the REST API
type remoteGame struct {
	client *apiClient
	id     string
	config *engine.GameConfig
	last   engine.Snapshot
}

func (g *remoteGame) path(suffix string) string {
	return "/api/sessions/" + url.PathEscape(g.id) + suffix
}

func (g *remoteGame) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	var state service.GameState
	if err := g.client.call(ctx, http.MethodGet, g.path("/state"), nil, &state); err != nil {
		return g.last, err
	}
	g.last = state.Snapshot
	return g.last, nil
}

func (g *remoteGame) Move(ctx context.Context, dir engine.Direction) (engine.Snapshot, error) {
	var result service.MoveResult
	if err := g.client.call(ctx, http.MethodPost, g.path("/move"), map[string]string{"direction": string(dir)}, &result); err != nil {
		return g.last, err
	}
	if result.GameState != nil {
		g.last = result.GameState.Snapshot
	}
	return g.last, nil
}

func (g *remoteGame) Advance(ctx context.Context, dt time.Duration) (engine.Snapshot, error) {
	var state service.GameState
	if err := g.client.call(ctx, http.MethodPost, g.path("/advance"), map[string]int64{"ms": dt.Milliseconds()}, &state); err != nil {
		return g.last, err
	}
	g.last = state.Snapshot
	return g.last, nil
}
