// Command desktop is a thin ebiten host for a Gecko Puzzle server session.
//
// It creates (or joins) a session over REST, replays the display lists the
// server pushes over the WebSocket, and sends mouse drags back as pointer
// samples. Arrow keys send single moves and R restarts.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

const (
	headerHeight  = 60
	defaultWidth  = 800
	defaultHeight = 600
)

var log = logrus.New()

// DrawRect is one recorded fill
type DrawRect struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	W   int    `json:"w"`
	H   int    `json:"h"`
	RGB uint32 `json:"rgb"`
}

// DisplayList is the frame the server renders for a session
type DisplayList struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Rects  []DrawRect `json:"rects"`
}

// GameState holds the fields the header shows
type GameState struct {
	Score         int    `json:"score"`
	Level         int    `json:"level"`
	TimeRemaining int    `json:"time_remaining"`
	Phase         string `json:"phase"`
	CreatureColor string `json:"creature_color"`
	ConfigName    string `json:"config_name"`
	Message       string `json:"message"`
}

// WSMessage is one server push
type WSMessage struct {
	SessionID string       `json:"session_id"`
	Event     string       `json:"event,omitempty"`
	State     *GameState   `json:"state,omitempty"`
	Frame     *DisplayList `json:"frame,omitempty"`
	Value     int          `json:"value,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// PointerMessage is a pointer sample sent to the server
type PointerMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Game implements ebiten.Game for one remote session
type Game struct {
	server    *url.URL
	sessionID string
	conn      *websocket.Conn
	writeMu   sync.Mutex

	mu     sync.Mutex
	state  *GameState
	frame  *DisplayList
	banner string
	errMsg string

	dragging bool
	lastX    int
	lastY    int
}

// decodeMessages splits a WebSocket payload into messages; the hub batches them one per line
func decodeMessages(payload []byte) ([]WSMessage, error) {
	var msgs []WSMessage
	var errs []error
	for _, line := range bytes.Split(payload, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var msg WSMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			errs = append(errs, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, errors.Join(errs...)
}

// apply folds one message into the view state
func (g *Game) apply(msg WSMessage) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if msg.State != nil {
		g.state = msg.State
		if msg.State.Phase == "playing" {
			g.banner = ""
		}
	}
	if msg.Frame != nil {
		g.frame = msg.Frame
	}
	switch msg.Event {
	case "level_complete":
		g.banner = fmt.Sprintf("LEVEL %d COMPLETE", msg.Value)
	case "game_over":
		g.banner = fmt.Sprintf("GAME OVER - final score %d (press R)", msg.Value)
	}
	if msg.Error != "" {
		g.errMsg = msg.Error
	}
}

func (g *Game) createSession(configID string) error {
	body, err := json.Marshal(map[string]string{"config_id": configID})
	if err != nil {
		return err
	}
	resp, err := http.Post(g.server.String()+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("create session failed: %s %s", resp.Status, apiErr.Error)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return fmt.Errorf("parse session response: %w", err)
	}
	g.sessionID = session.ID
	log.WithField("session", g.sessionID).Info("created session")
	return nil
}

func (g *Game) post(path string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	go func() {
		resp, err := http.Post(fmt.Sprintf("%s/api/sessions/%s/%s", g.server, url.PathEscape(g.sessionID), path), "application/json", bytes.NewReader(body))
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("request failed")
			return
		}
		resp.Body.Close()
	}()
}

func (g *Game) connect() error {
	wsURL := *g.server
	wsURL.Scheme = "ws"
	if g.server.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path = "/ws"
	wsURL.RawQuery = url.Values{"session": {g.sessionID}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}
	g.conn = conn
	go g.listen()
	return nil
}

func (g *Game) listen() {
	defer g.conn.Close()
	for {
		_, payload, err := g.conn.ReadMessage()
		if err != nil {
			log.WithError(err).Warn("websocket closed")
			g.mu.Lock()
			g.errMsg = "disconnected from server"
			g.mu.Unlock()
			return
		}
		msgs, err := decodeMessages(payload)
		if err != nil {
			log.WithError(err).Debug("skipping malformed message")
		}
		for _, msg := range msgs {
			g.apply(msg)
		}
	}
}

func (g *Game) sendPointer(kind string, x, y int) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	g.conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := g.conn.WriteJSON(PointerMessage{Type: kind, X: x, Y: y}); err != nil {
		log.WithError(err).Warn("failed to send pointer sample")
	}
}

// Update reads input once per frame
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	keys := map[ebiten.Key]string{
		ebiten.KeyArrowUp:    "up",
		ebiten.KeyArrowDown:  "down",
		ebiten.KeyArrowLeft:  "left",
		ebiten.KeyArrowRight: "right",
	}
	for key, dir := range keys {
		if inpututil.IsKeyJustPressed(key) {
			g.post("move", map[string]string{"direction": dir})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.post("restart", struct{}{})
	}

	cx, cy := ebiten.CursorPosition()
	cy -= headerHeight
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dragging = true
		g.sendPointer("pointer_down", cx, cy)
	case g.dragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.dragging = false
		g.sendPointer("pointer_up", cx, cy)
	case g.dragging && (cx != g.lastX || cy != g.lastY):
		g.sendPointer("pointer_move", cx, cy)
	}
	g.lastX, g.lastY = cx, cy
	return nil
}

// Draw replays the latest frame below a text header
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	g.mu.Lock()
	state, frame, banner, errMsg := g.state, g.frame, g.banner, g.errMsg
	g.mu.Unlock()

	if state != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s | Level %d | Score %d | Time %ds | Gecko %s",
			state.ConfigName, state.Level, state.Score, state.TimeRemaining, state.CreatureColor), 10, 8)
		ebitenutil.DebugPrintAt(screen, state.Message, 10, 24)
	} else {
		ebitenutil.DebugPrintAt(screen, "Waiting for the server...", 10, 8)
	}
	if errMsg != "" {
		ebitenutil.DebugPrintAt(screen, "ERROR: "+errMsg, 10, 40)
	}

	if frame != nil {
		for _, r := range frame.Rects {
			vector.DrawFilledRect(screen, float32(r.X), float32(r.Y+headerHeight), float32(r.W), float32(r.H), rgba(r.RGB), false)
		}
	}
	if banner != "" {
		ebitenutil.DebugPrintAt(screen, banner, 10, headerHeight+10)
	}
}

// Layout sizes the window to the board plus the header
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frame != nil && g.frame.Width > 0 {
		return g.frame.Width, g.frame.Height + headerHeight
	}
	return defaultWidth, defaultHeight + headerHeight
}

func rgba(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

func main() {
	server := flag.String("server", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Configuration for a new session (default: server default)")
	sessionID := flag.String("session", "", "Join an existing session instead of creating one")
	flag.Parse()

	serverURL, err := url.Parse(strings.TrimRight(*server, "/"))
	if err != nil {
		log.WithError(err).Fatal("invalid server URL")
	}

	g := &Game{server: serverURL, sessionID: *sessionID}
	if g.sessionID == "" {
		if err := g.createSession(*configID); err != nil {
			log.WithError(err).Fatal("failed to create session")
		}
	}
	if err := g.connect(); err != nil {
		log.WithError(err).Fatal("failed to connect WebSocket")
	}

	ebiten.SetWindowSize(defaultWidth, defaultHeight+headerHeight)
	ebiten.SetWindowTitle("Gecko Puzzle")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("game loop failed")
	}
}
