package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	l := New(&buf)
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %s", l.GetLevel())
	}

	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	l := New(&bytes.Buffer{})
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", l.GetLevel())
	}
}

func TestNew_JSONFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "JSON")

	var buf bytes.Buffer
	New(&buf).WithField("session", "ab12").Info("created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["session"] != "ab12" || entry["msg"] != "created" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestSession(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	orig := Log
	defer func() { Log = orig }()

	var buf bytes.Buffer
	Log = New(&buf)
	Session("cafe").Info("moved")
	if !strings.Contains(buf.String(), `"session":"cafe"`) {
		t.Errorf("Expected session field in %q", buf.String())
	}
}
