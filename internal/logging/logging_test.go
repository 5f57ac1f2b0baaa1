package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json"}, &buf).With(String("run", "r1"))

	log.Info(context.Background(), "initialized", Int("bodies", 3), Float("rate", 1e4))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "initialized" || rec["run"] != "r1" || rec["bodies"] != float64(3) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn"}, &buf)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("k", "v"))
	log.Error(context.Background(), "dropped", Err(nil))
}
