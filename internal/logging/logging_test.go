package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithOutput(&buf, "debug", "json")
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("context", "test").Debug("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %q", buf.String())
	}
	if rec["msg"] != "hello" || rec["context"] != "test" || rec["level"] != "debug" {
		t.Fatalf("record=%v", rec)
	}
}

func TestNew_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithOutput(&buf, "warn", "text")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("dropped")
	log.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("output=%q", buf.String())
	}
	if log.Logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level=%v", log.Logger.GetLevel())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("loud", "text"); err == nil {
		t.Fatal("want level error")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Fatal("want format error")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nobody hears this")
}
