package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestInfoIncludesServiceAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos", Output: &buf})

	ctx := logg.WithFields(context.Background(), map[string]any{"order_id": "#0001"})
	ctx = logg.WithUser(ctx, "quartermaster")
	logg.Info(ctx, "order.created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["service"] != "pos" {
		t.Fatalf("missing service field: %v", entry)
	}
	if entry["order_id"] != "#0001" {
		t.Fatalf("missing context field: %v", entry)
	}
	if entry["user"] != "quartermaster" {
		t.Fatalf("missing user field: %v", entry)
	}
	if entry["message"] != "order.created" {
		t.Fatalf("unexpected message: %v", entry)
	}
}

func TestErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos", Output: &buf})

	logg.Error(context.Background(), "save failed", errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["error"] != "boom" {
		t.Fatalf("missing error field: %v", entry)
	}
	if entry["stack"] == nil {
		t.Fatal("expected stack field on error")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("debug should parse")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("empty should default to info")
	}
	if ParseLevel("gibberish") != zerolog.InfoLevel {
		t.Fatal("unknown should default to info")
	}
}
