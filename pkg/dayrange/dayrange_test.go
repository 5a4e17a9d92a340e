package dayrange

import (
	"testing"
	"time"
)

func TestParseInclusiveWindow(t *testing.T) {
	from, to, err := Parse("2026-03-01", "2026-03-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	inside := time.Date(2026, 3, 3, 23, 59, 59, 0, time.Local)
	if !(inside.After(from) || inside.Equal(from)) || !inside.Before(to) {
		t.Fatal("end day should be included up to its last second")
	}

	outside := time.Date(2026, 3, 4, 0, 0, 0, 0, time.Local)
	if outside.Before(to) {
		t.Fatal("the day after the end date should be excluded")
	}
}

func TestParseSingleDay(t *testing.T) {
	from, to, err := Parse("2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Fatalf("single day window should span 24h, got %v", to.Sub(from))
	}
}

func TestParseRejectsInvertedRange(t *testing.T) {
	if _, _, err := Parse("2026-03-05", "2026-03-01"); err == nil {
		t.Fatal("expected inverted range error")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, _, err := Parse("yesterday", "2026-03-01"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDay(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 30, 0, 0, time.Local)
	if Day(ts) != "2026-03-01" {
		t.Fatalf("unexpected day %q", Day(ts))
	}
}
