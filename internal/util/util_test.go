package util

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	want := errors.New("persistent")
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestRetryLogsFailedAttempts(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}

	logged := buf.String()
	if got := strings.Count(logged, "retrying after failure"); got != 2 {
		t.Errorf("logged %d retry warnings, want 2:\n%s", got, logged)
	}
	if !strings.Contains(logged, "attempt=1") || !strings.Contains(logged, "attempt=2") {
		t.Errorf("retry warnings missing attempt numbers:\n%s", logged)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 5, time.Hour, func() error {
		return errors.New("always")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTradingDay(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"weekday morning", time.Date(2024, 6, 17, 9, 30, 0, 0, time.UTC), "20240617"},
		{"weekday night session", time.Date(2024, 6, 17, 21, 0, 0, 0, time.UTC), "20240618"},
		{"friday night rolls to monday", time.Date(2024, 6, 14, 21, 0, 0, 0, time.UTC), "20240617"},
		{"saturday rolls to monday", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), "20240617"},
		{"sunday rolls to monday", time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC), "20240617"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(TradingDay(tt.at)); got != tt.want {
				t.Errorf("TradingDay(%v) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}
