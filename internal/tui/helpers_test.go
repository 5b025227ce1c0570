package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tc := range tests {
		if got := formatTime(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("formatTime(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr(short) = %q", got)
	}
	got := truncStr("a very long filename.pdf", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncStr long = %q, want ellipsis", got)
	}
	if len([]rune(got)) != 10 {
		t.Errorf("truncStr long has %d runes, want 10", len([]rune(got)))
	}
}

func TestTruncStrClampsTinyWidths(t *testing.T) {
	// Width-derived maxLen goes to zero or negative before the first
	// resize; that must never slice out of range.
	for _, maxLen := range []int{1, 0, -5, -51} {
		got := truncStr("some long error message", maxLen)
		if got != "…" {
			t.Errorf("truncStr(maxLen=%d) = %q, want bare ellipsis", maxLen, got)
		}
	}
	if got := truncStr("", -1); got != "" {
		t.Errorf("truncStr(empty, -1) = %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{100, "100 B"},
		{1536, "1.5 KiB"},
		{10 << 20, "10.0 MiB"},
	}
	for _, tc := range tests {
		if got := formatSize(tc.n); got != tc.want {
			t.Errorf("formatSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd"
	if got := truncateToHeight(s, 2); got != "a\nb" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("truncateToHeight under limit = %q", got)
	}
	if got := truncateToHeight(s, 0); got != "" {
		t.Errorf("truncateToHeight(0) = %q", got)
	}
}
