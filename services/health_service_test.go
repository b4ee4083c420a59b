package services

import (
	"testing"
	"time"
)

func TestCombineStatus(t *testing.T) {
	cases := []struct {
		current   string
		candidate string
		want      string
	}{
		{"ok", "ok", "ok"},
		{"ok", "degraded", "degraded"},
		{"degraded", "ok", "degraded"},
		{"degraded", "critical", "critical"},
		{"critical", "degraded", "critical"},
		{"bogus", "degraded", "degraded"},
	}

	for _, tc := range cases {
		if got := combineStatus(tc.current, tc.candidate); got != tc.want {
			t.Errorf("combineStatus(%q, %q) = %q, want %q", tc.current, tc.candidate, got, tc.want)
		}
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m 30s"},
		{2 * time.Hour, "2h"},
		{26*time.Hour + 3*time.Minute, "1d 2h 3m"},
	}

	for _, tc := range cases {
		if got := humanizeDuration(tc.d); got != tc.want {
			t.Errorf("humanizeDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
