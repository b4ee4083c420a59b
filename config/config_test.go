package config

import (
	"testing"
	"time"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"24h", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{" 3D ", 3 * 24 * time.Hour, false},
		{"abc", 0, true},
		{"d", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := parseExpiry(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseExpiry(%q) expected an error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseExpiry(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseExpiry(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
