package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "rahasia123" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := CheckPassword("rahasia123", hash); err != nil {
		t.Errorf("CheckPassword rejected the correct password: %v", err)
	}
	if err := CheckPassword("salah", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"guru", true},
		{"santri", true},
		{"owner", false},
		{"Guru", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestIsValidSessionType(t *testing.T) {
	cases := []struct {
		sessionType string
		want        bool
	}{
		{"ziyadah", true},
		{"murajaah", true},
		{"setoran", false},
		{"ZIYADAH", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidSessionType(tc.sessionType); got != tc.want {
			t.Errorf("IsValidSessionType(%q) = %v, want %v", tc.sessionType, got, tc.want)
		}
	}
}

func TestIsValidQualityStatus(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"good", true},
		{"fair", true},
		{"poor", true},
		{"excellent", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidQualityStatus(tc.status); got != tc.want {
			t.Errorf("IsValidQualityStatus(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "jpeg", "png", "webp"}

	cases := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"avatar.webp", true},
		{"script.sh", false},
		{"noextension", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidFileExtension(tc.filename, allowed); got != tc.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"clean", "clean"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SanitizeString(tc.input); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
