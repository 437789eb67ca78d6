package utils

import (
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{45 * time.Second, "0:45"},
		{5 * time.Minute, "5:00"},
		{61 * time.Second, "1:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{-time.Second, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	if _, err := ParseDurationMinutes(-1); err == nil {
		t.Error("expected error for negative minutes")
	}
	d, err := ParseDurationMinutes(15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 15*time.Minute {
		t.Errorf("expected 15m, got %s", d)
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{" 10 ", 10, false},
		{"0", 0, false},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMinutes(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMinutes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	if loc, err := LoadLocation(""); err != nil || loc != time.Local {
		t.Errorf("expected local for empty timezone, got %v, %v", loc, err)
	}
	if loc, err := LoadLocation("Local"); err != nil || loc != time.Local {
		t.Errorf("expected local for Local, got %v, %v", loc, err)
	}
	if _, err := LoadLocation("UTC"); err != nil {
		t.Errorf("expected UTC to load: %v", err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Now().UTC().Format("2006-01-02")
	if today != want {
		t.Errorf("expected %s, got %s", want, today)
	}

	if _, err := GetTodayInTimezone("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestGetTodayFromSettings(t *testing.T) {
	today, err := GetTodayFromSettings(models.Settings{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Now().UTC().Format("2006-01-02")
	if today != want {
		t.Errorf("expected %s, got %s", want, today)
	}
}
