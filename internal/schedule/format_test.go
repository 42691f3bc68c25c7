package schedule

import (
	"testing"
	"time"
)

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration time.Duration
		expected string
	}{
		{"evening game", time.Date(2026, 10, 19, 19, 0, 0, 0, time.UTC), 2 * time.Hour, "7:00 PM - 9:00 PM"},
		{"crosses noon", time.Date(2026, 10, 19, 11, 30, 0, 0, time.UTC), 2 * time.Hour, "11:30 AM - 1:30 PM"},
		{"zero duration uses default", time.Date(2026, 10, 19, 8, 5, 0, 0, time.UTC), 0, "8:05 AM - 10:05 AM"},
		{"custom duration", time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC), 90 * time.Minute, "6:00 PM - 7:30 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimeRange(tt.start, tt.duration, time.UTC)
			if got != tt.expected {
				t.Errorf("FormatTimeRange() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	// 02:00 UTC on Tuesday is still Monday evening in Chicago.
	ts := time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC)
	chicago, err := LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	if got := DayKey(ts, time.UTC); got != "tuesday" {
		t.Fatalf("DayKey(UTC) = %q, want tuesday", got)
	}
	if got := DayKey(ts, chicago); got != "monday" {
		t.Fatalf("DayKey(Chicago) = %q, want monday", got)
	}
	if got := DayAbbreviation(ts, chicago); got != "MON" {
		t.Fatalf("DayAbbreviation(Chicago) = %q, want MON", got)
	}
}

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantMonday time.Time
	}{
		{"monday", time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2026, 10, 21, 23, 59, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"sunday ends the week", time.Date(2026, 10, 25, 12, 0, 0, 0, time.UTC), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"month boundary", time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC), time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := CurrentWeek(tt.now, time.UTC)
			if len(week) != 7 {
				t.Fatalf("expected 7 dates, got %d", len(week))
			}
			if !week[0].Equal(tt.wantMonday) {
				t.Fatalf("week starts %v, want %v", week[0], tt.wantMonday)
			}
			for i, date := range week {
				if got := DayKey(date, time.UTC); got != Days[i] {
					t.Errorf("week[%d] is %s, want %s", i, got, Days[i])
				}
			}
			if tt.now.Before(week[0]) || !tt.now.Before(week[6].AddDate(0, 0, 1)) {
				t.Errorf("now %v falls outside week %v..%v", tt.now, week[0], week[6])
			}
		})
	}
}

func TestParseGameTime(t *testing.T) {
	chicago, err := LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name     string
		raw      string
		expected time.Time
		wantErr  bool
	}{
		{"utc", "2026-10-19T19:00:00Z", time.Date(2026, 10, 19, 19, 0, 0, 0, time.UTC), false},
		{"fractional offset", "2026-10-19T19:00:00.5-05:00", time.Date(2026, 10, 20, 0, 0, 0, 500000000, time.UTC), false},
		{"no offset is local", "2026-10-20T19:00:00", time.Date(2026, 10, 20, 19, 0, 0, 0, chicago), false},
		{"no offset fractional", "2026-10-20T19:00:00.250", time.Date(2026, 10, 20, 19, 0, 0, 250000000, chicago), false},
		{"no seconds", "2026-10-20T19:30", time.Date(2026, 10, 20, 19, 30, 0, 0, chicago), false},
		{"date only is utc", "2026-10-20", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), false},
		{"invalid", "not a time", time.Time{}, true},
		{"empty", "  ", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGameTime(tt.raw, chicago)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGameTime(%q): %v", tt.raw, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseGameTime(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestParseGameTimeNilLocation(t *testing.T) {
	got, err := ParseGameTime("2026-10-20T19:00:00", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Location() != time.Local || got.Hour() != 19 {
		t.Fatalf("expected 19:00 local, got %v", got)
	}
}

func TestDayHelpers(t *testing.T) {
	if got := DayLabel("wednesday"); got != "Wednesday" {
		t.Errorf("DayLabel = %q", got)
	}
	if !IsDay("Friday") {
		t.Error("IsDay should be case-insensitive")
	}
	if IsDay("someday") {
		t.Error("IsDay accepted unknown key")
	}
	if got := MonthDay(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)); got != "Oct 19" {
		t.Errorf("MonthDay = %q", got)
	}
}
