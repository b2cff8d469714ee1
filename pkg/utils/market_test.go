package utils

import (
	"testing"
	"time"
)

func istTime(weekday time.Weekday, hour, minute int) time.Time {
	// 2026-08-24 is a Monday
	base := time.Date(2026, 8, 24, hour, minute, 0, 0, IndiaLocation)
	return base.AddDate(0, 0, int(weekday-time.Monday))
}

func TestMarketStatusAt(t *testing.T) {
	testCases := []struct {
		name     string
		t        time.Time
		expected MarketStatus
	}{
		{"weekday pre-open", istTime(time.Monday, 9, 5), MarketPreOpen},
		{"weekday open start", istTime(time.Monday, 9, 15), MarketOpen},
		{"weekday midday", istTime(time.Wednesday, 12, 0), MarketOpen},
		{"weekday close", istTime(time.Friday, 15, 30), MarketClosed},
		{"weekday evening", istTime(time.Tuesday, 18, 0), MarketClosed},
		{"weekday before pre-open", istTime(time.Thursday, 8, 59), MarketClosed},
		{"saturday midday", istTime(time.Saturday, 12, 0), MarketClosed},
		{"sunday midday", istTime(time.Sunday, 12, 0), MarketClosed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := marketStatusAt(tc.t); got != tc.expected {
				t.Errorf("marketStatusAt(%v) = %s, want %s", tc.t, got, tc.expected)
			}
		})
	}
}

func TestGetNextMarketOpenSkipsWeekend(t *testing.T) {
	next := GetNextMarketOpen()
	if next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		t.Errorf("next open on a weekend: %v", next)
	}
	if next.Hour() != 9 || next.Minute() != 15 {
		t.Errorf("next open at %02d:%02d, want 09:15", next.Hour(), next.Minute())
	}
}
