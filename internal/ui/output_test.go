package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC) // a Monday

	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset)
	}

	tests := []struct {
		name   string
		t      time.Time
		format string
		want   string
	}{
		{"iso", day(0), "iso", "2026-08-24"},
		{"short", day(0), "short", "Aug 24"},
		{"relative today", day(0), "relative", "today"},
		{"relative tomorrow", day(1), "relative", "tomorrow"},
		{"relative yesterday", day(-1), "relative", "yesterday"},
		{"relative this week", day(3), "relative", "Thursday"},
		{"relative past", day(-5), "relative", "5 days ago"},
		{"relative far future", day(30), "relative", "Sep 23"},
		{"unknown format falls back to relative", day(0), "", "today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.t, tt.format, now))
		})
	}
}
