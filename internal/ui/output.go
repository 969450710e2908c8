package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// PrintJSON writes v as indented JSON to stdout.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatDate renders a calendar day per the configured date_format.
func FormatDate(t time.Time, format string, now time.Time) string {
	switch format {
	case "iso":
		return t.Format("2006-01-02")
	case "short":
		return t.Format("Jan 2")
	default:
		return relativeDate(t, now)
	}
}

func relativeDate(t, now time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	switch diff := int(day.Sub(today).Hours() / 24); {
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff == -1:
		return "yesterday"
	case diff > 1 && diff < 7:
		return t.Format("Monday")
	case diff < 0:
		return fmt.Sprintf("%d days ago", -diff)
	default:
		return t.Format("Jan 2")
	}
}
