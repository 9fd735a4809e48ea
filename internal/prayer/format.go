package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/smokyabdulrahman/islamic-hub/internal/clock"
)

// TimeFormat selects 12-hour or 24-hour display.
type TimeFormat int

const (
	Format12Hour TimeFormat = 12
	Format24Hour TimeFormat = 24
)

// ParseTimeFormat accepts "12h", "24h", "12" or "24".
func ParseTimeFormat(s string) (TimeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "12h", "12":
		return Format12Hour, nil
	case "24h", "24":
		return Format24Hour, nil
	default:
		return 0, fmt.Errorf("invalid time format %q: must be \"12h\" or \"24h\"", s)
	}
}

// String returns the config spelling, "12h" or "24h".
func (f TimeFormat) String() string {
	if f == Format12Hour {
		return "12h"
	}
	return "24h"
}

// FormatClock renders t as "HH:MM" for 24-hour output, or "h:MM AM/PM" for
// 12-hour output where both midnight and noon show as 12.
func FormatClock(t clock.Time, f TimeFormat) string {
	if f != Format12Hour {
		return t.String()
	}

	period := "AM"
	if t.Hour() >= 12 {
		period = "PM"
	}
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), period)
}

// FormatRange renders "start - end".
func FormatRange(r Range, f TimeFormat) string {
	return FormatClock(r.Start, f) + " - " + FormatClock(r.End, f)
}

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatCurrentAndNext     = "current-and-next"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
	Current   string // Active period, e.g. "Dhuhr"
}

// FormatOutput formats the next prayer for a status line according to mode.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Current
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
func FormatOutput(p Prayer, current Period, now time.Time, mode string, tf TimeFormat) string {
	d := TimeRemaining(p, now)
	remaining := FormatRemaining(d)
	timeStr := FormatClock(clock.FromTime(p.Time), tf)
	short := ShortNames[p.Name]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      p.Name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
			Current:   current.String(),
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", p.Name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", p.Name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatCurrentAndNext:
		return fmt.Sprintf("%s | %s %s (%s)", current, p.Name, timeStr, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", p.Name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", p.Name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
