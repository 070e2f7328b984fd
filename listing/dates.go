package listing

import (
	"encoding/json"
	"strings"
	"time"

	"event-manager-backend/model"
	"event-manager-backend/schema"
)

// Named date tokens accepted in date ranges and their display labels.
var tokenLabels = map[string]string{
	"today":        "Today",
	"tomorrow":     "Tomorrow",
	"thisweek":     "This Week",
	"thisweekend":  "This Weekend",
	"thismonth":    "This Month",
	"thisyear":     "This Year",
	"nextweek":     "Next Week",
	"nextweekend":  "Next Weekend",
	"nextmonth":    "Next Month",
	"nextyear":     "Next Year",
	"datetime_any": "Any Date",
}

// DatetimeOptions are the date filter choices in display order.
var DatetimeOptions = []model.Option{
	{Value: "today", Label: "Today"},
	{Value: "tomorrow", Label: "Tomorrow"},
	{Value: "thisweek", Label: "This Week"},
	{Value: "thisweekend", Label: "This Weekend"},
	{Value: "thismonth", Label: "This Month"},
	{Value: "thisyear", Label: "This Year"},
	{Value: "nextweek", Label: "Next Week"},
	{Value: "nextweekend", Label: "Next Weekend"},
	{Value: "nextmonth", Label: "Next Month"},
	{Value: "nextyear", Label: "Next Year"},
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monday returns the first day of the ISO week of t.
func monday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return day(t).AddDate(0, 0, -offset)
}

// tokenRange resolves a named token against the site clock.
func tokenRange(token string, now time.Time) (time.Time, time.Time, bool) {
	today := day(now)
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "today":
		return today, today, true
	case "tomorrow":
		t := today.AddDate(0, 0, 1)
		return t, t, true
	case "thisweek":
		start := monday(now)
		return start, start.AddDate(0, 0, 6), true
	case "thisweekend":
		start := monday(now).AddDate(0, 0, 5)
		return start, start.AddDate(0, 0, 1), true
	case "nextweek":
		start := monday(now).AddDate(0, 0, 7)
		return start, start.AddDate(0, 0, 6), true
	case "nextweekend":
		start := monday(now).AddDate(0, 0, 12)
		return start, start.AddDate(0, 0, 1), true
	case "thismonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, -1), true
	case "nextmonth":
		start := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, -1), true
	case "thisyear":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, -1), true
	case "nextyear":
		start := time.Date(now.Year()+1, 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, -1), true
	}
	return time.Time{}, time.Time{}, false
}

// resolveRange turns a range of dates or tokens into canonical start and end dates.
// A single-sided range covers one day. ok is false when nothing usable remains.
func resolveRange(r model.DateRange, format string, now time.Time) (string, string, bool) {
	start := resolveBound(r.Start, format, now, true)
	end := resolveBound(r.End, format, now, false)
	switch {
	case start == "" && end == "":
		return "", "", false
	case start == "":
		start = end
	case end == "":
		end = start
	}
	if end < start {
		start, end = end, start
	}
	return start, end, true
}

func resolveBound(v, format string, now time.Time, first bool) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if from, to, ok := tokenRange(v, now); ok {
		if first {
			return from.Format(schema.DateLayout)
		}
		return to.Format(schema.DateLayout)
	}
	iso, err := schema.ToCanonical(v, format)
	if err != nil {
		return ""
	}
	return iso
}

// ParseDateRange reads one search_datetimes entry: a JSON {start,end} object or a bare token.
func ParseDateRange(raw string) (model.DateRange, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.DateRange{}, false
	}
	if strings.HasPrefix(raw, "{") {
		var r model.DateRange
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return model.DateRange{}, false
		}
		if r.Start == "" && r.End == "" {
			return model.DateRange{}, false
		}
		return r, true
	}
	if tokenLabels[strings.ToLower(raw)] == "Any Date" {
		return model.DateRange{}, false
	}
	return model.DateRange{Start: raw, End: raw}, true
}

// rangeLabel is the display form of a range for the applied filter summary.
func rangeLabel(r model.DateRange, format string, now time.Time) string {
	if r.Start == r.End {
		if l, ok := tokenLabels[strings.ToLower(strings.TrimSpace(r.Start))]; ok {
			return l
		}
	}
	start, end, ok := resolveRange(r, format, now)
	if !ok {
		return ""
	}
	if start == end {
		return schema.ToPresentation(start, format)
	}
	return schema.ToPresentation(start, format) + " to " + schema.ToPresentation(end, format)
}
