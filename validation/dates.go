package validation

import (
	"context"
	"time"

	"event-manager-backend/config"
	"event-manager-backend/model"
	"event-manager-backend/option"
	"event-manager-backend/schema"

	"github.com/spf13/viper"
)

const endBeforeStart = "End Date must not be before Start Date."

// eventDates requires the end of an event to not precede its start. Dates are
// compared first; times only break a tie when both are given. Values that do not
// parse are left to the field rules and persistence.
func (v *Validator) eventDates(ctx context.Context, values model.Values) error {
	dateFormat := v.opts.Get(ctx, option.DateFormat)
	startDate, err := schema.ToCanonical(values.Get("event_start_date"), dateFormat)
	if err != nil || startDate == "" {
		return nil
	}
	endDate, err := schema.ToCanonical(values.Get("event_end_date"), dateFormat)
	if err != nil || endDate == "" {
		return nil
	}

	timeFormat := v.opts.Get(ctx, option.TimeFormat)
	startTime, errStart := schema.CanonicalTime(values.Get("event_start_time"), timeFormat)
	endTime, errEnd := schema.CanonicalTime(values.Get("event_end_time"), timeFormat)
	if errStart != nil || errEnd != nil || startTime == "" || endTime == "" || startDate != endDate {
		startTime, endTime = "00:00", "00:00"
	}

	loc := eventLocation(values.Get("event_timezone"))
	layout := schema.DateLayout + " " + schema.TimeLayout
	start, err := time.ParseInLocation(layout, startDate+" "+startTime, loc)
	if err != nil {
		return nil
	}
	end, err := time.ParseInLocation(layout, endDate+" "+endTime, loc)
	if err != nil {
		return nil
	}
	if end.Before(start) {
		return &Error{Reason: Invalid, Field: "event_end_date", Message: endBeforeStart}
	}
	return nil
}

// eventLocation is the event's own zone, falling back to the site zone.
func eventLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(viper.GetString(config.SiteTimezone)); err == nil {
		return loc
	}
	return time.UTC
}
