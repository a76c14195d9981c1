package utils

import (
	"fmt"
	"regexp"
	"snipe-bot/model"
	"strconv"
	"time"
)

// AdvanceNoticeLead is how long before a disconnect the warning DM fires.
const AdvanceNoticeLead = 3 * time.Minute

// instantFormat renders an instant as MM/DD HH:MM:SS (+HH:MM).
const instantFormat = "01/02 15:04:05 (-07:00)"

var timeExprRe = regexp.MustCompile(
	`(?:(?P<hour>\d{1,2})(?:時間|時|:|：|hours|hour|h|Hours|Hour|H))?(?:(?P<minute>\d{1,2})(?:分|mins|min|m|Mins|Min|M)?)?`)

// ParseTimeExpression extracts hour and minute components from a user-supplied
// time expression such as "23:30", "1h30m" or "2時間30分". Either component may
// be absent; if both are, model.ErrInvalidTimeExpression is returned.
func ParseTimeExpression(expr string) (hour, minute *int, err error) {
	match := timeExprRe.FindStringSubmatch(expr)
	if match == nil {
		return nil, nil, model.ErrInvalidTimeExpression
	}

	if s := match[timeExprRe.SubexpIndex("hour")]; s != "" {
		v, _ := strconv.Atoi(s)
		hour = &v
	}
	if s := match[timeExprRe.SubexpIndex("minute")]; s != "" {
		v, _ := strconv.Atoi(s)
		minute = &v
	}

	if hour == nil && minute == nil {
		return nil, nil, model.ErrInvalidTimeExpression
	}
	return hour, minute, nil
}

// ResolveRelative returns now shifted by the given hour and minute offsets.
// The guild offset plays no part here; durations are timezone-agnostic.
func ResolveRelative(hours, minutes int, now time.Time) time.Time {
	return now.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute).UTC()
}

// ResolveAbsolute returns the next guild-local occurrence of hour:minute after
// now. Omitted components default to the corresponding field of guild-local
// now. When only the minute is given and that minute has already elapsed this
// hour, the target rolls forward one hour; otherwise a target not strictly in
// the future rolls forward one day.
func ResolveAbsolute(hour, minute *int, offsetHours int, now time.Time) (time.Time, error) {
	localNow := now.In(FixedOffsetZone(offsetHours))

	h, m := localNow.Hour(), localNow.Minute()
	if hour != nil {
		h = *hour
	}
	if minute != nil {
		m = *minute
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, model.ErrInvalidTime
	}

	target := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), h, m, 0, 0, localNow.Location())
	if hour == nil && localNow.Minute() > m {
		target = target.Add(time.Hour)
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.UTC(), nil
}

// AdvanceNoticeAt returns the instant the warning DM for a disconnect at due
// should fire. Callers must drop the notice when the result is not strictly
// in the future.
func AdvanceNoticeAt(due time.Time) time.Time {
	return due.Add(-AdvanceNoticeLead)
}

// FixedOffsetZone returns the location for a whole-hour UTC offset.
func FixedOffsetZone(offsetHours int) *time.Location {
	return time.FixedZone(FormatOffset(offsetHours), offsetHours*3600)
}

// FormatOffset renders a whole-hour UTC offset as +HH:MM.
func FormatOffset(offsetHours int) string {
	return fmt.Sprintf("%+03d:00", offsetHours)
}

// FormatInstant renders an instant in the given guild offset.
func FormatInstant(t time.Time, offsetHours int) string {
	return t.In(FixedOffsetZone(offsetHours)).Format(instantFormat)
}
