package util

import "time"

// SessionRollover is the hour (local engine time) after which activity is
// booked to the next trading day. Night sessions open in the evening and
// trade against tomorrow's date.
const SessionRollover = 17

// TradingDay returns the trading day that time t belongs to. Before the
// rollover hour the calendar day is the trading day; at or after it, the
// next calendar day. Saturday and Sunday roll forward to Monday.
func TradingDay(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() >= SessionRollover {
		day = day.AddDate(0, 0, 1)
	}
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, 2)
	case time.Sunday:
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// DayKey formats a trading day as the engine's compact "YYYYMMDD" form.
func DayKey(t time.Time) string {
	return t.Format("20060102")
}
