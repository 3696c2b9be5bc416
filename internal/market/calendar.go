package market

import "time"

// Session identifies a forex trading session.
type Session string

const (
	SessionLondon  Session = "london"
	SessionNewYork Session = "new_york"
	SessionTokyo   Session = "tokyo"
	SessionSydney  Session = "sydney"
)

// sessionWindow is a session's UTC hour range. Windows that wrap midnight
// have start > end.
type sessionWindow struct {
	startHour int
	endHour   int
}

var sessionWindows = map[Session]sessionWindow{
	SessionLondon:  {startHour: 8, endHour: 17},
	SessionNewYork: {startHour: 13, endHour: 22},
	SessionTokyo:   {startHour: 0, endHour: 9},
	SessionSydney:  {startHour: 22, endHour: 7},
}

// newsWindow is a recurring high-impact news slot in UTC hours. The
// avoidance window runs from 30 minutes before the release to 30 minutes
// after the stated duration.
type newsWindow struct {
	name     string
	hour     float64
	duration float64
}

var highImpactNews = []newsWindow{
	{name: "NFP", hour: 13.5, duration: 2},
	{name: "FOMC", hour: 18, duration: 3},
	{name: "CPI", hour: 13.5, duration: 2},
	{name: "PPI", hour: 13.5, duration: 1.5},
	{name: "GDP", hour: 13, duration: 1},
	{name: "InterestRate", hour: 12, duration: 2},
}

// InSession reports whether t falls inside the named session window.
func InSession(t time.Time, s Session) bool {
	w, ok := sessionWindows[s]
	if !ok {
		return false
	}
	hour := t.UTC().Hour()
	if w.startHour > w.endHour {
		return hour >= w.startHour || hour < w.endHour
	}
	return hour >= w.startHour && hour < w.endHour
}

// ActiveSession returns the first of the allowed sessions active at t,
// or an empty Session if none is.
func ActiveSession(t time.Time, allowed []Session) (Session, bool) {
	for _, s := range allowed {
		if InSession(t, s) {
			return s, true
		}
	}
	return "", false
}

// IsNewsWindow reports whether t falls inside a recurring high-impact news
// avoidance window, and which event it is.
func IsNewsWindow(t time.Time) (bool, string) {
	u := t.UTC()
	clock := float64(u.Hour()) + float64(u.Minute())/60

	for _, n := range highImpactNews {
		if clock >= n.hour-0.5 && clock <= n.hour+n.duration+0.5 {
			return true, n.name
		}
	}
	return false, ""
}

// CanTradeAt is the combined calendar predicate: no news window, no Sunday,
// no Friday-evening thin liquidity, and inside London/New York hours.
func CanTradeAt(t time.Time) (bool, string) {
	u := t.UTC()

	if news, name := IsNewsWindow(t); news {
		return false, "news window: " + name
	}
	if u.Weekday() == time.Sunday {
		return false, "sunday market open"
	}
	if u.Weekday() == time.Friday && u.Hour() >= 20 {
		return false, "friday evening"
	}
	if u.Hour() < 8 || u.Hour() >= 22 {
		return false, "outside london/new_york sessions"
	}
	return true, ""
}

// DayRange is the high/low of one calendar day of candles.
type DayRange struct {
	Date time.Time
	High float64
	Low  float64
}

// DailyRanges groups candles by UTC calendar day and returns one DayRange
// per day in chronological order.
func DailyRanges(candles []Candle) []DayRange {
	var out []DayRange
	for _, c := range candles {
		day := c.Time().Truncate(24 * time.Hour)
		if len(out) > 0 && out[len(out)-1].Date.Equal(day) {
			last := &out[len(out)-1]
			if c.High > last.High {
				last.High = c.High
			}
			if c.Low < last.Low {
				last.Low = c.Low
			}
			continue
		}
		out = append(out, DayRange{Date: day, High: c.High, Low: c.Low})
	}
	return out
}

// PreviousDayLevels returns the prior calendar day's high/low relative to
// the final candle's day. Returns false when the series spans fewer than
// two days.
func PreviousDayLevels(candles []Candle) (DayRange, bool) {
	days := DailyRanges(candles)
	if len(days) < 2 {
		return DayRange{}, false
	}
	return days[len(days)-2], true
}

// AsianRange returns the 00:00-09:00 UTC range for the final candle's
// calendar day. Returns false when no candle of that day falls in the
// Asian window.
func AsianRange(candles []Candle) (DayRange, bool) {
	if len(candles) == 0 {
		return DayRange{}, false
	}
	day := candles[len(candles)-1].Time().Truncate(24 * time.Hour)

	r := DayRange{Date: day}
	found := false
	for _, c := range candles {
		t := c.Time()
		if !t.Truncate(24 * time.Hour).Equal(day) || t.Hour() >= 9 {
			continue
		}
		if !found {
			r.High, r.Low = c.High, c.Low
			found = true
			continue
		}
		if c.High > r.High {
			r.High = c.High
		}
		if c.Low < r.Low {
			r.Low = c.Low
		}
	}
	return r, found
}
