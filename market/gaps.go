package market

import "time"

// Gap kinds.
const (
	GapHoliday    = "holiday"    // a single missing weekday
	GapSuspicious = "suspicious" // two or more missing weekdays in a row
)

// Gap is a run of weekdays with no bar between two consecutive bars.
type Gap struct {
	After   time.Time // date of the last bar before the gap
	Missing int       // weekdays without a bar
	Kind    string
}

type GapStats struct {
	Days           int
	GapCount       int
	HolidayGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapAt   time.Time
}

// Gaps scans the series for missing weekdays. Weekends are never gaps;
// exchange holidays show up as GapHoliday.
func (bs *BarSet) Gaps() []Gap {
	var gaps []Gap
	for i := 1; i < len(bs.Bars); i++ {
		prev, cur := bs.Bars[i-1].Date, bs.Bars[i].Date
		missing := weekdaysBetween(prev, cur)
		if missing == 0 {
			continue
		}
		kind := GapHoliday
		if missing >= 2 {
			kind = GapSuspicious
		}
		gaps = append(gaps, Gap{After: prev, Missing: missing, Kind: kind})
	}
	return gaps
}

// Stats summarizes Gaps.
func (bs *BarSet) Stats() GapStats {
	s := GapStats{Days: bs.Len()}
	for _, g := range bs.Gaps() {
		s.GapCount++
		if g.Missing > s.LongestGap {
			s.LongestGap = g.Missing
			s.LongestGapAt = g.After
		}
		switch g.Kind {
		case GapHoliday:
			s.HolidayGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		}
	}
	return s
}

// weekdaysBetween counts Monday-Friday dates strictly between a and b.
func weekdaysBetween(a, b time.Time) int {
	n := 0
	for d := a.AddDate(0, 0, 1); d.Before(b); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}
