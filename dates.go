package main

import "time"

const secondsPerDay = 24 * 60 * 60

// isLeap reports whether year is a Gregorian leap year
func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// AddYears shifts d by n years keeping month and day. A day that does not
// exist in the target month (Feb 29 outside a leap year) clamps to the
// last day of that month rather than rolling into March.
func AddYears(d Date, n int) Date {
	return clampedDate(d.Year+n, d.Month, d.Day)
}

// clampedDate builds a date, clamping the day to the month length
func clampedDate(year int, month time.Month, day int) Date {
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// DaysBetween returns the whole days from a to b (negative if b is before a)
func DaysBetween(a, b Date) int {
	ta := a.Midnight(time.UTC)
	tb := b.Midnight(time.UTC)
	// time.Duration saturates near 292 years, so count from Unix seconds
	return int((tb.Unix() - ta.Unix()) / secondsPerDay)
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the remainder matching floorDiv, with the sign of b
func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
