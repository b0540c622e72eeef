package main

import (
	"math"
	"time"
)

// daysPerYearPrecise is used for the fractional years-remaining estimate
const daysPerYearPrecise = 365.25

// Calculate derives the countdown for settings s at instant now.
// Calendar dates are taken in now's location.
func Calculate(now time.Time, s Settings) Countdown {
	today := DateOf(now)
	retirement := s.RetirementDate()

	c := Countdown{
		Now:            now,
		RetirementDate: retirement,
		Birthdate:      s.Birthdate,
		CareerStart:    s.CareerStart,
		Age:            ageOn(s.Birthdate, today),
	}

	// Time in career
	c.DaysInCareer = DaysBetween(s.CareerStart, today)
	// Floor division: a career starting in 10 days reads -1 years, 11 months
	c.YearsInCareer = floorDiv(c.DaysInCareer, 365)
	c.MonthsInCareer = floorMod(c.DaysInCareer, 365) / 30

	c.CareerEnded = !today.Before(retirement)
	if !c.CareerEnded {
		c.RemainingYears, c.RemainingMonths, c.RemainingDays = calendarRemaining(today, retirement)

		secs := secondsUntil(now, retirement.Midnight(now.Location()))
		c.RemainingHours = secs / 3600 % 24
		c.RemainingMinutes = secs / 60 % 60
		c.RemainingSeconds = secs % 60
	}

	c.TotalCareerDays = DaysBetween(s.CareerStart, retirement)
	c.YearsRemaining = float64(c.TotalCareerDays-c.DaysInCareer) / daysPerYearPrecise

	c.LastAnniversary = lastAnniversary(s.CareerStart, today)
	c.NextAnniversary = AddYears(c.LastAnniversary, 1)
	c.DaysSinceLastAnniversary = DaysBetween(c.LastAnniversary, today)
	c.DaysToNextAnniversary = DaysBetween(today, c.NextAnniversary)

	c.ProgressPercent = progressPercent(c.DaysInCareer, c.TotalCareerDays, c.CareerEnded)

	return c
}

// secondsUntil counts whole seconds from now to a later instant t without
// going through time.Duration, which saturates near 292 years
func secondsUntil(now, t time.Time) int {
	secs := t.Unix() - now.Unix()
	if now.Nanosecond() > 0 {
		secs--
	}
	return int(secs)
}

// ageOn returns completed years between birth and today
func ageOn(birth, today Date) int {
	age := today.Year - birth.Year
	if today.Month < birth.Month || (today.Month == birth.Month && today.Day < birth.Day) {
		age--
	}
	return age
}

// calendarRemaining subtracts field by field, borrowing the length of the
// current month for days and 12 for months
func calendarRemaining(today, target Date) (years, months, days int) {
	years = target.Year - today.Year
	months = int(target.Month) - int(today.Month)
	days = target.Day - today.Day

	if days < 0 {
		months--
		days += DaysInMonth(today.Year, today.Month)
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months, days
}

// lastAnniversary is the latest date on or before today sharing start's month and day
func lastAnniversary(start, today Date) Date {
	anniv := clampedDate(today.Year, start.Month, start.Day)
	if today.Before(anniv) {
		anniv = clampedDate(today.Year-1, start.Month, start.Day)
	}
	return anniv
}

// progressPercent is elapsed/total as a percentage clamped to [0, 100]
func progressPercent(elapsed, total int, ended bool) float64 {
	if total <= 0 {
		if ended {
			return 100
		}
		return 0
	}
	p := 100 * float64(elapsed) / float64(total)
	return math.Max(0, math.Min(100, p))
}
