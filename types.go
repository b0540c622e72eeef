package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the on-disk and on-screen format for calendar dates
const DateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date without normalising out-of-range fields
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// USString formats the date as MM/DD/YYYY
func (d Date) USString() string {
	return fmt.Sprintf("%02d/%02d/%04d", int(d.Month), d.Day, d.Year)
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Midnight returns the start of the date in loc
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is strictly earlier than o
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Settings is the persisted record for one profile
type Settings struct {
	Birthdate     Date `json:"birthdate"`
	CareerStart   Date `json:"career_start"`
	RetirementAge int  `json:"retirement_age"`
}

// RetirementDate is the birthdate shifted forward by the retirement age
func (s Settings) RetirementDate() Date {
	return AddYears(s.Birthdate, s.RetirementAge)
}

// Validate checks the settings are usable for a countdown
func (s Settings) Validate() error {
	if s.Birthdate.IsZero() {
		return fmt.Errorf("birthdate: %w", ErrInvalidDate)
	}
	if s.CareerStart.IsZero() {
		return fmt.Errorf("career_start: %w", ErrInvalidDate)
	}
	if s.RetirementAge < MinRetirementAge || s.RetirementAge > MaxRetirementAge {
		return fmt.Errorf("%w: got %d, want %d-%d", ErrInvalidRetirementAge,
			s.RetirementAge, MinRetirementAge, MaxRetirementAge)
	}
	return nil
}

// Retirement age bounds accepted by the profile editor
const (
	MinRetirementAge = 1
	MaxRetirementAge = 100
)

// DefaultSettings is the profile used when nothing usable is on disk
func DefaultSettings() Settings {
	return Settings{
		Birthdate:     NewDate(1982, time.January, 17),
		CareerStart:   NewDate(1998, time.June, 1),
		RetirementAge: 65,
	}
}

// Countdown holds every figure derived from a profile at one instant
type Countdown struct {
	Now            time.Time `json:"now"`
	RetirementDate Date      `json:"retirement_date"`
	Birthdate      Date      `json:"birthdate"`
	CareerStart    Date      `json:"career_start"`

	Age int `json:"age"`

	// Truncating approximations: 365-day years, 30-day months
	DaysInCareer   int `json:"days_in_career"`
	YearsInCareer  int `json:"years_in_career"`
	MonthsInCareer int `json:"months_in_career"`

	CareerEnded bool `json:"career_ended"`

	RemainingYears   int `json:"remaining_years"`
	RemainingMonths  int `json:"remaining_months"`
	RemainingDays    int `json:"remaining_days"`
	RemainingHours   int `json:"remaining_hours"`
	RemainingMinutes int `json:"remaining_minutes"`
	RemainingSeconds int `json:"remaining_seconds"`

	// Fractional estimate on a 365.25-day year; may disagree with RemainingYears
	YearsRemaining float64 `json:"years_remaining"`

	LastAnniversary          Date `json:"last_anniversary"`
	NextAnniversary          Date `json:"next_anniversary"`
	DaysSinceLastAnniversary int  `json:"days_since_last_anniversary"`
	DaysToNextAnniversary    int  `json:"days_to_next_anniversary"`

	TotalCareerDays int     `json:"total_career_days"`
	ProgressPercent float64 `json:"progress_percent"`
}

// Frame is one presented refresh: the countdown for the current profile
type Frame struct {
	Profile   string    `json:"profile"`
	Settings  Settings  `json:"settings"`
	Countdown Countdown `json:"countdown"`
}
