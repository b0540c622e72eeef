package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Tone is the highlight applied to a label
type Tone int

const (
	ToneDefault Tone = iota
	ToneInfo         // retirement date
	ToneSuccess      // career ended
)

// Label is one line of the countdown display
type Label struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Labels is the full set of display lines for one frame
type Labels struct {
	RetirementDate   Label `json:"retirement_date"`
	Age              Label `json:"age"`
	CareerStart      Label `json:"career_start"`
	TimeInCareer     Label `json:"time_in_career"`
	YearsRemaining   Label `json:"years_remaining"`
	TimeRemaining    Label `json:"time_remaining"`
	SinceAnniversary Label `json:"since_anniversary"`
	NextAnniversary  Label `json:"next_anniversary"`
	Status           Label `json:"status"`
	Progress         int   `json:"progress"`
}

// Lines returns the labels in display order
func (l Labels) Lines() []Label {
	return []Label{
		l.Age,
		l.CareerStart,
		l.TimeInCareer,
		l.RetirementDate,
		l.YearsRemaining,
		l.TimeRemaining,
		l.SinceAnniversary,
		l.NextAnniversary,
	}
}

// statusTimeLayout is used for the clock in the status line
const statusTimeLayout = "Mon Jan 2 15:04:05 2006"

// FormatLabels renders the display text for a frame
func FormatLabels(f Frame) Labels {
	c := f.Countdown
	l := Labels{
		RetirementDate:   Label{Text: "Retirement Date: " + c.RetirementDate.String(), Tone: ToneInfo},
		Age:              Label{Text: fmt.Sprintf("Age: %d years (Born: %s)", c.Age, c.Birthdate.USString())},
		CareerStart:      Label{Text: "Career Start Date: " + c.CareerStart.String()},
		TimeInCareer:     Label{Text: fmt.Sprintf("Time in Career: %d years, %d months", c.YearsInCareer, c.MonthsInCareer)},
		SinceAnniversary: Label{Text: fmt.Sprintf("Days Since Last Anniversary: %d", c.DaysSinceLastAnniversary)},
		NextAnniversary: Label{Text: fmt.Sprintf("Next Anniversary: %s, %d days remaining",
			c.NextAnniversary, c.DaysToNextAnniversary)},
		Progress: int(c.ProgressPercent),
	}

	status := fmt.Sprintf("Current Profile: %s | Progress: %.2f%% | ", f.Profile, c.ProgressPercent)
	if c.CareerEnded {
		l.YearsRemaining = Label{Text: "Career Ended", Tone: ToneSuccess}
		l.TimeRemaining = Label{Text: "Congratulations on your retirement!", Tone: ToneSuccess}
		status += "Career Ended"
	} else {
		l.YearsRemaining = Label{Text: fmt.Sprintf("Years Remaining: %.2f", c.YearsRemaining)}
		l.TimeRemaining = Label{Text: fmt.Sprintf(
			"Time Remaining: %d years, %d months, %d days, %d hours, %d minutes, %d seconds",
			c.RemainingYears, c.RemainingMonths, c.RemainingDays,
			c.RemainingHours, c.RemainingMinutes, c.RemainingSeconds)}
		status += c.Now.Format(statusTimeLayout)
	}
	l.Status = Label{Text: status}
	return l
}

// ANSI colour codes used for label tones
const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
	ansiGreen = "\033[32m"
	ansiClear = "\033[H\033[2J"
)

// ConsolePresenter draws frames to a terminal
type ConsolePresenter struct {
	out    io.Writer
	color  bool
	redraw bool
}

// NewConsolePresenter writes to stdout, colouring and redrawing in place
// only when stdout is a terminal
func NewConsolePresenter() *ConsolePresenter {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &ConsolePresenter{out: os.Stdout, color: tty, redraw: tty}
}

// NewPlainPresenter writes uncoloured frames to out, one after another
func NewPlainPresenter(out io.Writer) *ConsolePresenter {
	return &ConsolePresenter{out: out}
}

// Present implements Presenter
func (p *ConsolePresenter) Present(f Frame) error {
	var b strings.Builder
	if p.redraw {
		b.WriteString(ansiClear)
	}
	PrintCountdown(&b, f, p.color)
	_, err := io.WriteString(p.out, b.String())
	return err
}

// PrintCountdown writes the labels, a progress bar and the status line
func PrintCountdown(w io.Writer, f Frame, color bool) {
	labels := FormatLabels(f)

	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                       CAREER COUNTDOWN                         ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════════╝")
	for _, line := range labels.Lines() {
		fmt.Fprintf(w, "  %s\n", colorize(line, color))
	}
	fmt.Fprintf(w, "  %s\n", progressBar(f.Countdown.ProgressPercent, 40))
	fmt.Fprintln(w, "──────────────────────────────────────────────────────────────────")
	fmt.Fprintf(w, "  %s\n", labels.Status.Text)
}

// colorize wraps the label text in its tone colour
func colorize(l Label, color bool) string {
	if !color {
		return l.Text
	}
	switch l.Tone {
	case ToneInfo:
		return ansiBlue + l.Text + ansiReset
	case ToneSuccess:
		return ansiGreen + l.Text + ansiReset
	default:
		return l.Text
	}
}

// progressBar draws a fixed-width text bar for percent
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("█", filled),
		strings.Repeat("░", width-filled), int(percent))
}

// PrintProfiles lists profile names, marking the current one
func PrintProfiles(w io.Writer, profiles map[string]Settings, current string, names []string) {
	fmt.Fprintln(w, "Profiles:")
	fmt.Fprintln(w, "─────────")
	for _, name := range names {
		s := profiles[name]
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-20s born %s, career %s, retire at %d (%s)\n",
			marker, name, s.Birthdate, s.CareerStart, s.RetirementAge, s.RetirementDate())
	}
}
