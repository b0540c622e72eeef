package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError describes a rejected form field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validateDate checks if input is a valid YYYY-MM-DD date
func validateDate(input string) error {
	input = strings.TrimSpace(input)

	if !dateRegex.MatchString(input) {
		return ValidationError{Field: "date", Message: "Invalid format. Use YYYY-MM-DD (e.g., 1982-01-17)"}
	}

	if _, err := time.Parse(DateLayout, input); err != nil {
		return ValidationError{Field: "date", Message: "Invalid date. Check month (01-12) and day are valid"}
	}

	return nil
}

// validateRetirementAge checks retirement age is within the editor's range
func validateRetirementAge(age int) error {
	if age < MinRetirementAge || age > MaxRetirementAge {
		return ValidationError{Field: "retirement_age", Message: fmt.Sprintf(
			"Retirement age must be between %d and %d (got %d)", MinRetirementAge, MaxRetirementAge, age)}
	}
	return nil
}

// ProfilePrompter asks for profile details on a line-oriented terminal
type ProfilePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewProfilePrompter reads answers from in and writes prompts to out
func NewProfilePrompter(in io.Reader, out io.Writer) *ProfilePrompter {
	return &ProfilePrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// readLine returns the next trimmed line; EOF reads as empty
func (p *ProfilePrompter) readLine() string {
	input, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// promptString asks for free text with a default value
func (p *ProfilePrompter) promptString(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	input := p.readLine()
	if input == "" {
		return defaultVal
	}
	return input
}

// promptDate asks for a date with validation (YYYY-MM-DD format)
func (p *ProfilePrompter) promptDate(prompt string, defaultVal Date) Date {
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
		input := p.readLine()
		if input == "" {
			return defaultVal
		}
		if err := validateDate(input); err != nil {
			fmt.Fprintf(p.out, "  ✗ %s\n", err.Error())
			continue
		}
		return MustParseDate(input)
	}
}

// promptRetirementAge asks for retirement age with validation
func (p *ProfilePrompter) promptRetirementAge(prompt string, defaultVal int) int {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", prompt, defaultVal)
		input := p.readLine()
		if input == "" {
			return defaultVal
		}
		val, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(p.out, "  ✗ Invalid number. Please enter a whole number\n")
			continue
		}
		if err := validateRetirementAge(val); err != nil {
			fmt.Fprintf(p.out, "  ✗ %s\n", err.Error())
			continue
		}
		return val
	}
}

// PromptName asks for a new profile name
func (p *ProfilePrompter) PromptName() string {
	return p.promptString("Enter new profile name", "")
}

// PromptSettings walks through the profile form, offering current as defaults
func (p *ProfilePrompter) PromptSettings(current Settings) Settings {
	fmt.Fprintln(p.out, "Profile")
	fmt.Fprintln(p.out, "───────")
	birthdate := p.promptDate("Birthdate", current.Birthdate)
	careerStart := p.promptDate("Career Start Date", current.CareerStart)
	age := p.promptRetirementAge("Retirement Age", current.RetirementAge)

	settings := Settings{
		Birthdate:     birthdate,
		CareerStart:   careerStart,
		RetirementAge: age,
	}
	fmt.Fprintf(p.out, "  → Retirement date: %s\n", settings.RetirementDate())
	return settings
}

// Confirm asks a yes/no question, defaulting to no
func (p *ProfilePrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	switch strings.ToLower(p.readLine()) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
