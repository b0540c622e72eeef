package main

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDF layout constants (A4 portrait, mm)
const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFCountdownReport renders a one-page summary of a countdown frame
type PDFCountdownReport struct {
	pdf   *fpdf.Fpdf
	frame Frame
}

// GenerateCountdownPDF creates the countdown report for frame
func GenerateCountdownPDF(frame Frame) ([]byte, error) {
	report := &PDFCountdownReport{
		pdf:   fpdf.New("P", "mm", "A4", ""),
		frame: frame,
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)
	report.pdf.SetTitle("Career Countdown - "+frame.Profile, true)

	report.pdf.AddPage()
	report.addTitle()
	report.addProfileTable()
	report.addCountdownTable()
	report.addProgress()

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFCountdownReport) addTitle() {
	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(10)
	r.pdf.CellFormat(contentWidth, 12, "Career Countdown", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 13)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 8, "Profile: "+r.frame.Profile, "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.CellFormat(contentWidth, 7,
		fmt.Sprintf("Generated: %s", r.frame.Countdown.Now.Format("2 January 2006 15:04")), "", 1, "C", false, 0, "")
	r.pdf.Ln(8)
}

func (r *PDFCountdownReport) addProfileTable() {
	s := r.frame.Settings
	r.drawSectionHeader("Profile")
	widths := []float64{contentWidth * 0.6, contentWidth * 0.4}
	r.drawTableRow([]string{"Birthdate", s.Birthdate.String()}, widths, false)
	r.drawTableRow([]string{"Career Start Date", s.CareerStart.String()}, widths, false)
	r.drawTableRow([]string{"Retirement Age", fmt.Sprintf("%d", s.RetirementAge)}, widths, false)
	r.drawTableRow([]string{"Retirement Date", s.RetirementDate().String()}, widths, true)
	r.pdf.Ln(8)
}

func (r *PDFCountdownReport) addCountdownTable() {
	c := r.frame.Countdown
	r.drawSectionHeader("Countdown")
	widths := []float64{contentWidth * 0.6, contentWidth * 0.4}

	r.drawTableRow([]string{"Age", fmt.Sprintf("%d years", c.Age)}, widths, false)
	r.drawTableRow([]string{"Time in Career",
		fmt.Sprintf("%d years, %d months", c.YearsInCareer, c.MonthsInCareer)}, widths, false)

	if c.CareerEnded {
		r.drawTableRow([]string{"Status", "Career Ended"}, widths, true)
	} else {
		r.drawTableRow([]string{"Years Remaining", fmt.Sprintf("%.2f", c.YearsRemaining)}, widths, true)
		r.drawTableRow([]string{"Time Remaining",
			fmt.Sprintf("%dy %dm %dd", c.RemainingYears, c.RemainingMonths, c.RemainingDays)}, widths, false)
	}

	r.drawTableRow([]string{"Days Since Last Anniversary",
		fmt.Sprintf("%d", c.DaysSinceLastAnniversary)}, widths, false)
	r.drawTableRow([]string{"Next Anniversary",
		fmt.Sprintf("%s (%d days)", c.NextAnniversary, c.DaysToNextAnniversary)}, widths, false)
	r.pdf.Ln(8)
}

func (r *PDFCountdownReport) addProgress() {
	pct := r.frame.Countdown.ProgressPercent
	r.drawSectionHeader(fmt.Sprintf("Progress: %.2f%%", pct))

	x, y := r.pdf.GetX(), r.pdf.GetY()
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFillColor(240, 240, 240)
	r.pdf.Rect(x, y, contentWidth, 8, "FD")

	if r.frame.Countdown.CareerEnded {
		r.pdf.SetFillColor(22, 163, 74)
	} else {
		r.pdf.SetFillColor(37, 99, 235)
	}
	if w := contentWidth * pct / 100; w > 0 {
		r.pdf.Rect(x, y, w, 8, "F")
	}
	r.pdf.Ln(12)

	if r.frame.Countdown.CareerEnded {
		r.pdf.SetFont("Arial", "B", 12)
		r.pdf.SetTextColor(22, 163, 74)
		r.pdf.CellFormat(contentWidth, 8, "Congratulations on your retirement!", "", 1, "C", false, 0, "")
	}
}

func (r *PDFCountdownReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *PDFCountdownReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 10)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 7, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
