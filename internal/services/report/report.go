package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shakeeb2001/Weather-App/internal/models"
)

const (
	titleFontSize  = 16.0
	detailFontSize = 12.0
	titleHeight    = 10.0
	lineHeight     = 8.0

	kelvinOffset = 273.15
)

// Service renders a one-page PDF weather summary in memory.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Render produces the report for one user from a just-fetched snapshot.
// generatedAt is printed as a UTC calendar day.
func (s *Service) Render(email, location string, snap models.Snapshot, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.CellFormat(0, titleHeight, fmt.Sprintf("Weather Report for %s", location), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight / 2)

	pdf.SetFont("Helvetica", "", detailFontSize)
	lines := []string{
		fmt.Sprintf("Email: %s", email),
		fmt.Sprintf("Date: %s", generatedAt.UTC().Format("2006-01-02")),
		fmt.Sprintf("Location: %s", location),
		fmt.Sprintf("Weather: %s", snap.Description),
		fmt.Sprintf("Temperature: %s °C", formatCelsius(snap.TempKelvin)),
		fmt.Sprintf("Feels like: %s °C", formatCelsius(snap.FeelsLikeKelvin)),
		fmt.Sprintf("Humidity: %d%%", snap.Humidity),
		fmt.Sprintf("Pressure: %d hPa", snap.Pressure),
		fmt.Sprintf("Wind Speed: %.2f m/s", snap.WindSpeed),
		fmt.Sprintf("Cloudiness: %d%%", snap.Cloudiness),
	}
	for _, line := range lines {
		pdf.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode weather report: %w", err)
	}

	return buf.Bytes(), nil
}

// formatCelsius converts Kelvin to Celsius with two fixed decimals.
func formatCelsius(kelvin float64) string {
	return strconv.FormatFloat(kelvin-kelvinOffset, 'f', 2, 64)
}
