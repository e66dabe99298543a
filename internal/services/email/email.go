package email

import (
	"github.com/shakeeb2001/Weather-App/internal/emailer"
)

const (
	reportSubject    = "Weather Report"
	attachmentName   = "weather_report.pdf"
	reportSignature  = "Regards,\nWeather Report Service"
	reportBodyHeader = "Hello,\n\nHere is your weather report for "
)

type Emailer interface {
	Send(to, subject, body string, att emailer.Attachment) error
}

type Service struct {
	emailer Emailer
}

func NewService(service Emailer) *Service {
	return &Service{
		emailer: service,
	}
}

// SendWeatherReport delivers the rendered PDF with a short plain-text body.
func (e *Service) SendWeatherReport(to, location string, pdf []byte) error {
	body := reportBodyHeader + location + ".\n\n" + reportSignature

	return e.emailer.Send(to, reportSubject, body, emailer.Attachment{
		Filename: attachmentName,
		Data:     pdf,
	})
}
