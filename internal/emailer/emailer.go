package emailer

import (
	"io"
	"log"

	"github.com/shakeeb2001/Weather-App/internal/config"
	"gopkg.in/gomail.v2"
)

// Attachment is a file carried with a message, held fully in memory.
type Attachment struct {
	Filename string
	Data     []byte
}

type SMTPService struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	logger *log.Logger
}

func NewSMTPService(cfg *config.Config, logger *log.Logger) *SMTPService {
	svc := &SMTPService{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		logger:   logger,
	}

	if svc.Host == "" || svc.From == "" {
		logger.Printf("SMTP credentials are not fully set: host=%q from=%q", svc.Host, svc.From)
	}
	return svc
}

func (e *SMTPService) Send(to, subject, body string, att Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if att.Filename != "" {
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Data)
			return err
		}))
	}

	dialer := gomail.NewDialer(e.Host, e.Port, e.User, e.Password)
	return dialer.DialAndSend(m)
}
