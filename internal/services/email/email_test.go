package email_test

import (
	"errors"
	"testing"

	"github.com/shakeeb2001/Weather-App/internal/emailer"
	"github.com/shakeeb2001/Weather-App/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmailer struct {
	mock.Mock
}

func (m *mockEmailer) Send(to, subject, body string, att emailer.Attachment) error {
	args := m.Called(to, subject, body, att)
	return args.Error(0)
}

func TestSendWeatherReport(t *testing.T) {
	pdf := []byte("%PDF-fake")

	t.Run("success", func(t *testing.T) {
		m := &mockEmailer{}
		m.On("Send", "user@example.com", "Weather Report", mock.Anything, mock.Anything).Return(nil).Once()
		t.Cleanup(func() {
			m.AssertExpectations(t)
		})

		svc := email.NewService(m)
		require.NoError(t, svc.SendWeatherReport("user@example.com", "Colombo", pdf))

		body, ok := m.Calls[0].Arguments.Get(2).(string)
		require.True(t, ok)
		assert.Contains(t, body, "Colombo")

		att, ok := m.Calls[0].Arguments.Get(3).(emailer.Attachment)
		require.True(t, ok)
		assert.Equal(t, "weather_report.pdf", att.Filename)
		assert.Equal(t, pdf, att.Data)
	})

	t.Run("mailer error", func(t *testing.T) {
		m := &mockEmailer{}
		m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("send failed")).Once()
		t.Cleanup(func() {
			m.AssertExpectations(t)
		})

		svc := email.NewService(m)
		require.Error(t, svc.SendWeatherReport("user@example.com", "Colombo", pdf))
	})
}
