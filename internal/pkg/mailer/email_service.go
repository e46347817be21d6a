package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendFeedbackReport(toEmail, testTitle, report string, score float64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendFeedbackReport(toEmail, testTitle, report string, score float64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your results for %q", testTitle))

	m.SetBody("text/html", buildFeedbackBody(testTitle, report, score))

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send feedback report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Feedback report sent to %s\n", toEmail)
	return nil
}

// buildFeedbackBody renders the HTML report. Title and report text are
// model/user supplied, so they are escaped before interpolation.
func buildFeedbackBody(testTitle, report string, score float64) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Test results: %s</h2>
			<p>Overall score:</p>
			<h1 style="color: #4CAF50;">%.0f%%</h1>
			<h3>Coach feedback</h3>
			<p style="white-space: pre-wrap;">%s</p>
			<p>Keep practicing - the assistant is available whenever you want to review a question.</p>
		</div>
	`, html.EscapeString(testTitle), score*100, html.EscapeString(report))
}
