package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail delivers an HTML mail through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}

	// UTF-8 + HTML headers
	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	err := smtp.SendMail(
		host+":587",
		smtp.PlainAuth("", from, pass, host),
		from,
		[]string{to},
		[]byte(msg),
	)
	if err != nil {
		return fmt.Errorf("sending email failed: %v", err)
	}
	return nil
}
