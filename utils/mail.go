package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/henuka/imitations-api/config"
)

type EmailData struct {
	Name        string
	Message     string
	OrderNumber string
	Amount      string
}

func SendEmail(emailTo string, emailSubject string, data EmailData, templatePath string) error {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		config.AppEnv.FromEmail,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		config.AppEnv.FromEmail,
		config.AppEnv.FromEmailPass,
		config.AppEnv.SMTPHost,
	)

	err = smtp.SendMail(config.AppEnv.SMTPAddress, auth, config.AppEnv.FromEmail, []string{emailTo}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
