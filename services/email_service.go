package services

import (
	"fmt"
	"html/template"
	"strings"

	"hackathon-management-api/config"
)

// EmailSender is the outbound-mail collaborator used by the governance
// workflow. Every send is best effort from the caller's perspective.
type EmailSender interface {
	SendWelcomeEmail(to, name, teamName string) error
	SendCredentialEmail(to, name, roleLabel, password string, isExisting bool) error
	SendRejectionEmail(to, name, teamName, reason string) error
}

type smtpEmailService struct{}

// NewSMTPEmailService returns the SMTP-backed sender configured in config.
func NewSMTPEmailService() EmailSender {
	return smtpEmailService{}
}

func (smtpEmailService) SendWelcomeEmail(to, name, teamName string) error {
	subject := "Team approved - welcome to the hackathon"
	message := fmt.Sprintf(
		"Your team %q has been approved. You can now sign in with the password you chose at registration and start working on your project phases.",
		teamName,
	)
	return config.SendMail([]string{to}, subject, buildFormalEmailHTML(subject, name, message))
}

func (smtpEmailService) SendCredentialEmail(to, name, roleLabel, password string, isExisting bool) error {
	var subject, message string
	if isExisting {
		subject = fmt.Sprintf("A new team was assigned to you as %s", roleLabel)
		message = "A newly approved team from your institute has been linked to your existing account. Sign in with your usual credentials to view it."
	} else {
		subject = fmt.Sprintf("Your %s account for the hackathon portal", roleLabel)
		message = fmt.Sprintf(
			"An account has been created for you as %s of your institute.\nLogin email: %s\nTemporary password: %s\nPlease change this password after your first login.",
			roleLabel, to, password,
		)
	}
	return config.SendMail([]string{to}, subject, buildFormalEmailHTML(subject, name, message))
}

func (smtpEmailService) SendRejectionEmail(to, name, teamName, reason string) error {
	subject := "Team registration update"
	message := fmt.Sprintf("Your registration for team %q was not approved.", teamName)
	if strings.TrimSpace(reason) != "" {
		message += "\nReason: " + reason
	}
	return config.SendMail([]string{to}, subject, buildFormalEmailHTML(subject, name, message))
}

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Participant"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
