package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"path/filepath"
	"strings"
	"time"
)

const smtpHost = "smtp.gmail.com"
const smtpAddr = "smtp.gmail.com:587"

// MailService delivers account lifecycle mail over SMTP. It is used by
// the mail worker, never by the API server directly.
type MailService struct {
	gmailUser    string
	gmailAppPass string
	mailFrom     string
	mailFromName string
	templateDir  string
}

func NewMailService(gmailUser, gmailAppPass, mailFrom, mailFromName, templateDir string) *MailService {
	if templateDir == "" {
		templateDir = "internal/templates"
	}
	return &MailService{
		gmailUser:    gmailUser,
		gmailAppPass: gmailAppPass,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
		templateDir:  templateDir,
	}
}

func (s *MailService) SendVerificationMail(to, username, code string) error {
	return s.send(to, "Verify your email", "verify-email.html", map[string]string{
		"Username": username,
		"Code":     code,
	})
}

func (s *MailService) SendWelcomeMail(to, username string) error {
	return s.send(to, "Welcome aboard", "welcome.html", map[string]string{
		"Username": username,
	})
}

func (s *MailService) SendLoginNotification(to, username string) error {
	return s.send(to, "New login to your account", "login-notice.html", map[string]string{
		"Username": username,
		"Time":     time.Now().Format(time.RFC1123),
	})
}

func (s *MailService) SendPasswordResetMail(to, link string) error {
	return s.send(to, "Reset your password", "reset-password.html", map[string]string{
		"Link": link,
	})
}

func (s *MailService) SendResetSuccessMail(to string) error {
	return s.send(to, "Your password was changed", "reset-success.html", nil)
}

func (s *MailService) send(to, subject, templateName string, data map[string]string) error {
	htmlBody, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s via=%s", to, smtpAddr)

	if err := s.sendSMTPWithTimeout(to, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", to)
	return nil
}

func (s *MailService) renderTemplate(name string, data map[string]string) (string, error) {
	tmpl, err := template.ParseFiles(filepath.Join(s.templateDir, name))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", smtpAddr, 8*time.Second)
	if err != nil {
		return err
	}
	// connection-level deadline so a stalled server can't hang the worker
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.gmailUser, s.gmailAppPass, smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
