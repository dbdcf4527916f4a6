package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bursary-dev/bursary/internal/metrics"
	"gopkg.in/gomail.v2"
)

const footer = "\n\n---\nSupport: support@bursary.app"

type smtpConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func configFromEnv() smtpConfig {
	port := 0
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, _ = strconv.Atoi(raw)
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@localhost"
	}

	return smtpConfig{
		Host: os.Getenv("SMTP_HOST"),
		Port: port,
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: from,
	}
}

func (c smtpConfig) complete() bool {
	return c.Host != "" && c.Port != 0 && c.User != "" && c.Pass != ""
}

// Send delivers one plain-text message. It is a variable so tests can swap in a
// recording or failing sender. Without SMTP configuration the message is logged
// instead of sent, which keeps development setups working.
var Send = func(to, subject, body string) error {
	cfg := configFromEnv()

	if !cfg.complete() {
		log.Printf("[mailer] (dev) would send to %s\n[mailer] subject: %s\n[mailer] body:\n%s", to, subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)

	return d.DialAndSend(m)
}

func deliver(to, subject, body string) error {
	if err := Send(to, subject, body+footer); err != nil {
		metrics.EmailsFailed.Inc()
		return err
	}

	metrics.EmailsSent.Inc()
	return nil
}

func orApplicant(name string) string {
	if name == "" {
		return "Applicant"
	}
	return name
}

func SendSubmissionEmail(to, studentName, scholarshipTitle string, applicationID uint) error {
	subject := "New application received for your scholarship"

	body := "Hello,\n\nA new student application has been submitted"
	if studentName != "" {
		body += " by " + studentName
	}
	body += " for your scholarship"
	if scholarshipTitle != "" {
		body += fmt.Sprintf(" %q", scholarshipTitle)
	}
	body += fmt.Sprintf(".\n\nApplication ID: %d\n\nVisit the dashboard to review the applicant.\n\nBest regards\n", applicationID)

	return deliver(to, subject, body)
}

func SendAcceptanceEmail(to, fullName, scholarshipTitle, nextSteps string) error {
	name := orApplicant(fullName)
	subject := name + " - Congratulations! You've been shortlisted"

	body := "Hello " + name + ",\n\nCongratulations! We are pleased to inform you that your application"
	if scholarshipTitle != "" {
		body += fmt.Sprintf(" for %q", scholarshipTitle)
	}
	body += " has been shortlisted."
	if nextSteps != "" {
		body += "\n\nNext Steps:\n" + nextSteps + "\n"
	}
	body += "\n\nYou can view more details about your application status in your student dashboard.\n\nBest regards\n"

	return deliver(to, subject, body)
}

func SendRejectionEmail(to, fullName, reason string) error {
	name := orApplicant(fullName)
	subject := name + " - Application update"

	body := "Hello " + name + ",\n\nWe wanted to let you know that your application was not shortlisted."
	if reason != "" {
		body += "\n\nReason provided:\n" + reason + "\n"
	}
	body += "\n\nIf you have questions, contact the scholarship donor or admin.\n\nBest regards\n"

	return deliver(to, subject, body)
}
