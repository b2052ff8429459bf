// internal/infra/mail/mail.go
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/mail.v2"

	"sisnompeg_admin/internal/domain/notify"
)

// DialTimeout bounds one SMTP connection attempt.
const DialTimeout = 15 * time.Second

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPNotifier delivers notifications to the administrator mailbox.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(*gomail.Message) error
	log  *logrus.Entry
}

func NewSMTPNotifier(cfg SMTPConfig, log *logrus.Entry) *SMTPNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = DialTimeout
	return &SMTPNotifier{cfg: cfg, send: d.DialAndSend, log: log}
}

func (n *SMTPNotifier) message(msg notify.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// Notify sends msg and waits for the SMTP exchange or ctx, whichever ends
// first. A message already handed to the server when ctx ends may still be
// delivered.
func (n *SMTPNotifier) Notify(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- n.send(n.message(msg)) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("error sending email to %s: %w", n.cfg.To, err)
		}
		n.log.WithFields(logrus.Fields{"to": n.cfg.To, "subject": msg.Subject}).Info("Email sent")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("error sending email to %s: %w", n.cfg.To, ctx.Err())
	}
}

// LogNotifier writes notifications to the log and never fails. Selected only
// with NOTIFIER=log.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.log.WithFields(logrus.Fields{"subject": msg.Subject, "body": msg.Body}).Info("Notification (log notifier)")
	return nil
}
