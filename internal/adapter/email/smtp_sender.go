package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP host, port and sender email must be configured")

// SMTPSender delivers HTML mail through gomail. Send gives up when ctx is done,
// although the dial already in progress is left to finish on its own.
type SMTPSender struct {
	sender string
	log    logger.Logger
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, ErrIncompleteConfig
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return &SMTPSender{sender: cfg.SenderEmail, log: log, dialer: dialer}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m, err := s.message(to, subject, body)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warnf("Email to %s (subject: %s) abandoned: %v", to, subject, ctx.Err())
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.log.Errorf("Failed to send email to %s, subject '%s': %v", to, subject, err)
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Infof("Email sent to %s, subject: %s", to, subject)
	return nil
}

func (s *SMTPSender) message(to, subject, body string) (*gomail.Message, error) {
	if strings.TrimSpace(to) == "" {
		return nil, errors.New("no recipient provided for email")
	}
	if body == "" {
		return nil, errors.New("email body must be provided")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m, nil
}
