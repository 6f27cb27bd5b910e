package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPProvider реализует Provider поверх net/smtp
type SMTPProvider struct {
	config *SMTPConfig
	auth   smtp.Auth
}

func NewSMTPProvider(config *SMTPConfig) *SMTPProvider {
	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	return &SMTPProvider{
		config: config,
		auth:   auth,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	addr := fmt.Sprintf("%s:%d", p.config.Host, p.config.Port)
	msg := p.buildMessage(email)

	if p.config.UseTLS {
		return p.sendTLS(addr, email.To, msg)
	}
	return smtp.SendMail(addr, p.auth, p.config.FromEmail, email.To, msg)
}

func (p *SMTPProvider) SendVerification(to, token string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Подтверждение email",
		Body:    renderVerification(token),
		IsHTML:  true,
	})
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	return p.Send(&Email{
		To:      []string{to},
		Subject: "Сброс пароля",
		Body:    renderPasswordReset(token),
		IsHTML:  true,
	})
}

func (p *SMTPProvider) Close() error { return nil }

func (p *SMTPProvider) buildMessage(email *Email) []byte {
	var b strings.Builder

	from := p.config.FromEmail
	if p.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", p.config.FromName, p.config.FromEmail)
	}

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	if email.IsHTML {
		b.WriteString("MIME-Version: 1.0\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(email.Body)

	return []byte(b.String())
}

// sendTLS отправляет письмо через явное TLS-соединение (порт 465)
func (p *SMTPProvider) sendTLS(addr string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: p.config.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, p.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if p.auth != nil {
		if err := client.Auth(p.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(p.config.FromEmail); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// NoopProvider используется в тестах и когда SMTP не сконфигурирован
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error                   { return nil }
func (NoopProvider) SendVerification(_, _ string) error  { return nil }
func (NoopProvider) SendPasswordReset(_, _ string) error { return nil }
func (NoopProvider) Close() error                        { return nil }
