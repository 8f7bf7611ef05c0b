package infrastructure

import (
	"fmt"
	"net/smtp"

	"Finledger/config"
	"Finledger/internal/domain/shared"
	"Finledger/internal/logger"
)

// SMTPMailer envia notificações por e-mail via SMTP simples. Sem host
// configurado, NewMailer devolve um NoopMailer que apenas registra em log.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(cfg *config.Config) shared.Notifier {
	if cfg.SMTP.Host == "" {
		logger.Warn().Msg("SMTP não configurado, notificações por e-mail desativadas")
		return &NoopMailer{}
	}

	return &SMTPMailer{
		host: cfg.SMTP.Host,
		port: cfg.SMTP.Port,
		user: cfg.SMTP.User,
		pass: cfg.SMTP.Password,
		from: cfg.SMTP.From,
	}
}

func (m *SMTPMailer) SendEmail(to, subject, body string) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		logger.Error().
			Err(err).
			Str("to", to).
			Str("subject", subject).
			Msg("Falha ao enviar e-mail")
		return
	}

	logger.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("E-mail enviado")
}

type NoopMailer struct{}

func (m *NoopMailer) SendEmail(to, subject, body string) {
	logger.Debug().
		Str("to", to).
		Str("subject", subject).
		Msg("E-mail descartado (SMTP desativado)")
}
