package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/comtooin/support-center/internal/config"
	"github.com/comtooin/support-center/internal/events"
)

// MailSender delivers a single HTML message.
type MailSender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends mail over the configured SMTP relay (STARTTLS on 587).
type SMTPSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewSMTPSender builds the sender.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Username, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// NotificationService turns request events into best-effort email. Every
// delivery failure is logged and swallowed: a ticket operation's success never
// depends on mail.
type NotificationService struct {
	sender MailSender
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewNotificationService creates the service. A nil sender (mail not
// configured) reduces every handler to a debug log line.
func NewNotificationService(sender MailSender, cfg config.MailConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{sender: sender, cfg: cfg, logger: logger}
}

// RegisterHandlers subscribes to request events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventRequestSubmitted, n.handleSubmitted)
	dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleSubmitted(_ context.Context, event events.Event) error {
	req := event.Request

	if req.Email != "" {
		subject := fmt.Sprintf("[Comtooin] Your support request has been received (#%d)", req.ID)
		body := fmt.Sprintf(`<h2>Hello %s, your support request has been received.</h2>
<p>We will review it and get back to you as soon as possible.</p>
<hr>
<h3>Request details</h3>
<ul>
  <li><strong>Request #:</strong> %d</li>
  <li><strong>Customer:</strong> %s</li>
  <li><strong>User:</strong> %s</li>
  <li><strong>Content:</strong></li>
</ul>
<p>%s</p>
<hr>
<p>Thank you.<br>Comtooin</p>`,
			req.UserName, req.ID, req.CustomerName, req.UserName, req.Content)
		n.deliver(req.Email, subject, body)
	}

	if n.cfg.AdminNotify != "" {
		subject := fmt.Sprintf("[Comtooin] New support request #%d from %s", req.ID, req.CustomerName)
		body := fmt.Sprintf(`<h2>A new support request has been submitted.</h2>
<ul>
  <li><strong>Request #:</strong> %d</li>
  <li><strong>Customer:</strong> %s</li>
  <li><strong>User:</strong> %s</li>
</ul>
<p>%s</p>`,
			req.ID, req.CustomerName, req.UserName, req.Content)
		n.deliver(n.cfg.AdminNotify, subject, body)
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(_ context.Context, event events.Event) error {
	req := event.Request
	if req.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("[Comtooin] Support request #%d is now %s", req.ID, event.NewStatus)
	body := fmt.Sprintf(`<h2>Hello %s, the status of your support request has changed.</h2>
<hr>
<h3>Request details</h3>
<ul>
  <li><strong>Request #:</strong> %d</li>
  <li><strong>Customer:</strong> %s</li>
  <li><strong>Current status:</strong> <strong>%s</strong></li>
</ul>
<p>You can see the full details on the request lookup page.</p>
<hr>
<p>Thank you.<br>Comtooin</p>`,
		req.UserName, req.ID, req.CustomerName, event.NewStatus)
	n.deliver(req.Email, subject, body)
	return nil
}

func (n *NotificationService) deliver(to, subject, body string) {
	if n.sender == nil {
		n.logger.Debug("mail transport not configured, dropping notification",
			zap.String("to", to), zap.String("subject", subject))
		return
	}
	if err := n.sender.Send(to, subject, body); err != nil {
		n.logger.Error("failed to send notification email",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}
	n.logger.Info("notification email sent",
		zap.String("to", to), zap.String("subject", subject))
}
