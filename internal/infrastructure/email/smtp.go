package email

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/fylo-cloud/fylo/internal/domain/order"
	"github.com/fylo-cloud/fylo/internal/domain/pricing"
	"github.com/fylo-cloud/fylo/internal/shared/biztime"
	"github.com/fylo-cloud/fylo/internal/shared/config"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPOrderNotifier mails an order confirmation to the client. Orders without
// a client e-mail are skipped.
type SMTPOrderNotifier struct {
	config   config.EmailConfig
	currency string
	dialer   sender
	logger   logger.Interface
}

func NewSMTPOrderNotifier(cfg config.EmailConfig, currency string, log logger.Interface) *SMTPOrderNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPOrderNotifier{
		config:   cfg,
		currency: currency,
		dialer:   dialer,
		logger:   log,
	}
}

func (s *SMTPOrderNotifier) NotifyOrderCreated(ctx context.Context, o *order.Order) error {
	to := o.Client().Email
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.buildConfirmation(o)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("order confirmation sent", "order_id", o.ID())
	return nil
}

func (s *SMTPOrderNotifier) buildConfirmation(o *order.Order) *gomail.Message {
	cfg := o.Configuration()
	client := o.Client()

	greeting := "Hola"
	if client.Name != "" {
		greeting = "Hola " + client.Name
	}

	billing := "al mes"
	if cfg.BillingPeriod.IsAnnual() {
		billing = "al año"
	}
	amount := pricing.FormatMoney(o.QuotedPrice(), s.currency)
	created := biztime.FormatInBizTimezone(o.CreatedAt(), "02/01/2006 15:04")

	subject := fmt.Sprintf("Pedido %s recibido", o.ID())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s,</h2>
			<p>Hemos recibido tu pedido <strong>%s</strong> el %s.</p>
			<ul>
				<li>Ubicación: %s</li>
				<li>Sistema operativo: %s</li>
				<li>%d vCPU, %d GB RAM, %d GB de almacenamiento</li>
			</ul>
			<p>Importe: <strong>%s</strong> %s</p>
			<p>Te escribiremos cuando tu VPS esté lista.</p>
			<p>El equipo de Fylo</p>
		</body>
		</html>
	`,
		html.EscapeString(greeting), o.ID(), created,
		html.EscapeString(cfg.Location.DisplayName()), html.EscapeString(cfg.OperatingSystem.DisplayName()),
		cfg.Cores, cfg.RAMGb, cfg.StorageGb,
		html.EscapeString(amount), billing)

	plainBody := fmt.Sprintf(`
%s,

Hemos recibido tu pedido %s el %s.

Ubicación: %s
Sistema operativo: %s
%d vCPU, %d GB RAM, %d GB de almacenamiento

Importe: %s %s

Te escribiremos cuando tu VPS esté lista.
El equipo de Fylo
	`,
		greeting, o.ID(), created,
		cfg.Location.DisplayName(), cfg.OperatingSystem.DisplayName(),
		cfg.Cores, cfg.RAMGb, cfg.StorageGb,
		amount, billing)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", client.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
