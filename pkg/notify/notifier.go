// Package notify emails order confirmations to the customer and the shop.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/config"
)

// OrderNotifier sends the customer confirmation and the admin alert for an order.
type OrderNotifier struct {
	mailer  Mailer
	from    string
	admin   string
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderNotifier(mailer Mailer, cfg config.MailConfig, log *zap.Logger) *OrderNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderNotifier{
		mailer:  mailer,
		from:    cfg.From,
		admin:   cfg.AdminEmail,
		timeout: cfg.Timeout,
		log:     log,
		now:     time.Now,
	}
}

// FromConfig returns a Resend-backed notifier, or nil when no API key is set.
func FromConfig(cfg config.MailConfig, log *zap.Logger) *OrderNotifier {
	if cfg.ResendAPIKey == "" {
		if log != nil {
			log.Warn("RESEND_API_KEY not set, order emails disabled")
		}
		return nil
	}
	return NewOrderNotifier(NewResendMailer(cfg.ResendAPIKey, log), cfg, log)
}

// Notify attempts both emails. The admin alert is sent even if the customer
// email fails; all failures are joined.
func (n *OrderNotifier) Notify(ctx context.Context, order models.OrderPayload, orderID string) error {
	if n == nil {
		return nil
	}
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	data := newEmailData(order, orderID, n.now().Year())
	var errs []error
	if err := n.send(ctx, "customer.html", data, CustomerSubject(orderID), order.Email, ""); err != nil {
		errs = append(errs, fmt.Errorf("customer email: %w", err))
	}
	if err := n.send(ctx, "admin.html", data, AdminSubject(orderID, order.FullName), n.admin, order.Email); err != nil {
		errs = append(errs, fmt.Errorf("admin email: %w", err))
	}
	return errors.Join(errs...)
}

// send renders tmpl and mails it to to. replyTo lets the shop answer the
// customer straight from the admin alert.
func (n *OrderNotifier) send(ctx context.Context, tmpl string, data emailData, subject, to, replyTo string) error {
	html, err := render(tmpl, data)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, Email{
		From:     n.from,
		To:       []string{to},
		ReplyTo:  replyTo,
		Subject:  subject,
		HTMLBody: html,
		Tags:     map[string]string{"order_id": data.OrderID},
	})
}

func CustomerSubject(orderID string) string {
	return fmt.Sprintf("✓ Xác nhận đơn hàng #%s - LubeStation", orderID)
}

func AdminSubject(orderID, fullName string) string {
	return fmt.Sprintf("🔔 Đơn hàng mới #%s - %s", orderID, fullName)
}
