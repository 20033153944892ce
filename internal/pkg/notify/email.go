package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/mail"
	"github.com/gofiber/fiber/v2/log"
)

// EmailNotifier mails a copy of sale notifications to the merchant.
// Refund and affiliate events only go to the chat channel. With no
// NOTIFICATION_EMAIL configured every call is a silent no-op.
type EmailNotifier struct {
	To string

	// send is swappable for tests; defaults to the SMTP mailer.
	send func(to, subject, body string) error
}

func NewEmailNotifierFromEnv() *EmailNotifier {
	return &EmailNotifier{
		To:   env.GetEnv("NOTIFICATION_EMAIL", ""),
		send: mail.SendMail,
	}
}

func (e *EmailNotifier) NotifySale(ctx context.Context, n SaleNotification) {
	if e.To == "" {
		log.Debug("[Notify] notification email not configured, skipping")
		return
	}

	subject := fmt.Sprintf("New Sale: %s", n.ProductName)
	body := saleEmailBody(n)
	if err := e.sendFunc()(e.To, subject, body); err != nil {
		log.Errorf("[Notify] sale email failed: %v", err)
	}
}

func (e *EmailNotifier) NotifyRefund(ctx context.Context, n RefundNotification) {}

func (e *EmailNotifier) NotifyAffiliate(ctx context.Context, n AffiliateNotification) {}

func (e *EmailNotifier) sendFunc() func(to, subject, body string) error {
	if e.send != nil {
		return e.send
	}
	return mail.SendMail
}

func saleEmailBody(n SaleNotification) string {
	var b strings.Builder
	b.WriteString("<h2>New Sale!</h2>")
	b.WriteString("<p>You've received a new purchase.</p>")
	b.WriteString(`<table style="border-collapse: collapse;">`)
	writeRow(&b, "Order ID", n.OrderID)
	writeRow(&b, "Product", n.ProductName)
	writeRow(&b, "Amount", FormatAmount(n.Amount, n.Currency))
	writeRow(&b, "Customer", n.BuyerName)
	writeRow(&b, "Email", n.BuyerEmail)
	b.WriteString("</table>")
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b,
		`<tr><td style="padding: 8px; border: 1px solid #ddd;"><strong>%s:</strong></td><td style="padding: 8px; border: 1px solid #ddd;">%s</td></tr>`,
		label, value)
}
