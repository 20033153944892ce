package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/gofiber/fiber/v2/log"
)

// Embed colors by message type.
const (
	colorSuccess = 0x00ff00
	colorRefund  = 0xff0000
	colorInfo    = 0x0099ff
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Timestamp   string       `json:"timestamp"`
}

// DiscordNotifier posts structured embeds to a Discord-compatible chat
// webhook. An empty webhook URL makes every call a silent no-op.
type DiscordNotifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

func NewDiscordNotifierFromEnv() *DiscordNotifier {
	return &DiscordNotifier{
		WebhookURL: env.GetEnv("DISCORD_WEBHOOK_URL", ""),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *DiscordNotifier) NotifySale(ctx context.Context, n SaleNotification) {
	d.send(ctx, embed{
		Title:       "New Sale!",
		Description: fmt.Sprintf("New purchase of %s", n.ProductName),
		Color:       colorSuccess,
		Fields: []embedField{
			{Name: "Order ID", Value: n.OrderID, Inline: true},
			{Name: "Amount", Value: FormatAmount(n.Amount, n.Currency), Inline: true},
			{Name: "Product", Value: n.ProductName, Inline: false},
			{Name: "Customer", Value: n.BuyerName, Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyRefund(ctx context.Context, n RefundNotification) {
	d.send(ctx, embed{
		Title:       "Refund Processed",
		Description: fmt.Sprintf("Refund for %s", n.ProductName),
		Color:       colorRefund,
		Fields: []embedField{
			{Name: "Order ID", Value: n.OrderID, Inline: true},
			{Name: "Amount", Value: FormatAmount(n.Amount, n.Currency), Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyAffiliate(ctx context.Context, n AffiliateNotification) {
	d.send(ctx, embed{
		Title:       "Affiliate Approved",
		Description: fmt.Sprintf("Affiliate %s has been approved", n.Name),
		Color:       colorInfo,
		Fields: []embedField{
			{Name: "Affiliate ID", Value: n.AffiliateID, Inline: true},
			{Name: "Email", Value: n.Email, Inline: true},
		},
	})
}

// send swallows every transport error; notification channels must not fail
// webhook processing.
func (d *DiscordNotifier) send(ctx context.Context, e embed) {
	if d.WebhookURL == "" {
		log.Debug("[Notify] Discord webhook URL not configured, skipping notification")
		return
	}

	e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(map[string]interface{}{"embeds": []embed{e}})
	if err != nil {
		log.Errorf("[Notify] failed to encode Discord embed: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.WebhookURL, bytes.NewReader(body))
	if err != nil {
		log.Errorf("[Notify] failed to build Discord request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Errorf("[Notify] Discord request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Errorf("[Notify] Discord returned status %d: %s", resp.StatusCode, string(respBody))
	}
}

// FormatAmount renders a money value for human-facing messages.
func FormatAmount(amount float64, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
