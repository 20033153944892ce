package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/database"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/notify"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// WebhookController accepts Digistore24 webhook deliveries. The upstream
// platform retries on anything but a prompt 200, so the handler always
// acknowledges with a plain "OK" and runs the pipeline as a detached task.
type WebhookController struct {
	processor *webhook.Processor
	secret    string

	// dispatch runs the continuation after the response; the default is a
	// goroutine, tests run inline.
	dispatch func(task func())
}

// NewWebhookController creates a controller from injected capabilities.
func NewWebhookController(processor *webhook.Processor, secret string) *WebhookController {
	return &WebhookController{
		processor: processor,
		secret:    secret,
		dispatch:  func(task func()) { go task() },
	}
}

var webhookController *WebhookController

// InitializeWebhookController wires the controller from the bootstrap
// edge. Called once by the router.
func InitializeWebhookController() {
	repo := webhook.NewRepository(database.GetDB())
	notifier := notify.Multi{
		notify.NewDiscordNotifierFromEnv(),
		notify.NewEmailNotifierFromEnv(),
	}
	rate := env.GetEnvFloat("AFFILIATE_COMMISSION_RATE", webhook.DefaultCommissionRate)
	webhookController = NewWebhookController(
		webhook.NewProcessor(repo, notifier, rate),
		env.GetEnv("DIGISTORE_WEBHOOK_SECRET", ""),
	)
}

// HandleWebhook implements POST /webhook.
func HandleWebhook(c *fiber.Ctx) error {
	return webhookController.HandleWebhook(c)
}

// HandleWebhookInfo implements GET /webhook.
func HandleWebhookInfo(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Digistore24 Webhook Endpoint - Use POST")
}

func (wc *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	contentType := c.Get(fiber.HeaderContentType)
	signature := firstHeaderValue(c, "X-DS-Signature", "X-Digistore-Signature")

	ev, err := webhook.ParseEvent(rawBody, contentType)
	if err != nil {
		log.Warnf("[Webhook] dropping malformed payload: %v", err)
		return ack(c)
	}
	if !webhook.Validate(ev) {
		log.Warnf("[Webhook] dropping invalid event %s", ev.EventID)
		return ack(c)
	}

	signatureValid := webhook.VerifySignature(rawBody, signature, wc.secret)
	if signature != "" && !signatureValid {
		log.Warnf("[Webhook] invalid signature on event %s", ev.EventID)
	}

	created, stored, err := wc.processor.RecordEvent(c.Context(), ev, rawBody, signatureValid)
	if err != nil {
		// The event log is bookkeeping; the sale itself still gets a
		// chance to persist, so processing continues without dedup.
		log.Errorf("[Webhook] could not record event %s: %v", ev.EventID, err)
	} else if !created {
		log.Infof("[Webhook] duplicate delivery of event %s, already processed", stored.EventID)
		return ack(c)
	}

	// Detach from the request lifecycle: the upstream timeout is short and
	// the response must not wait on storage or notification transports.
	wc.dispatch(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("[Webhook] processing panic for event %s: %v", ev.EventID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		processErr := wc.processor.Process(ctx, ev)
		if processErr != nil {
			log.Errorf("[Webhook] processing failed for event %s: %v", ev.EventID, processErr)
		}
		if stored != nil {
			if markErr := wc.processor.MarkProcessed(ctx, stored.ID, processErr); markErr != nil {
				log.Errorf("[Webhook] could not mark event %s processed: %v", ev.EventID, markErr)
			}
		}
	})

	return ack(c)
}

// ack is the unconditional upstream acknowledgment.
func ack(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString("OK")
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
