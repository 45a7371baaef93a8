// Package notify fans briefing lifecycle events out to Telegram and
// webhook subscribers.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/briefd/internal/webhook"
)

// TelegramSender delivers one formatted message to the admin chat.
// *telegram.Bot satisfies it; nil disables Telegram delivery.
type TelegramSender interface {
	Send(msg string) error
}

// WebhookFirer fans an event payload out to subscribed webhooks.
// *webhook.Dispatcher satisfies it; nil disables webhook delivery.
type WebhookFirer interface {
	Fire(event string, payload interface{})
}

// Dispatcher routes briefing events to Telegram and webhooks.
type Dispatcher struct {
	telegram TelegramSender
	webhook  WebhookFirer
}

// New creates a Dispatcher. Both adapters may be nil (disabled).
func New(telegram TelegramSender, webhook WebhookFirer) *Dispatcher {
	return &Dispatcher{telegram: telegram, webhook: webhook}
}

// Send fans one event out to all configured adapters. Webhooks receive
// the raw payload; Telegram receives a human-readable summary line.
func (d *Dispatcher) Send(event string, payload interface{}) {
	if d.telegram != nil {
		if err := d.telegram.Send(formatEvent(event, payload)); err != nil {
			log.Printf("notify: telegram send: %v", err)
		}
	}
	if d.webhook != nil {
		d.webhook.Fire(event, payload)
	}
}

// SendTelegram sends an already formatted message via Telegram only.
func (d *Dispatcher) SendTelegram(msg string) {
	if d.telegram == nil {
		return
	}
	if err := d.telegram.Send(msg); err != nil {
		log.Printf("notify: telegram: %v", err)
	}
}

// formatEvent renders the Telegram summary for one briefing event.
func formatEvent(event string, payload interface{}) string {
	fields, _ := payload.(map[string]interface{})
	switch event {
	case webhook.EventBriefingGenerated:
		msg := fmt.Sprintf("✅ %v briefing ready: %v tokens used, %v sections",
			fields["day_part"], fields["tokens_used"], fields["sections_kept"])
		if evicted := stringList(fields["evicted"]); len(evicted) > 0 {
			msg += fmt.Sprintf("\nEvicted: %s", strings.Join(evicted, ", "))
		}
		return msg
	case webhook.EventBriefingFailed:
		return fmt.Sprintf("❌ Briefing failed: %v", fields["error"])
	case webhook.EventSectionEvicted:
		return fmt.Sprintf("Sections evicted from run %v: %s",
			fields["run_id"], strings.Join(stringList(fields["sections"]), ", "))
	}
	return fmt.Sprintf("[%s]", event)
}

// stringList tolerates both []string and []interface{} payload shapes, the
// latter after a JSON round trip.
func stringList(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}
