// Package webhook delivers board events to outgoing webhooks.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

// SignatureHeader carries the HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Roadmapper-Signature"

// Notifier sends outgoing webhook notifications for board events.
type Notifier struct {
	endpoints  []events.WebhookEndpoint
	client     *http.Client
	deadLetter *DeadLetterStore
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier with the given endpoints and dead letter store.
// deadLetter may be nil.
func NewNotifier(endpoints []events.WebhookEndpoint, deadLetter *DeadLetterStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		deadLetter: deadLetter,
		logger:     logger,
	}
}

// Attach subscribes the notifier to p.
func (n *Notifier) Attach(p *events.Publisher) (detach func()) {
	return p.Subscribe(func(e *events.BoardEvent) error {
		n.Notify(context.Background(), e)
		return nil
	})
}

// Payload is the JSON body sent to json-format endpoints.
type Payload struct {
	EventType   string             `json:"event_type"`
	Timestamp   time.Time          `json:"timestamp"`
	Description string             `json:"description"`
	Data        *events.BoardEvent `json:"data"`
}

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify sends an event to all matching endpoints without blocking the caller.
func (n *Notifier) Notify(ctx context.Context, event *events.BoardEvent) {
	for _, ep := range n.endpoints {
		if !ep.Accepts(event.Type) {
			continue
		}
		body, err := encode(ep, event)
		if err != nil {
			n.logger.Warn("encode webhook payload", "webhook", ep.Name, "error", err)
			continue
		}
		n.wg.Add(1)
		go func(ep events.WebhookEndpoint) {
			defer n.wg.Done()
			n.deliver(ctx, ep, event.Type, body)
		}(ep)
	}
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func encode(ep events.WebhookEndpoint, event *events.BoardEvent) ([]byte, error) {
	text := events.Describe(event)
	if ep.Format == events.WebhookFormatSlack {
		prefix := ""
		if event.IsFailure() {
			prefix = ":warning: "
		}
		text = prefix + text
		return json.Marshal(slackPayload{
			Text:   text,
			Blocks: []slackBlock{{Type: "section", Text: slackText{Type: "mrkdwn", Text: text}}},
		})
	}
	return json.Marshal(Payload{
		EventType:   event.Type,
		Timestamp:   event.Timestamp,
		Description: text,
		Data:        event,
	})
}

func (n *Notifier) deliver(ctx context.Context, ep events.WebhookEndpoint, eventType string, body []byte) {
	maxRetries := ep.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := time.Duration(ep.RetryDelayMs) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	attempts := 0
	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   maxRetries,
		InitialDelay:  retryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		attempts++
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		return
	}

	n.logger.Warn("webhook delivery failed", "webhook", ep.Name, "event", eventType, "attempts", attempts, "error", err)
	if n.deadLetter != nil {
		dl := events.DeadLetter{
			Timestamp:   time.Now(),
			WebhookName: ep.Name,
			URL:         ep.URL,
			EventType:   eventType,
			Payload:     string(body),
			Error:       err.Error(),
			Attempts:    attempts,
		}
		if err := n.deadLetter.Append(dl); err != nil {
			n.logger.Error("dead letter write failed", "error", err)
		}
	}
}

func (n *Notifier) send(ctx context.Context, ep events.WebhookEndpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Roadmapper-Webhook/1.0")

	if ep.Secret != "" {
		req.Header.Set(SignatureHeader, sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// sign computes HMAC-SHA256 of the payload using the secret.
func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
