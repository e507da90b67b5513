package events

import "time"

// Webhook payload formats.
const (
	WebhookFormatJSON  = "json"
	WebhookFormatSlack = "slack"
)

// WebhookEndpoint is an outgoing notification target for board events.
type WebhookEndpoint struct {
	Name         string   `yaml:"name" json:"name"`
	URL          string   `yaml:"url" json:"url"`
	Secret       string   `yaml:"secret,omitempty" json:"-"`
	Format       string   `yaml:"format,omitempty" json:"format,omitempty"`
	Events       []string `yaml:"events,omitempty" json:"events,omitempty"`
	Disabled     bool     `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	MaxRetries   int      `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	RetryDelayMs int      `yaml:"retry_delay_ms,omitempty" json:"retry_delay_ms,omitempty"`
}

// Accepts reports whether the endpoint wants events of the given type.
func (ep WebhookEndpoint) Accepts(eventType string) bool {
	if ep.Disabled {
		return false
	}
	if len(ep.Events) == 0 {
		return true
	}
	for _, t := range ep.Events {
		if t == eventType {
			return true
		}
	}
	return false
}

// DeadLetter records a delivery that failed after all retries.
type DeadLetter struct {
	Timestamp   time.Time `json:"timestamp"`
	WebhookName string    `json:"webhook_name"`
	URL         string    `json:"url"`
	EventType   string    `json:"event_type"`
	Payload     string    `json:"payload"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
}
