package services

import "github.com/rs/zerolog/log"

// Domain events published after successful mutations.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventPostCreated = "post.created"
)

// EventPublisher delivers domain events to interested consumers.
type EventPublisher interface {
	PublishEvent(eventType string, data map[string]interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged
// and never fail the operation that triggered the event.
func publish(p EventPublisher, eventType string, data map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, data); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
