package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RegistrationEvent is the payload published after enrollment changes so
// downstream consumers (notifications, rosters) can react.
type RegistrationEvent struct {
	Type           string    `json:"type"`
	RegistrationID uint      `json:"registration_id"`
	StudentID      uint      `json:"student_id"`
	CourseID       uint      `json:"course_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Registration event types.
const (
	EventStudentEnrolled     = "student.enrolled"
	EventRegistrationDropped = "registration.dropped"
)

// EventPublisher fans registration events out over NATS and Redis pub/sub.
// Both transports are optional; a nil publisher is safe to call.
type EventPublisher struct {
	nats    *nats.Conn
	redis   *redis.Client
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher constructs the publisher. Either connection may be nil.
func NewEventPublisher(natsConn *nats.Conn, redisClient *redis.Client, subject string, logger zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		nats:    natsConn,
		redis:   redisClient,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish emits the event on every configured transport. Failures are logged
// and swallowed: event delivery never fails the enrollment itself.
func (p *EventPublisher) Publish(ctx context.Context, event RegistrationEvent) {
	if p == nil || p.subject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal registration event")
		return
	}

	if p.nats != nil {
		if err := p.nats.Publish(p.subject, payload); err != nil {
			p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish registration event to nats")
		}
	}

	if p.redis != nil {
		if err := p.redis.Publish(ctx, p.subject, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("channel", p.subject).Msg("failed to publish registration event to redis")
		}
	}
}
