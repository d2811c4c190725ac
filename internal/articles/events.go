package articles

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/articles-api/pkg/logger"
	"github.com/angelmondragon/articles-api/pkg/metrics"
	"github.com/google/uuid"
)

// EventType names an article lifecycle change.
type EventType string

const (
	EventArticleCreated EventType = "article.created"
	EventArticleUpdated EventType = "article.updated"
	EventArticleDeleted EventType = "article.deleted"
)

// ArticleEvent describes a committed mutation.
type ArticleEvent struct {
	ID         string     `json:"id"`
	Type       EventType  `json:"type"`
	OccurredAt time.Time  `json:"occurredAt"`
	ActorID    int64      `json:"actorId,omitempty"`
	Article    ArticleDTO `json:"article"`
}

// NewArticleEvent stamps a new event with a fresh id.
func NewArticleEvent(t EventType, actorID int64, article ArticleDTO, at time.Time) ArticleEvent {
	return ArticleEvent{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: at.UTC(),
		ActorID:    actorID,
		Article:    article,
	}
}

// EventPublisher hands article events to a downstream transport.
type EventPublisher interface {
	Publish(ctx context.Context, event ArticleEvent) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ArticleEvent) error { return nil }

type messagePublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// TopicPublisher encodes events as JSON and sends them to a message topic.
type TopicPublisher struct {
	topic   messagePublisher
	metrics *metrics.EventMetrics
	logg    *logger.Logger
}

// NewTopicPublisher wraps a topic client such as *pubsub.Client.
func NewTopicPublisher(topic messagePublisher, m *metrics.EventMetrics, logg *logger.Logger) *TopicPublisher {
	return &TopicPublisher{topic: topic, metrics: m, logg: logg}
}

// Publish sends the event and waits for the broker acknowledgement.
func (p *TopicPublisher) Publish(ctx context.Context, event ArticleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode article event: %w", err)
	}
	attrs := map[string]string{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"article_id": strconv.FormatInt(event.Article.ID, 10),
	}
	msgID, err := p.topic.Publish(ctx, payload, attrs)
	if err != nil {
		p.metrics.IncFailed(string(event.Type))
		return err
	}
	p.metrics.IncPublished(string(event.Type))
	if p.logg != nil {
		p.logg.Debug(p.logg.WithFields(ctx, map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
			"message_id": msgID,
		}), "article event published")
	}
	return nil
}
