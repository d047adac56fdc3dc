package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/disaster_response_system/internal/models"
)

const (
	alertQueueKey = "incident_alerts"
)

// AlertEvent - событие оповещения о серьезном инциденте
type AlertEvent struct {
	IncidentID   string               `json:"incident_id"`
	Title        string               `json:"title"`
	Type         models.DisasterType  `json:"type"`
	Severity     models.SeverityLevel `json:"severity"`
	Location     models.Coordinates   `json:"location"`
	ReporterName string               `json:"reporter_name"`
	Timestamp    time.Time            `json:"timestamp"`
	Incident     *models.Incident     `json:"incident,omitempty"`
}

// AlertPublisher - интерфейс для публикации оповещений
type AlertPublisher interface {
	Publish(ctx context.Context, event AlertEvent) error
}

// RedisAlertPublisher - реализация AlertPublisher, использующая Redis
type RedisAlertPublisher struct {
	redisClient *redis.Client
}

// NewRedisAlertPublisher создает новый RedisAlertPublisher
func NewRedisAlertPublisher(client *redis.Client) *RedisAlertPublisher {
	return &RedisAlertPublisher{
		redisClient: client,
	}
}

// Publish публикует событие оповещения в очередь Redis
func (p *RedisAlertPublisher) Publish(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert event to Redis: %w", err)
	}
	return nil
}
