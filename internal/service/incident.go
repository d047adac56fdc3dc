package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/disaster_response_system/internal/config"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/shenikar/disaster_response_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	List(ctx context.Context) ([]*models.Incident, error)
	UpdateFields(ctx context.Context, id string, upd models.IncidentUpdate) (int64, error)
	GetStats(ctx context.Context) (*models.IncidentStats, error)
	GetListFromCache(ctx context.Context) ([]*models.Incident, error)
	SetListCache(ctx context.Context, incidents []*models.Incident) error
	InvalidateListCache(ctx context.Context) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	CreateIncident(ctx context.Context, incident *models.Incident) error
	UpdateIncident(ctx context.Context, id string, upd models.IncidentUpdate) (int64, error)
	GetStats(ctx context.Context) (*models.IncidentStats, error)
}

type incidentService struct {
	repo           IncidentRepository
	logger         *logrus.Logger
	cfg            *config.Config
	alertPublisher webhook.AlertPublisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, alertPublisher webhook.AlertPublisher) IncidentService {
	return &incidentService{
		repo:           repo,
		logger:         logger,
		cfg:            cfg,
		alertPublisher: alertPublisher,
	}
}

// ListIncidents возвращает полный список инцидентов, новые первыми.
// Сначала пробуем кэш; любая ошибка кэша деградирует до чтения из БД.
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	cached, err := s.repo.GetListFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident list from cache, falling back to DB")
	}
	if cached != nil {
		log.WithField("count", len(cached)).Debug("Incident list served from cache")
		return cached, nil
	}

	incidents, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	if err := s.repo.SetListCache(ctx, incidents); err != nil {
		log.WithError(err).Warn("Failed to cache incident list")
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// CreateIncident создает инцидент. Пустым полям назначаются значения по умолчанию:
// id - серверный UUID (защита от коллизий клиентских id), статус Pending,
// серьезность Medium, ресурсы - пустая последовательность.
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"title":   incident.Title,
	})
	log.Info("Attempting to create a new incident")

	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	if incident.Status == "" {
		incident.Status = models.StatusPending
	}
	if incident.Severity == "" {
		incident.Severity = models.SeverityMedium
	}
	if incident.DeployedResources == nil {
		incident.DeployedResources = []string{}
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	if err := s.repo.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	// Инциденты высокой серьезности уходят в очередь оповещений.
	// Сбой публикации не должен ронять создание отчета.
	if incident.Severity == models.SeverityHigh || incident.Severity == models.SeverityCritical {
		event := webhook.AlertEvent{
			IncidentID:   incident.ID,
			Title:        incident.Title,
			Type:         incident.Type,
			Severity:     incident.Severity,
			Location:     incident.Location,
			ReporterName: incident.ReporterName,
			Timestamp:    time.Now().UTC(),
			Incident:     incident,
		}
		if err := s.alertPublisher.Publish(ctx, event); err != nil {
			log.WithError(err).Error("Failed to publish incident alert")
		}
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// UpdateIncident сохраняет только мутабельные поля и возвращает число затронутых строк.
// Неизвестный id - это 0 затронутых строк, не ошибка.
func (s *incidentService) UpdateIncident(ctx context.Context, id string, upd models.IncidentUpdate) (int64, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to update incident")

	changes, err := s.repo.UpdateFields(ctx, id, upd)
	if err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return 0, fmt.Errorf("service: could not update incident: %w", err)
	}

	if changes == 0 {
		log.Warn("Update targeted an unknown incident id")
		return 0, nil
	}

	if err := s.repo.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	log.WithField("changes", changes).Info("Incident updated successfully")
	return changes, nil
}

// GetStats возвращает агрегаты по инцидентам для дашборда
func (s *incidentService) GetStats(ctx context.Context) (*models.IncidentStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetStats",
	})
	log.Info("Fetching incident stats")

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get incident stats from repository")
		return nil, fmt.Errorf("service: could not get incident stats: %w", err)
	}
	return stats, nil
}
