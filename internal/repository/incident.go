package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/shenikar/disaster_response_system/internal/service"
)

const incidentListCacheKey = "incidents:list"

type IncidentRepository struct {
	db           *pgxpool.Pool
	redisClient  *redis.Client
	listCacheTTL time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, listCacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:           db,
		redisClient:  redisClient,
		listCacheTTL: listCacheTTL,
	}
}

// Create вставляет новую запись об инциденте.
// Нарушение первичного ключа по id возвращается как models.ErrDuplicateID,
// существующая запись при этом не изменяется.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	resources, err := json.Marshal(incident.DeployedResources)
	if err != nil {
		return fmt.Errorf("failed to marshal deployed resources: %w", err)
	}

	query := `
		INSERT INTO incidents
			(id, title, description, type, status, severity, latitude, longitude, timestamp, reporter_name, ai_analysis, image_url, deployed_resources)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.db.Exec(ctx, query,
		incident.ID,
		incident.Title,
		incident.Description,
		incident.Type,
		incident.Status,
		incident.Severity,
		incident.Location.Latitude,
		incident.Location.Longitude,
		incident.Timestamp,
		incident.ReporterName,
		incident.AIAnalysis,
		incident.ImageURL,
		string(resources),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("incident %s: %w", incident.ID, models.ErrDuplicateID)
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// List возвращает все инциденты, новые первыми. Без пагинации - контракт отдает полный набор.
func (r *IncidentRepository) List(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT
			id,
			title,
			description,
			type,
			status,
			severity,
			latitude,
			longitude,
			timestamp,
			reporter_name,
			ai_analysis,
			image_url,
			deployed_resources
		FROM incidents
		ORDER BY timestamp DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		var resourcesRaw string
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.Type,
			&incident.Status,
			&incident.Severity,
			&incident.Location.Latitude,
			&incident.Location.Longitude,
			&incident.Timestamp,
			&incident.ReporterName,
			&incident.AIAnalysis,
			&incident.ImageURL,
			&resourcesRaw,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incident.DeployedResources, err = decodeResources(resourcesRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode deployed resources for %s: %w", incident.ID, err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateFields обновляет только мутабельные поля (status, deployed_resources)
// и возвращает число затронутых строк. Неизвестный id дает 0 без ошибки.
func (r *IncidentRepository) UpdateFields(ctx context.Context, id string, upd models.IncidentUpdate) (int64, error) {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}

	var resources *string
	if upd.DeployedResources != nil {
		encoded, err := json.Marshal(*upd.DeployedResources)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal deployed resources: %w", err)
		}
		s := string(encoded)
		resources = &s
	}

	query := `
		UPDATE incidents SET
			status = COALESCE($1, status),
			deployed_resources = COALESCE($2, deployed_resources)
		WHERE id = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, resources, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update incident: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// GetStats возвращает агрегаты по статусам и серьезности для дашборда
func (r *IncidentRepository) GetStats(ctx context.Context) (*models.IncidentStats, error) {
	query := `
		SELECT status, severity, COUNT(*)
		FROM incidents
		GROUP BY status, severity;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident stats: %w", err)
	}
	defer rows.Close()

	stats := &models.IncidentStats{
		ByStatus:   make(map[models.IncidentStatus]int),
		BySeverity: make(map[models.SeverityLevel]int),
	}
	for rows.Next() {
		var status models.IncidentStatus
		var severity models.SeverityLevel
		var count int
		if err := rows.Scan(&status, &severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.BySeverity[severity] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error stats iteration: %w", err)
	}
	return stats, nil
}

// GetListFromCache пытается получить полный список инцидентов из Redis
func (r *IncidentRepository) GetListFromCache(ctx context.Context) ([]*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident list from cache: %w", err)
	}

	incidents := make([]*models.Incident, 0)
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident list from cache: %w", err)
	}
	return incidents, nil
}

// SetListCache сохраняет список инцидентов в Redis
func (r *IncidentRepository) SetListCache(ctx context.Context, incidents []*models.Incident) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incident list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentListCacheKey, val, r.listCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident list in cache: %w", err)
	}
	return nil
}

// InvalidateListCache удаляет список инцидентов из Redis кэша
func (r *IncidentRepository) InvalidateListCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, incidentListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident list cache: %w", err)
	}
	return nil
}

// decodeResources разбирает сериализованный столбец deployed_resources.
// Пустое значение читается как пустая последовательность, не nil.
func decodeResources(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	resources := make([]string, 0)
	if err := json.Unmarshal([]byte(raw), &resources); err != nil {
		return nil, err
	}
	return resources, nil
}
