package v1

import "github.com/shenikar/disaster_response_system/internal/models"

// LocationDTO координаты на проводе: {latitude, longitude}
// @Description Координаты места инцидента
type LocationDTO struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// CreateIncidentRequest DTO для создания инцидента.
// Перечисления проверяются на границе, некорректные значения отклоняются, а не приводятся.
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	ID                string       `json:"id" validate:"omitempty,max=64"`
	Title             string       `json:"title" validate:"required,min=2,max=255"`
	Description       string       `json:"description" validate:"required"`
	Type              string       `json:"type" validate:"required,oneof=Flood Fire 'Road Accident' Earthquake Drought Landslide Other"`
	Status            string       `json:"status" validate:"omitempty,oneof=Pending Investigating Resolved"`
	Severity          string       `json:"severity" validate:"omitempty,oneof=Low Medium High Critical"`
	Location          *LocationDTO `json:"location" validate:"required"`
	Timestamp         *int64       `json:"timestamp" validate:"required,gt=0"`
	ReporterName      string       `json:"reporterName" validate:"required,max=255"`
	AIAnalysis        string       `json:"aiAnalysis"`
	ImageURL          string       `json:"imageUrl"`
	DeployedResources []string     `json:"deployedResources"`
}

// UpdateIncidentRequest DTO для частичного обновления: только два мутабельных поля.
// Остальные поля тела игнорируются.
// @Description DTO для обновления инцидента
type UpdateIncidentRequest struct {
	Status            *string   `json:"status" validate:"omitempty,oneof=Pending Investigating Resolved"`
	DeployedResources *[]string `json:"deployedResources"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Type              string             `json:"type"`
	Status            string             `json:"status"`
	Severity          string             `json:"severity"`
	Location          models.Coordinates `json:"location"`
	Timestamp         int64              `json:"timestamp"`
	ReporterName      string             `json:"reporterName"`
	AIAnalysis        string             `json:"aiAnalysis,omitempty"`
	ImageURL          string             `json:"imageUrl,omitempty"`
	DeployedResources []string           `json:"deployedResources"`
}

// LoginRequest DTO для входа в систему
// @Description DTO для входа в систему
type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof=ADMIN CITIZEN"`
	Name     string `json:"name" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"omitempty,max=255"`
}

// LoginResponse DTO с токеном сессии и идентичностью
// @Description DTO с токеном сессии и идентичностью
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AnalyzeReportRequest DTO для классификации отчета
// @Description DTO для классификации отчета
type AnalyzeReportRequest struct {
	Description string `json:"description" validate:"required"`
	ImageBase64 string `json:"imageBase64"`
}

// ResourceLookupRequest DTO для поиска ближайших ресурсов
// @Description DTO для поиска ближайших ресурсов
type ResourceLookupRequest struct {
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	FacilityType string   `json:"facilityType" validate:"required,max=255"`
}
