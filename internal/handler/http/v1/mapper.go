package v1

import "github.com/shenikar/disaster_response_system/internal/models"

// DTOToIncidentModel преобразует DTO создания в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	return &models.Incident{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Type:        models.DisasterType(dto.Type),
		Status:      models.IncidentStatus(dto.Status),
		Severity:    models.SeverityLevel(dto.Severity),
		Location: models.Coordinates{
			Latitude:  *dto.Location.Latitude,
			Longitude: *dto.Location.Longitude,
		},
		Timestamp:         *dto.Timestamp,
		ReporterName:      dto.ReporterName,
		AIAnalysis:        dto.AIAnalysis,
		ImageURL:          dto.ImageURL,
		DeployedResources: dto.DeployedResources,
	}
}

// DTOToIncidentUpdate преобразует DTO обновления в частичное обновление модели
func DTOToIncidentUpdate(dto UpdateIncidentRequest) models.IncidentUpdate {
	upd := models.IncidentUpdate{
		DeployedResources: dto.DeployedResources,
	}
	if dto.Status != nil {
		status := models.IncidentStatus(*dto.Status)
		upd.Status = &status
	}
	return upd
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resources := model.DeployedResources
	if resources == nil {
		resources = []string{}
	}
	return &IncidentResponse{
		ID:                model.ID,
		Title:             model.Title,
		Description:       model.Description,
		Type:              string(model.Type),
		Status:            string(model.Status),
		Severity:          string(model.Severity),
		Location:          model.Location,
		Timestamp:         model.Timestamp,
		ReporterName:      model.ReporterName,
		AIAnalysis:        model.AIAnalysis,
		ImageURL:          model.ImageURL,
		DeployedResources: resources,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}
