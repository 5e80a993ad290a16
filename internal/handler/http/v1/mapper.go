package v1

import "github.com/climatehub/climate_incident_hub/internal/models"

// DTOToIncidentModel преобразует DTO сообщения об инциденте в доменную модель.
// Значения по умолчанию проставляет сервис, не хэндлер.
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:        dto.Type,
		Severity:    models.Severity(dto.Severity),
		Description: dto.Description,
		Lat:         dto.Lat,
		Lng:         dto.Lng,
		Photo:       dto.Photo,
		District:    dto.District,
		State:       dto.State,
		ReportedBy:  dto.ReportedBy,
		Phone:       dto.Phone,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		Type:        model.Type,
		Severity:    string(model.Severity),
		Description: model.Description,
		Lat:         model.Lat,
		Lng:         model.Lng,
		Photo:       model.Photo,
		District:    model.District,
		State:       model.State,
		ReportedBy:  model.ReportedBy,
		Phone:       model.Phone,
		Status:      string(model.Status),
		Timestamp:   model.Timestamp,
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
