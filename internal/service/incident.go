package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/webhook"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListAll(ctx context.Context) ([]*models.Incident, error)
	ListByDistrict(ctx context.Context, district string) ([]*models.Incident, error)
	MarkResolved(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт для бизнес-логики жизненного цикла инцидентов
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident) error
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	ListIncidentsForAdmin(ctx context.Context, adminDistrict string) ([]*models.Incident, error)
	ResolveIncident(ctx context.Context, id uuid.UUID, adminDistrict string) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id uuid.UUID, adminDistrict string) error
	GetInsights(ctx context.Context) (*models.InsightsReport, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher webhook.WebhookPublisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher webhook.WebhookPublisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// ReportIncident принимает публичное сообщение об инциденте.
// Проставляет значения по умолчанию, id и серверную метку времени,
// статус всегда Open.
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ReportIncident",
		"type":    incident.Type,
	})

	if incident.Type == "" || incident.Description == "" || incident.Lat == 0 || incident.Lng == 0 {
		log.Warn("Rejected incident report with missing required fields")
		return fmt.Errorf("service: %w", ErrValidation)
	}

	incident.ID = uuid.New()
	incident.Status = models.StatusOpen
	incident.Timestamp = time.Now().UTC()
	if incident.Severity == "" {
		incident.Severity = models.SeverityMedium
	}
	if incident.District == "" {
		incident.District = models.DefaultDistrict
	}
	if incident.State == "" {
		incident.State = models.DefaultState
	}
	if incident.ReportedBy == "" {
		incident.ReportedBy = models.DefaultReportedBy
	}
	if incident.Phone == "" {
		incident.Phone = models.DefaultPhone
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	s.publish(ctx, webhook.EventIncidentReported, incident)
	return nil
}

// ListIncidents возвращает полную коллекцию для публичной ленты, новые первыми
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed")
	return incidents, nil
}

// ListIncidentsForAdmin возвращает инциденты в пределах области видимости администратора
func (s *incidentService) ListIncidentsForAdmin(ctx context.Context, adminDistrict string) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "ListIncidentsForAdmin",
		"district": adminDistrict,
	})

	incidents, err := s.repo.ListByDistrict(ctx, adminDistrict)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents by district from repository")
		return nil, fmt.Errorf("service: could not list incidents by district: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Admin incidents listed")
	return incidents, nil
}

// ResolveIncident переводит инцидент в статус Resolved.
// Порядок проверок фиксированный: сначала существование (404), потом область видимости (403).
// Повторный resolve уже решённого инцидента не считается ошибкой.
func (s *incidentService) ResolveIncident(ctx context.Context, id uuid.UUID, adminDistrict string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ResolveIncident",
		"incident_id": id,
		"district":    adminDistrict,
	})

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to resolve a non-existent incident")
		return nil, fmt.Errorf("service: incident %s not found for resolve: %w", id, err)
	}

	if !models.DistrictMatches(adminDistrict, existing.District) {
		log.Warn("District scope mismatch on resolve")
		return nil, fmt.Errorf("service: %w", ErrDistrictForbidden)
	}

	resolved, err := s.repo.MarkResolved(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to mark incident resolved in repository")
		return nil, fmt.Errorf("service: could not resolve incident: %w", err)
	}

	log.Info("Incident resolved successfully")
	s.publish(ctx, webhook.EventIncidentResolved, resolved)
	return resolved, nil
}

// DeleteIncident окончательно удаляет инцидент, с той же проверкой области, что и resolve
func (s *incidentService) DeleteIncident(ctx context.Context, id uuid.UUID, adminDistrict string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
		"district":    adminDistrict,
	})

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent incident")
		return fmt.Errorf("service: incident %s not found for delete: %w", id, err)
	}

	if !models.DistrictMatches(adminDistrict, existing.District) {
		log.Warn("District scope mismatch on delete")
		return fmt.Errorf("service: %w", ErrDistrictForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	log.Info("Incident deleted successfully")
	return nil
}

// GetInsights строит агрегированную сводку по всей коллекции
func (s *incidentService) GetInsights(ctx context.Context) (*models.InsightsReport, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetInsights",
	})

	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents for insights")
		return nil, fmt.Errorf("service: could not build insights: %w", err)
	}

	report := &models.InsightsReport{
		Total:      len(incidents),
		ByType:     make(map[string]int),
		BySeverity: make(map[string]int),
		ByDistrict: make(map[string]int),
	}

	for _, inc := range incidents {
		report.ByType[inc.Type]++
		report.BySeverity[string(inc.Severity)]++
		report.ByDistrict[inc.District]++
		if inc.Status == models.StatusResolved {
			report.Resolved++
		} else {
			report.Open++
		}
	}

	report.TopType = topKey(report.ByType)
	report.Summary = buildSummary(report)

	log.WithField("total", report.Total).Debug("Insights built")
	return report, nil
}

// topKey возвращает ключ с наибольшим счётчиком, при равенстве - лексикографически меньший
func topKey(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func buildSummary(report *models.InsightsReport) string {
	if report.Total == 0 {
		return "No incidents reported in the monitored period. Environmental conditions appear stable."
	}

	trend := "Moderate activity levels."
	if report.Total > 3 {
		trend = "High activity detected."
	}

	return fmt.Sprintf(
		"A total of %d climate incidents have been reported. The data indicates a prevalence of %s events (%d reports). %s Monitor local weather alerts and deploy resources to high-frequency zones.",
		report.Total, report.TopType, report.ByType[report.TopType], trend,
	)
}

// publish ставит событие в очередь вебхуков. Ошибка публикации не должна
// проваливать исходный запрос, поэтому только логируется.
func (s *incidentService) publish(ctx context.Context, eventType string, incident *models.Incident) {
	event := webhook.WebhookEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Incident:  incident,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("Failed to publish webhook event")
	}
}
