package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/service/mocks"
	"github.com/climatehub/climate_incident_hub/internal/webhook"
	webhook_mocks "github.com/climatehub/climate_incident_hub/internal/webhook/mocks"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *webhook_mocks.MockWebhookPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	webhookMock := webhook_mocks.NewMockWebhookPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(repoMock, logger, webhookMock)
	return service.(*incidentService), repoMock, webhookMock
}

func TestReportIncident_Success_AppliesDefaults(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		Type:        "Flood",
		Description: "Water rising near the embankment",
		Lat:         51.5,
		Lng:         -0.09,
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(nil).
		Times(1)

	webhookMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event webhook.WebhookEvent) {
			assert.Equal(t, webhook.EventIncidentReported, event.Type)
			assert.Equal(t, incident, event.Incident)
		}).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, incident.ID)
	assert.Equal(t, models.StatusOpen, incident.Status)
	assert.Equal(t, models.SeverityMedium, incident.Severity)
	assert.Equal(t, models.DefaultDistrict, incident.District)
	assert.Equal(t, models.DefaultState, incident.State)
	assert.Equal(t, models.DefaultReportedBy, incident.ReportedBy)
	assert.Equal(t, models.DefaultPhone, incident.Phone)
	assert.WithinDuration(t, time.Now().UTC(), incident.Timestamp, 5*time.Second)
}

func TestReportIncident_KeepsProvidedOptionalFields(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	photo := "base64-payload"
	incident := &models.Incident{
		Type:        "Heatwave",
		Severity:    models.SeverityCritical,
		Description: "42C recorded downtown",
		Lat:         28.6,
		Lng:         77.2,
		Photo:       &photo,
		District:    "Delhi",
		State:       "Delhi NCR",
		ReportedBy:  "Field reporter",
		Phone:       "+91-555",
	}

	// Ожидания
	repoMock.EXPECT().Create(ctx, incident).Return(nil).Times(1)
	webhookMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCritical, incident.Severity)
	assert.Equal(t, "Delhi", incident.District)
	assert.Equal(t, "Field reporter", incident.ReportedBy)
	assert.Equal(t, &photo, incident.Photo)
}

func TestReportIncident_ValidationError(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		Type: "Flood",
		Lat:  51.5,
		Lng:  -0.09,
		// Description отсутствует
	}

	// Ожидания: ни хранилище, ни издатель не трогаются
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	webhookMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportIncident_UniqueIDs(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)
	webhookMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(2)

	first := &models.Incident{Type: "Storm", Description: "x", Lat: 1, Lng: 1}
	second := &models.Incident{Type: "Storm", Description: "x", Lat: 1, Lng: 1}

	// Действие
	require.NoError(t, service.ReportIncident(ctx, first))
	require.NoError(t, service.ReportIncident(ctx, second))

	// Проверки
	assert.NotEqual(t, first.ID, second.ID)
}

func TestReportIncident_PublishFailureDoesNotFailRequest(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{Type: "Wildfire", Description: "smoke", Lat: 1, Lng: 2}

	repoMock.EXPECT().Create(ctx, incident).Return(nil).Times(1)
	webhookMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
}

func TestListIncidents_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{
		{ID: uuid.New(), Type: "Flood"},
		{ID: uuid.New(), Type: "Storm"},
	}

	// Ожидания
	repoMock.EXPECT().ListAll(ctx).Return(expected, nil).Times(1)

	// Действие
	incidents, err := service.ListIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestListIncidentsForAdmin_DelegatesDistrict(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{{ID: uuid.New(), District: "Delhi"}}

	// Ожидания
	repoMock.EXPECT().ListByDistrict(ctx, "Delhi").Return(expected, nil).Times(1)

	// Действие
	incidents, err := service.ListIncidentsForAdmin(ctx, "Delhi")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestResolveIncident_Success_CaseInsensitiveDistrict(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, District: "Delhi", Status: models.StatusOpen}
	resolved := &models.Incident{ID: incidentID, District: "Delhi", Status: models.StatusResolved}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existing, nil).Times(1)
	repoMock.EXPECT().MarkResolved(ctx, incidentID).Return(resolved, nil).Times(1)
	webhookMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event webhook.WebhookEvent) {
			assert.Equal(t, webhook.EventIncidentResolved, event.Type)
		}).Return(nil).Times(1)

	// Действие: область видимости в другом регистре
	result, err := service.ResolveIncident(ctx, incidentID, "delhi")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, result.Status)
}

func TestResolveIncident_AllScope(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, District: "Mumbai", Status: models.StatusOpen}
	resolved := &models.Incident{ID: incidentID, District: "Mumbai", Status: models.StatusResolved}

	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existing, nil).Times(1)
	repoMock.EXPECT().MarkResolved(ctx, incidentID).Return(resolved, nil).Times(1)
	webhookMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	result, err := service.ResolveIncident(ctx, incidentID, models.DistrictAll)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, result.Status)
}

func TestResolveIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания: проверка существования идёт раньше проверки области
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, ErrNotFound)).
		Times(1)
	repoMock.EXPECT().MarkResolved(gomock.Any(), gomock.Any()).Times(0)
	webhookMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.ResolveIncident(ctx, incidentID, "Mumbai")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveIncident_DistrictForbidden(t *testing.T) {
	// Подготовка
	service, repoMock, webhookMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, District: "Delhi", Status: models.StatusOpen}

	// Ожидания: мутация не выполняется
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existing, nil).Times(1)
	repoMock.EXPECT().MarkResolved(gomock.Any(), gomock.Any()).Times(0)
	webhookMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.ResolveIncident(ctx, incidentID, "Mumbai")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDistrictForbidden)
}

func TestDeleteIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, District: "Delhi"}

	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existing, nil).Times(1)
	repoMock.EXPECT().Delete(ctx, incidentID).Return(nil).Times(1)

	// Действие
	err := service.DeleteIncident(ctx, incidentID, "Delhi")

	// Проверки
	require.NoError(t, err)
}

func TestDeleteIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, ErrNotFound)).
		Times(1)
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.DeleteIncident(ctx, incidentID, models.DistrictAll)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIncident_DistrictForbidden(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	existing := &models.Incident{ID: incidentID, District: "Delhi"}

	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existing, nil).Times(1)
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.DeleteIncident(ctx, incidentID, "Mumbai")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDistrictForbidden)
}

func TestGetInsights_AggregatesCollection(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidents := []*models.Incident{
		{Type: "Flood", Severity: models.SeverityCritical, District: "Delhi", Status: models.StatusOpen},
		{Type: "Flood", Severity: models.SeverityHigh, District: "Mumbai", Status: models.StatusResolved},
		{Type: "Storm", Severity: models.SeverityMedium, District: "Delhi", Status: models.StatusOpen},
	}

	repoMock.EXPECT().ListAll(ctx).Return(incidents, nil).Times(1)

	// Действие
	report, err := service.GetInsights(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Open)
	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, 2, report.ByType["Flood"])
	assert.Equal(t, 1, report.ByType["Storm"])
	assert.Equal(t, 2, report.ByDistrict["Delhi"])
	assert.Equal(t, "Flood", report.TopType)
	assert.Contains(t, report.Summary, "3 climate incidents")
	assert.Contains(t, report.Summary, "Flood")
}

func TestGetInsights_EmptyCollection(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().ListAll(ctx).Return([]*models.Incident{}, nil).Times(1)

	// Действие
	report, err := service.GetInsights(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.TopType)
	assert.Contains(t, report.Summary, "No incidents reported")
}
