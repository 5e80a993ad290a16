package repository

import (
	"context"
	"testing"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStoredIncident — вспомогательная функция для вставки инцидента с заданным районом
func newStoredIncident(t *testing.T, repo *MemoryIncidentRepository, district string) *models.Incident {
	t.Helper()
	incident := &models.Incident{
		ID:          uuid.New(),
		Type:        "Flood",
		Severity:    models.SeverityMedium,
		Description: "test incident",
		Lat:         1,
		Lng:         1,
		District:    district,
		Status:      models.StatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), incident))
	return incident
}

func TestMemoryRepo_NewestFirstOrdering(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	first := newStoredIncident(t, repo, "Delhi")
	second := newStoredIncident(t, repo, "Mumbai")
	third := newStoredIncident(t, repo, "Delhi")

	// Действие
	incidents, err := repo.ListAll(context.Background())

	// Проверки: последний созданный - первый в списке
	require.NoError(t, err)
	require.Len(t, incidents, 3)
	assert.Equal(t, third.ID, incidents[0].ID)
	assert.Equal(t, second.ID, incidents[1].ID)
	assert.Equal(t, first.ID, incidents[2].ID)
}

func TestMemoryRepo_ListByDistrict_SentinelsEqualListAll(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	newStoredIncident(t, repo, "Delhi")
	newStoredIncident(t, repo, "Mumbai")

	ctx := context.Background()

	// Действие
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)

	bySentinel, err := repo.ListByDistrict(ctx, models.DistrictAll)
	require.NoError(t, err)

	byEmpty, err := repo.ListByDistrict(ctx, "")
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, all, bySentinel)
	assert.Equal(t, all, byEmpty)
}

func TestMemoryRepo_ListByDistrict_CaseInsensitive(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	delhi := newStoredIncident(t, repo, "Delhi")
	newStoredIncident(t, repo, "Mumbai")

	ctx := context.Background()

	for _, query := range []string{"Delhi", "delhi", "DELHI"} {
		// Действие
		incidents, err := repo.ListByDistrict(ctx, query)

		// Проверки
		require.NoError(t, err)
		require.Len(t, incidents, 1, "query %q", query)
		assert.Equal(t, delhi.ID, incidents[0].ID)
	}
}

func TestMemoryRepo_GetByID(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	stored := newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие
	found, err := repo.GetByID(ctx, stored.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)

	// Неизвестный id
	_, err = repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMemoryRepo_MarkResolved_Idempotent(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	stored := newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие: первый resolve
	resolved, err := repo.MarkResolved(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)

	// Действие: повторный resolve не ошибка
	again, err := repo.MarkResolved(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, again.Status)
}

func TestMemoryRepo_MarkResolved_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие
	_, err := repo.MarkResolved(ctx, uuid.New())

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)

	incidents, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, models.StatusOpen, incidents[0].Status)
}

func TestMemoryRepo_Delete_RemovesExactlyOne(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	first := newStoredIncident(t, repo, "Delhi")
	second := newStoredIncident(t, repo, "Mumbai")
	third := newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие
	require.NoError(t, repo.Delete(ctx, second.ID))

	// Проверки: порядок остальных не изменился
	incidents, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, third.ID, incidents[0].ID)
	assert.Equal(t, first.ID, incidents[1].ID)
}

func TestMemoryRepo_Delete_NotFound(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие
	err := repo.Delete(ctx, uuid.New())

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)

	incidents, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, incidents, 1)
}

func TestMemoryRepo_ListReturnsCopies(t *testing.T) {
	// Подготовка
	repo := NewMemoryIncidentRepository()
	stored := newStoredIncident(t, repo, "Delhi")
	ctx := context.Background()

	// Действие: мутируем выданную копию
	incidents, err := repo.ListAll(ctx)
	require.NoError(t, err)
	incidents[0].Status = models.StatusResolved

	// Проверки: хранилище не затронуто
	fresh, err := repo.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, fresh.Status)
}
