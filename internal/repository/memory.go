package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/google/uuid"
)

// MemoryIncidentRepository - каноническое процесс-локальное хранилище инцидентов.
// Коллекция живёт только в памяти процесса и упорядочена от новых к старым.
// Один мьютекс сериализует все операции, поскольку HTTP-запросы приходят параллельно.
type MemoryIncidentRepository struct {
	mu        sync.Mutex
	incidents []*models.Incident
}

func NewMemoryIncidentRepository() *MemoryIncidentRepository {
	return &MemoryIncidentRepository{
		incidents: make([]*models.Incident, 0),
	}
}

// Create вставляет инцидент в начало коллекции
func (r *MemoryIncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *incident
	r.incidents = append([]*models.Incident{&stored}, r.incidents...)
	return nil
}

// GetByID возвращает копию инцидента по его UUID
func (r *MemoryIncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inc := range r.incidents {
		if inc.ID == id {
			found := *inc
			return &found, nil
		}
	}
	return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
}

// ListAll возвращает всю коллекцию, новые первыми
func (r *MemoryIncidentRepository) ListAll(ctx context.Context) ([]*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot(""), nil
}

// ListByDistrict возвращает инциденты, чей район совпадает с district без учёта регистра.
// Пустой district или сентинел "All" эквивалентны ListAll.
func (r *MemoryIncidentRepository) ListByDistrict(ctx context.Context, district string) ([]*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot(district), nil
}

// MarkResolved устанавливает статус Resolved. Операция идемпотентна.
func (r *MemoryIncidentRepository) MarkResolved(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inc := range r.incidents {
		if inc.ID == id {
			inc.Status = models.StatusResolved
			resolved := *inc
			return &resolved, nil
		}
	}
	return nil, fmt.Errorf("incident with id %s not found for resolve: %w", id, service.ErrNotFound)
}

// Delete окончательно удаляет инцидент из коллекции
func (r *MemoryIncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, inc := range r.incidents {
		if inc.ID == id {
			r.incidents = append(r.incidents[:i], r.incidents[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("incident with id %s not found for delete: %w", id, service.ErrNotFound)
}

// snapshot копирует коллекцию, чтобы вызывающий код не видел последующих мутаций.
// Вызывается только под мьютексом.
func (r *MemoryIncidentRepository) snapshot(district string) []*models.Incident {
	result := make([]*models.Incident, 0, len(r.incidents))
	for _, inc := range r.incidents {
		if !models.DistrictMatches(district, inc.District) {
			continue
		}
		copied := *inc
		result = append(result, &copied)
	}
	return result
}
