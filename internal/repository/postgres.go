package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/climatehub/climate_incident_hub/internal/models"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIncidentRepository - опциональное долговременное хранилище,
// включается через DATABASE_URL. Контракт тот же, что у in-memory реализации.
type PostgresIncidentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &PostgresIncidentRepository{
		db: db,
	}
}

const incidentColumns = `
	id,
	type,
	severity,
	description,
	lat,
	lng,
	photo,
	district,
	state,
	reported_by,
	phone,
	status,
	reported_at
`

// Create создает новую запись об инциденте в бд
func (r *PostgresIncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (id, type, severity, description, lat, lng, photo, district, state, reported_by, phone, status, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		incident.ID,
		incident.Type,
		incident.Severity,
		incident.Description,
		incident.Lat,
		incident.Lng,
		incident.Photo,
		incident.District,
		incident.State,
		incident.ReportedBy,
		incident.Phone,
		incident.Status,
		incident.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *PostgresIncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident := &models.Incident{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Type,
		&incident.Severity,
		&incident.Description,
		&incident.Lat,
		&incident.Lng,
		&incident.Photo,
		&incident.District,
		&incident.State,
		&incident.ReportedBy,
		&incident.Phone,
		&incident.Status,
		&incident.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// ListAll возвращает всю коллекцию, новые первыми
func (r *PostgresIncidentRepository) ListAll(ctx context.Context) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY reported_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// ListByDistrict возвращает инциденты района без учёта регистра,
// пустой район и "All" эквивалентны ListAll
func (r *PostgresIncidentRepository) ListByDistrict(ctx context.Context, district string) ([]*models.Incident, error) {
	if models.DistrictMatches(district, "") {
		return r.ListAll(ctx)
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE LOWER(district) = LOWER($1) ORDER BY reported_at DESC;`

	rows, err := r.db.Query(ctx, query, district)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by district: %w", err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// MarkResolved устанавливает статус Resolved и возвращает обновлённую запись
func (r *PostgresIncidentRepository) MarkResolved(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `UPDATE incidents SET status = $1 WHERE id = $2;`

	cmdTag, err := r.db.Exec(ctx, query, models.StatusResolved, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("incident with id %s not found for resolve: %w", id, service.ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

// Delete окончательно удаляет инцидент
func (r *PostgresIncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM incidents WHERE id = $1;`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}

func scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Type,
			&incident.Severity,
			&incident.Description,
			&incident.Lat,
			&incident.Lng,
			&incident.Photo,
			&incident.District,
			&incident.State,
			&incident.ReportedBy,
			&incident.Phone,
			&incident.Status,
			&incident.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}
