package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	StatusOpen     IncidentStatus = "Open"
	StatusResolved IncidentStatus = "Resolved"
)

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// DistrictAll - сентинел области видимости, означающий доступ ко всем районам
const DistrictAll = "All"

// Значения по умолчанию для необязательных полей инцидента
const (
	DefaultDistrict   = "Unknown"
	DefaultState      = "Unknown"
	DefaultReportedBy = "Anonymous"
	DefaultPhone      = "N/A"
)

type Incident struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Lat         float64        `json:"lat"`
	Lng         float64        `json:"lng"`
	Photo       *string        `json:"photo"`
	District    string         `json:"district"`
	State       string         `json:"state"`
	ReportedBy  string         `json:"reportedBy"`
	Phone       string         `json:"phone"`
	Status      IncidentStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
}

// DistrictMatches сообщает, покрывает ли область scope район district.
// Пустая область или сентинел "All" покрывает всё, иначе сравнение без учёта регистра.
// Единая точка сравнения для фильтрации списка и проверок resolve/delete.
func DistrictMatches(scope, district string) bool {
	if scope == "" || strings.EqualFold(scope, DistrictAll) {
		return true
	}
	return strings.EqualFold(scope, district)
}
