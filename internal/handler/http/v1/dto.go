package v1

import (
	"time"

	"github.com/google/uuid"
)

// AdminLoginRequest DTO для входа администратора
// @Description DTO для входа администратора
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	District string `json:"district"`
}

// AdminLoginResponse DTO для ответа на вход администратора
// @Description DTO для ответа на вход администратора
type AdminLoginResponse struct {
	Token    string `json:"token"`
	District string `json:"district"`
}

// ReportIncidentRequest DTO для публичного сообщения об инциденте
// @Description DTO для публичного сообщения об инциденте
type ReportIncidentRequest struct {
	Type        string  `json:"type" validate:"required,oneof=Flood Drought Heatwave Wildfire 'Air Quality' Storm Other"`
	Description string  `json:"description" validate:"required"`
	Lat         float64 `json:"lat" validate:"required,latitude"`
	Lng         float64 `json:"lng" validate:"required,longitude"`
	Severity    string  `json:"severity" validate:"omitempty,oneof=Critical High Medium Low"`
	Photo       *string `json:"photo"`
	District    string  `json:"district"`
	State       string  `json:"state"`
	ReportedBy  string  `json:"reportedBy"`
	Phone       string  `json:"phone"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Photo       *string   `json:"photo"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	ReportedBy  string    `json:"reportedBy"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// ResolveIncidentResponse DTO для ответа на resolve
// @Description DTO для ответа на resolve
type ResolveIncidentResponse struct {
	Message  string            `json:"message"`
	Incident *IncidentResponse `json:"incident"`
}

// MessageResponse DTO для ответов, содержащих только сообщение
// @Description DTO для ответов, содержащих только сообщение
type MessageResponse struct {
	Message string `json:"message"`
}
