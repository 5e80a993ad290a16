package models

// InsightsReport - агрегированная сводка по инцидентам
type InsightsReport struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	Resolved   int            `json:"resolved"`
	ByType     map[string]int `json:"byType"`
	BySeverity map[string]int `json:"bySeverity"`
	ByDistrict map[string]int `json:"byDistrict"`
	TopType    string         `json:"topType,omitempty"`
	Summary    string         `json:"summary"`
}
